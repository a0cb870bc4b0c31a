package cliconfig

import (
	"os"
	"time"
)

// EnvPrefix prefixes every environment variable the CLI reads, e.g.
// FIREHOSE_WRITER_STREAM.
const EnvPrefix = "FIREHOSE_WRITER_"

// ApplyEnvConfig copies the FIREHOSE_WRITER_* variables into cfg, skipping
// every key whose flag is in changed. Malformed numbers, durations and
// booleans are errors.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	return applyEnv(cfg, layer(changed), func(name string) string {
		return os.Getenv(EnvPrefix + name)
	})
}

func applyEnv(cfg *Config, l layer, env func(string) string) error {
	l.text("stream", env("STREAM"), &cfg.StreamID)
	l.text("region", env("REGION"), &cfg.Region)
	l.text("endpoint", env("ENDPOINT"), &cfg.Endpoint)
	l.text("input", env("INPUT"), &cfg.Input)
	l.text("metrics-addr", env("METRICS_ADDR"), &cfg.MetricsAddr)
	l.text("log-level", env("LOG_LEVEL"), &cfg.LogLevel)

	if err := l.boolean("follow", env("FOLLOW"), &cfg.Follow); err != nil {
		return err
	}

	for _, d := range []struct {
		flag, name string
		dst        *time.Duration
	}{
		{"flush-interval", "FLUSH_INTERVAL", &cfg.FlushInterval},
		{"retry-delay", "RETRY_DELAY", &cfg.RetryDelay},
		{"shutdown-timeout", "SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout},
	} {
		if err := l.duration(d.flag, env(d.name), d.dst); err != nil {
			return err
		}
	}

	for _, n := range []struct {
		flag, name string
		min        int
		dst        *int
	}{
		{"max-buffer-bytes", "MAX_BUFFER_BYTES", 1, &cfg.MaxBufferBytes},
		{"max-buffer-records", "MAX_BUFFER_RECORDS", 1, &cfg.MaxBufferRecords},
		{"max-chunk-records", "MAX_CHUNK_RECORDS", 1, &cfg.MaxChunkRecords},
		{"max-chunk-bytes", "MAX_CHUNK_BYTES", 1, &cfg.MaxChunkBytes},
		{"max-record-bytes", "MAX_RECORD_BYTES", 1, &cfg.MaxRecordBytes},
		{"max-retries", "MAX_RETRIES", 0, &cfg.MaxRetries},
	} {
		if err := l.number(n.flag, env(n.name), n.min, n.dst); err != nil {
			return err
		}
	}
	return nil
}
