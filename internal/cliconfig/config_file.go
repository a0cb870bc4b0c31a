package cliconfig

import (
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig is the TOML shape of Config. Durations are strings such as
// "500ms"; pointer fields distinguish an explicit zero from an absent key.
type FileConfig struct {
	StreamID         string `toml:"stream"`
	Region           string `toml:"region"`
	Endpoint         string `toml:"endpoint"`
	Input            string `toml:"input"`
	Follow           *bool  `toml:"follow"`
	MaxBufferBytes   int    `toml:"max_buffer_bytes"`
	MaxBufferRecords int    `toml:"max_buffer_records"`
	FlushInterval    string `toml:"flush_interval"`
	MaxChunkRecords  int    `toml:"max_chunk_records"`
	MaxChunkBytes    int    `toml:"max_chunk_bytes"`
	MaxRecordBytes   int    `toml:"max_record_bytes"`
	MaxRetries       *int   `toml:"max_retries"`
	RetryDelay       string `toml:"retry_delay"`
	ShutdownTimeout  string `toml:"shutdown_timeout"`
	MetricsAddr      string `toml:"metrics_addr"`
	LogLevel         string `toml:"log_level"`
}

// LoadFileConfig decodes the TOML file at path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	err = toml.Unmarshal(b, &fc)
	return fc, err
}

// DefaultConfigPath is ~/.firehose-writer/config.toml, or "" without a
// home directory.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".firehose-writer", "config.toml")
	}
	return ""
}

// ApplyFileConfig copies the values set in fc into cfg, skipping every key
// whose flag is in changed.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	l := layer(changed)

	l.text("stream", fc.StreamID, &cfg.StreamID)
	l.text("region", fc.Region, &cfg.Region)
	l.text("endpoint", fc.Endpoint, &cfg.Endpoint)
	l.text("input", fc.Input, &cfg.Input)
	l.text("metrics-addr", fc.MetricsAddr, &cfg.MetricsAddr)
	l.text("log-level", fc.LogLevel, &cfg.LogLevel)
	explicit(l, "follow", fc.Follow, &cfg.Follow)

	l.count("max-buffer-bytes", fc.MaxBufferBytes, &cfg.MaxBufferBytes)
	l.count("max-buffer-records", fc.MaxBufferRecords, &cfg.MaxBufferRecords)
	l.count("max-chunk-records", fc.MaxChunkRecords, &cfg.MaxChunkRecords)
	l.count("max-chunk-bytes", fc.MaxChunkBytes, &cfg.MaxChunkBytes)
	l.count("max-record-bytes", fc.MaxRecordBytes, &cfg.MaxRecordBytes)
	explicit(l, "max-retries", fc.MaxRetries, &cfg.MaxRetries)

	for _, d := range []struct {
		flag, raw string
		dst       *time.Duration
	}{
		{"flush-interval", fc.FlushInterval, &cfg.FlushInterval},
		{"retry-delay", fc.RetryDelay, &cfg.RetryDelay},
		{"shutdown-timeout", fc.ShutdownTimeout, &cfg.ShutdownTimeout},
	} {
		if err := l.duration(d.flag, d.raw, d.dst); err != nil {
			return err
		}
	}
	return nil
}

// FileExists reports whether p can be stat'ed.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
