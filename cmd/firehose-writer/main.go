package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/getdelta/firehose-writer/internal/adapters/firehose"
	"github.com/getdelta/firehose-writer/internal/cliconfig"
	"github.com/getdelta/firehose-writer/internal/observability"
	"github.com/getdelta/firehose-writer/internal/source"
	"github.com/getdelta/firehose-writer/pkg/log"
	"github.com/getdelta/firehose-writer/pkg/writer"
)

const longHelp = `Ship newline-delimited records to an Amazon Kinesis Data Firehose delivery stream.

Every non-empty input line becomes one record. Records are buffered, split
into PutRecordBatch-sized chunks and retried on throttling and partial
failures. On SIGINT or SIGTERM the buffer is flushed one last time.

Configuration is read from the config file, then FIREHOSE_WRITER_* environment
variables, then flags; later sources win.`

var exampleUsage = strings.TrimSpace(`
  tail -F app.jsonl | firehose-writer --stream events --region us-east-1
  firehose-writer --stream events --input app.jsonl --follow --metrics-addr :9102
  firehose-writer --config $HOME/.firehose-writer/config.toml < backfill.jsonl
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:           "firehose-writer",
		Short:         "Ship newline-delimited records to a Firehose delivery stream",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// Environment overrides the file; explicit flags override both.
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			return run(cfg)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.firehose-writer/config.toml)")
	root.Flags().StringVar(&cfg.StreamID, "stream", cfg.StreamID, "delivery stream name")
	root.Flags().StringVar(&cfg.Region, "region", cfg.Region, "AWS region (defaults to the AWS SDK configuration)")
	root.Flags().StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "custom Firehose endpoint URL, e.g. a local emulator")
	root.Flags().StringVar(&cfg.Input, "input", cfg.Input, `input file, "-" for stdin`)
	root.Flags().BoolVar(&cfg.Follow, "follow", cfg.Follow, "keep reading lines appended to the input file")

	root.Flags().IntVar(&cfg.MaxBufferBytes, "max-buffer-bytes", cfg.MaxBufferBytes, "flush when the buffer holds this many bytes")
	root.Flags().IntVar(&cfg.MaxBufferRecords, "max-buffer-records", cfg.MaxBufferRecords, "flush when the buffer holds this many records")
	root.Flags().DurationVar(&cfg.FlushInterval, "flush-interval", cfg.FlushInterval, "periodic flush interval")
	root.Flags().IntVar(&cfg.MaxChunkRecords, "max-chunk-records", cfg.MaxChunkRecords, "maximum records per PutRecordBatch call")
	root.Flags().IntVar(&cfg.MaxChunkBytes, "max-chunk-bytes", cfg.MaxChunkBytes, "maximum bytes per PutRecordBatch call")
	root.Flags().IntVar(&cfg.MaxRecordBytes, "max-record-bytes", cfg.MaxRecordBytes, "maximum size of a single record")
	root.Flags().IntVar(&cfg.MaxRetries, "max-retries", cfg.MaxRetries, "retries per chunk before giving up")
	root.Flags().DurationVar(&cfg.RetryDelay, "retry-delay", cfg.RetryDelay, "delay before retrying a throttled chunk")

	root.Flags().DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "time allowed for the final flush")
	root.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve Prometheus metrics on this address (disabled when empty)")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "firehose-writer: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg cliconfig.Config) error {
	zl, err := cliconfig.NewLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := log.NewZerologAdapterWithLogger(zl)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bw, err := firehose.New(ctx, firehose.Config{Region: cfg.Region, Endpoint: cfg.Endpoint})
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	w, err := writer.New(cfg.WriterConfig(),
		writer.WithBatchWriter(bw),
		writer.WithLogger(logger),
		writer.WithMetrics(registry),
	)
	if err != nil {
		return fmt.Errorf("create writer: %w", err)
	}

	if cfg.MetricsAddr != "" {
		srv := observability.NewServer(cfg.MetricsAddr, registry, func() (string, bool) {
			s := w.Status()
			return s.String(), s == writer.StateRunning
		}, logger)
		srv.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start writer: %w", err)
	}
	logger.Info("reading records",
		log.String("stream", cfg.StreamID),
		log.String("input", cfg.Input),
		log.Bool("follow", cfg.Follow),
	)

	put := func(line []byte) error {
		err := w.Put(line)
		if errors.Is(err, writer.ErrRecordTooLarge) {
			logger.Warn("skipping oversized record", log.Int("bytes", len(line)), log.Err(err))
			return nil
		}
		return err
	}

	readDone := make(chan error, 1)
	go func() { readDone <- read(ctx, cfg, put, logger) }()

	var readErr error
	select {
	case readErr = <-readDone:
		if readErr == nil {
			logger.Info("input exhausted")
		}
	case <-ctx.Done():
		logger.Info("received signal, flushing")
	}

	// The signal context is already canceled here; the final flush gets
	// its own deadline.
	closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	stats := w.Stats()
	closeErr := w.Close(closeCtx)
	if closeErr != nil {
		logger.Error("final flush incomplete", log.Int("records", stats.BufferedRecords), log.Err(closeErr))
	}
	return errors.Join(readErr, closeErr)
}

func read(ctx context.Context, cfg cliconfig.Config, put source.LineFunc, logger log.Logger) error {
	if cfg.Follow {
		return source.Follow(ctx, cfg.Input, put, logger)
	}

	var r io.Reader = os.Stdin
	if cfg.Input != "-" {
		f, err := os.Open(cfg.Input)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	return source.ReadLines(ctx, r, put)
}
