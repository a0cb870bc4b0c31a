package writer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/getdelta/firehose-writer/internal/app"
	"github.com/getdelta/firehose-writer/internal/domain"
	"github.com/getdelta/firehose-writer/internal/encoder"
	"github.com/getdelta/firehose-writer/internal/observability"
	"github.com/getdelta/firehose-writer/pkg/log"
)

// State represents the lifecycle state of a Writer.
type State = app.State

// Lifecycle states.
const (
	StateStopped  = app.StateStopped
	StateRunning  = app.StateRunning
	StateStopping = app.StateStopping
	StateClosed   = app.StateClosed
)

// Stats is a snapshot of the buffer.
type Stats struct {
	BufferedRecords int
	BufferedBytes   int
}

// Writer buffers records and delivers them to a stream in bounded chunks.
// Use New() to create an instance, Put to add records, and Close to flush
// and release it. Start enables the periodic flush.
// All methods are safe for concurrent use.
type Writer struct {
	config     Config
	logger     log.Logger
	metrics    *observability.Metrics
	acc        *app.Accumulator
	dispatcher *app.Dispatcher
	lifecycle  *app.Lifecycle

	// mu orders threshold flushes against Close: Put holds it shared while
	// registering a background delivery, Close holds it exclusively to seal.
	mu         sync.RWMutex
	stopTicker context.CancelFunc
	tickerDone chan struct{}

	// bgCtx bounds background deliveries; canceled once Close returns.
	bgCtx    context.Context
	bgCancel context.CancelFunc
}

// New creates a new Writer with the given configuration.
// The writer accepts records immediately; call Start to enable the
// periodic flush. Returns ErrInvalidArgument if the configuration is
// invalid or no BatchWriter was provided.
func New(cfg Config, opts ...Option) (*Writer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.batchWriter == nil {
		return nil, invalid("a batch writer is required")
	}
	if o.logger == nil {
		o.logger = log.NewZerologAdapter()
	}
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
	}

	metrics := observability.NewMetrics(o.registry)

	engine := app.NewEngine(app.EngineConfig{
		StreamID:   cfg.StreamID,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
	}, o.batchWriter, o.logger, metrics)

	dispatcher := app.NewDispatcher(app.DispatcherConfig{
		MaxChunkBytes:   cfg.MaxChunkBytes,
		MaxChunkRecords: cfg.MaxChunkRecords,
	}, engine, o.logger)

	acc := app.NewAccumulator(app.AccumulatorConfig{
		MaxBufferBytes:   cfg.MaxBufferBytes,
		MaxBufferRecords: cfg.MaxBufferRecords,
		MaxRecordBytes:   cfg.MaxRecordBytes,
	})

	bgCtx, bgCancel := context.WithCancel(context.Background())

	return &Writer{
		config:     cfg,
		logger:     o.logger,
		metrics:    metrics,
		acc:        acc,
		dispatcher: dispatcher,
		lifecycle:  app.NewLifecycle(o.logger),
		bgCtx:      bgCtx,
		bgCancel:   bgCancel,
	}, nil
}

// Put encodes v and adds it to the buffer.
//
// []byte and json.RawMessage values are stored as is; any other value is
// JSON-encoded. nil and string values are rejected with ErrInvalidArgument.
// A payload larger than MaxRecordBytes is rejected with ErrRecordTooLarge
// and never buffered. If the buffer reaches a threshold it is flushed in
// the background; delivery errors from that flush are logged, never
// returned.
func (w *Writer) Put(v any) error {
	rec, err := encoder.Encode(v)
	if err != nil {
		w.metrics.IncRecordsRejected(w.config.StreamID, "invalid")
		return err
	}

	w.mu.RLock()
	drained, err := w.acc.Append(rec)
	if len(drained) > 0 {
		w.lifecycle.AddWorker()
	}
	w.mu.RUnlock()

	if err != nil {
		if errors.Is(err, domain.ErrRecordTooLarge) {
			w.metrics.IncRecordsRejected(w.config.StreamID, "too_large")
		}
		return err
	}
	w.metrics.IncRecordsPut(w.config.StreamID)
	w.updateBufferGauges()

	if len(drained) > 0 {
		trigger := observability.TriggerRecords
		if domain.TotalSize(drained) >= w.config.MaxBufferBytes {
			trigger = observability.TriggerBytes
		}
		go w.flushBackground(drained, trigger)
	}
	return nil
}

// Flush delivers everything buffered so far and waits for the outcome.
// It returns nil without calling the stream when the buffer is empty, and
// otherwise the joined DeliveryError of every chunk that failed.
func (w *Writer) Flush(ctx context.Context) error {
	if w.lifecycle.State() == StateClosed {
		return ErrClosed
	}
	records, _ := w.acc.TakeAndReset()
	return w.deliver(ctx, records, observability.TriggerManual)
}

// Start begins flushing the buffer every FlushInterval in the background.
// Returns ErrAlreadyRunning if already started and ErrClosed after Close.
// The periodic flush stops when ctx is done or Close is called.
func (w *Writer) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.lifecycle.TransitionTo(StateRunning, "Start() called"); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	w.stopTicker = cancel
	w.tickerDone = done

	go w.runTicker(runCtx, done)

	w.logger.Info("writer started",
		log.String("stream", w.config.StreamID),
		log.Duration("flush_interval", w.config.FlushInterval),
	)
	return nil
}

// Close stops the periodic flush, performs one final flush and waits for
// background deliveries until ctx is done. Further Put calls return
// ErrClosed. The result joins the final flush's delivery errors with
// ErrShutdownTimeout if deliveries were still in flight at the deadline.
func (w *Writer) Close(ctx context.Context) error {
	if err := w.lifecycle.TransitionTo(StateStopping, "Close() called"); err != nil {
		return err
	}

	w.mu.Lock()
	stop, done := w.stopTicker, w.tickerDone
	w.mu.Unlock()
	if stop != nil {
		stop()
		<-done
	}

	w.mu.Lock()
	records, _ := w.acc.Close()
	w.mu.Unlock()

	flushErr := w.deliver(ctx, records, observability.TriggerClose)
	waitErr := w.lifecycle.Wait(ctx)
	w.bgCancel()

	_ = w.lifecycle.TransitionTo(StateClosed, "Close() finished")

	w.logger.Info("writer closed",
		log.String("stream", w.config.StreamID),
		log.Bool("clean", flushErr == nil && waitErr == nil),
	)
	return errors.Join(flushErr, waitErr)
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (w *Writer) Status() State {
	return w.lifecycle.State()
}

// Stats returns the current buffer occupancy.
func (w *Writer) Stats() Stats {
	records, bytes := w.acc.Stats()
	return Stats{BufferedRecords: records, BufferedBytes: bytes}
}

func (w *Writer) runTicker(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.mu.RLock()
			records, _ := w.acc.TakeAndReset()
			if len(records) > 0 {
				w.lifecycle.AddWorker()
			}
			w.mu.RUnlock()

			if len(records) > 0 {
				go w.flushBackground(records, observability.TriggerInterval)
			}
		}
	}
}

// flushBackground delivers records nobody waits for. The caller must have
// registered it with lifecycle.AddWorker.
func (w *Writer) flushBackground(records []domain.Record, trigger string) {
	defer w.lifecycle.WorkerDone()

	if err := w.deliver(w.bgCtx, records, trigger); err != nil {
		w.logger.Error("background flush failed",
			log.String("stream", w.config.StreamID),
			log.String("trigger", trigger),
			log.Int("records", len(records)),
			log.Err(err),
		)
	}
}

func (w *Writer) deliver(ctx context.Context, records []domain.Record, trigger string) error {
	w.updateBufferGauges()
	if len(records) == 0 {
		return nil
	}

	w.metrics.IncFlushes(w.config.StreamID, trigger)
	err := w.dispatcher.Dispatch(ctx, records)
	if err != nil {
		w.metrics.IncFlushErrors(w.config.StreamID, trigger)
	}
	return err
}

func (w *Writer) updateBufferGauges() {
	records, bytes := w.acc.Stats()
	w.metrics.SetBuffer(w.config.StreamID, records, bytes)
}
