package app

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/getdelta/firehose-writer/internal/domain"
	"github.com/getdelta/firehose-writer/pkg/log"
)

// DispatcherConfig contains the per-call chunk limits.
type DispatcherConfig struct {
	MaxChunkBytes   int
	MaxChunkRecords int
}

// Dispatcher splits a drained buffer into chunks and delivers them concurrently.
type Dispatcher struct {
	config DispatcherConfig
	engine *Engine
	logger log.Logger
}

// NewDispatcher creates a dispatcher delivering through engine.
func NewDispatcher(config DispatcherConfig, engine *Engine, logger log.Logger) *Dispatcher {
	return &Dispatcher{
		config: config,
		engine: engine,
		logger: logger,
	}
}

// Dispatch delivers records and waits for every chunk to finish.
// Chunks are independent: a chunk that fails does not stop its siblings, and
// the returned error joins the failure of every chunk that failed.
func (d *Dispatcher) Dispatch(ctx context.Context, records []domain.Record) error {
	chunks := Split(records, d.config.MaxChunkBytes, d.config.MaxChunkRecords)
	if len(chunks) == 0 {
		return nil
	}

	d.logger.Debug("dispatching chunks",
		log.String("stream", d.engine.config.StreamID),
		log.Int("records", len(records)),
		log.Int("chunks", len(chunks)),
	)
	d.engine.metrics.AddChunksDispatched(d.engine.config.StreamID, len(chunks))

	errs := make([]error, len(chunks))
	var g errgroup.Group
	for i, chunk := range chunks {
		g.Go(func() error {
			errs[i] = d.engine.Deliver(ctx, chunk.Records)
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

