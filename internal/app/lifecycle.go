package app

import (
	"context"
	"sync"

	"github.com/getdelta/firehose-writer/internal/domain"
	"github.com/getdelta/firehose-writer/pkg/log"
)

// State is a writer lifecycle phase.
type State int

const (
	// StateStopped is the initial phase: Put and Flush work, no ticker runs.
	StateStopped State = iota
	// StateRunning has the periodic flush ticker active.
	StateRunning
	// StateStopping refuses new records while Close drains.
	StateStopping
	// StateClosed is terminal.
	StateClosed
)

var stateNames = [...]string{"Stopped", "Running", "Stopping", "Closed"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

// allowed lists the legal targets per phase, and refusal the error returned
// for any other target.
var (
	allowed = map[State][]State{
		StateStopped:  {StateRunning, StateStopping},
		StateRunning:  {StateStopping},
		StateStopping: {StateClosed},
	}
	refusal = map[State]error{
		StateStopped:  domain.ErrInvalidArgument,
		StateRunning:  domain.ErrAlreadyRunning,
		StateStopping: domain.ErrClosed,
		StateClosed:   domain.ErrClosed,
	}
)

// Lifecycle guards the writer phase and counts in-flight background flushes
// so Close can wait for them.
type Lifecycle struct {
	mu       sync.RWMutex
	state    State
	inflight sync.WaitGroup
	logger   log.Logger
}

func NewLifecycle(logger log.Logger) *Lifecycle {
	return &Lifecycle{state: StateStopped, logger: logger}
}

func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// TransitionTo moves to next. Exactly one of several concurrent callers
// requesting the same transition succeeds.
func (l *Lifecycle) TransitionTo(next State, reason string) error {
	l.mu.Lock()
	prev := l.state
	if !canMove(prev, next) {
		l.mu.Unlock()
		return refusal[prev]
	}
	l.state = next
	l.mu.Unlock()

	l.logger.Debug("writer state changed",
		log.String("from", prev.String()),
		log.String("to", next.String()),
		log.String("reason", reason),
	)
	return nil
}

func canMove(from, to State) bool {
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

// AddWorker registers one background flush. Callers must pair it with
// WorkerDone.
func (l *Lifecycle) AddWorker() { l.inflight.Add(1) }

func (l *Lifecycle) WorkerDone() { l.inflight.Done() }

// Wait blocks until every registered flush has returned. If ctx ends first
// it returns ErrShutdownTimeout; the flushes keep running.
func (l *Lifecycle) Wait(ctx context.Context) error {
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		l.inflight.Wait()
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		l.logger.Warn("shutdown deadline reached with deliveries in flight", log.Err(ctx.Err()))
		return domain.ErrShutdownTimeout
	}
}
