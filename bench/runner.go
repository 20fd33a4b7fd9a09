// Package bench implements the benchmark session: circuit intake, backend
// selection, the run state machine, result reconciliation and the chart
// projection derived from it.
//
// A Runner owns the session record. It reads the circuit and the selection
// at submission time, keeps at most one request in flight, and publishes a
// Snapshot to subscribers after every change.
package bench

import (
	"context"
	"errors"
	"sync"
	"time"

	"qbench/models"
	"qbench/services"

	"go.uber.org/zap"
)

// Submitter sends one benchmark request and returns the raw results
type Submitter interface {
	Run(ctx context.Context, req *models.BenchmarkRequest) ([]*models.BackendResult, error)
}

// CircuitProvider exposes the current circuit
type CircuitProvider interface {
	Circuit() CircuitSource
}

// SelectionProvider exposes the current backend selection
type SelectionProvider interface {
	Selection() []models.BackendID
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithLogger sets the logger for state transitions
func WithLogger(logger *zap.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithRunTimeout bounds each benchmark call. Zero leaves it unbounded.
func WithRunTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.runTimeout = d
	}
}

// WithClock overrides the time source used for run timestamps
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		r.now = now
	}
}

const subscriberBuffer = 16

// Runner is the benchmark run state machine
type Runner struct {
	submitter  Submitter
	circuit    CircuitProvider
	selection  SelectionProvider
	logger     *zap.Logger
	runTimeout time.Duration
	now        func() time.Time

	mu          sync.Mutex
	state       RunState
	version     uint64
	request     *RunRequest
	results     []*models.BackendResult
	err         error
	startedAt   time.Time
	finishedAt  time.Time
	subscribers map[int]chan Snapshot
	nextSubID   int

	inflight sync.WaitGroup
}

// NewRunner creates an idle Runner
func NewRunner(submitter Submitter, circuit CircuitProvider, selection SelectionProvider, opts ...RunnerOption) *Runner {
	r := &Runner{
		submitter:   submitter,
		circuit:     circuit,
		selection:   selection,
		logger:      zap.NewNop(),
		now:         time.Now,
		state:       Idle,
		subscribers: make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunBenchmark starts a run from Idle or Completed. A missing circuit or an
// empty selection is returned as an error without touching state. While a
// run is outstanding further calls are ignored.
func (r *Runner) RunBenchmark(ctx context.Context) error {
	r.mu.Lock()

	if r.state == Running {
		r.mu.Unlock()
		r.logger.Debug("benchmark already running, ignoring submission")
		return nil
	}

	circuit := r.circuit.Circuit()
	if circuit.Empty() {
		r.mu.Unlock()
		return &MissingCircuitError{}
	}
	selection := r.selection.Selection()
	if len(selection) == 0 {
		r.mu.Unlock()
		return &EmptySelectionError{}
	}

	req := &RunRequest{Circuit: circuit, Backends: selection}
	r.request = req
	r.state = Running
	r.err = nil
	r.startedAt = r.now()
	r.finishedAt = time.Time{}
	r.inflight.Add(1)
	r.publishLocked()
	r.mu.Unlock()

	r.logger.Info("benchmark started",
		zap.String("circuit", circuit.Name),
		zap.Any("backends", selection),
	)

	go r.execute(ctx, req)
	return nil
}

func (r *Runner) execute(ctx context.Context, req *RunRequest) {
	defer r.inflight.Done()

	if r.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.runTimeout)
		defer cancel()
	}

	results, err := r.submitter.Run(ctx, req.Wire())

	r.mu.Lock()
	defer r.mu.Unlock()

	r.finishedAt = r.now()
	if err != nil {
		r.err = classify(err)
		r.state = Failed
		r.publishLocked()
		r.state = Idle
		r.publishLocked()
		r.logger.Warn("benchmark failed", zap.Error(r.err), zap.Duration("elapsed", r.finishedAt.Sub(r.startedAt)))
		return
	}

	r.results = results
	r.state = Completed
	r.publishLocked()
	r.logger.Info("benchmark completed",
		zap.Int("results", len(results)),
		zap.Duration("elapsed", r.finishedAt.Sub(r.startedAt)),
	)
}

// ClearResults empties the result set and last error. Circuit and selection
// are untouched. Ignored while a run is outstanding.
func (r *Runner) ClearResults() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == Running {
		r.logger.Debug("clear ignored while running")
		return
	}
	if r.state == Idle && r.results == nil && r.err == nil {
		return
	}

	r.results = nil
	r.err = nil
	r.state = Idle
	r.publishLocked()
	r.logger.Debug("results cleared")
}

// State returns the stored state
func (r *Runner) State() RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Readiness refines Idle into AwaitingCircuit or AwaitingSelection
func (r *Runner) Readiness() RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readinessLocked()
}

func (r *Runner) readinessLocked() RunState {
	if r.state != Idle {
		return r.state
	}
	if r.circuit.Circuit().Empty() {
		return AwaitingCircuit
	}
	if len(r.selection.Selection()) == 0 {
		return AwaitingSelection
	}
	return Idle
}

// Snapshot returns the current session record
func (r *Runner) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Subscribe returns a channel of snapshots published after every change and
// a function that cancels the subscription. A subscriber that falls behind
// only misses intermediate snapshots, the latest one is always delivered.
func (r *Runner) Subscribe() (<-chan Snapshot, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextSubID
	r.nextSubID++
	ch := make(chan Snapshot, subscriberBuffer)
	r.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			delete(r.subscribers, id)
			close(ch)
		})
	}
}

// Wait blocks until no run is outstanding
func (r *Runner) Wait() {
	r.inflight.Wait()
}

// Notify publishes a fresh snapshot without changing state, for callers
// that changed the circuit or selection and want observers to see it.
func (r *Runner) Notify() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.publishLocked()
}

func (r *Runner) snapshotLocked() Snapshot {
	results := make([]*models.BackendResult, len(r.results))
	copy(results, r.results)
	if r.results == nil {
		results = nil
	}
	return Snapshot{
		Version:    r.version,
		State:      r.state,
		Readiness:  r.readinessLocked(),
		Circuit:    r.circuit.Circuit(),
		Selection:  r.selection.Selection(),
		Request:    r.request,
		Results:    results,
		Err:        r.err,
		StartedAt:  r.startedAt,
		FinishedAt: r.finishedAt,
	}
}

func (r *Runner) publishLocked() {
	r.version++
	snap := r.snapshotLocked()
	for _, ch := range r.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the oldest pending snapshot to make room for the latest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// classify maps a submitter error onto the transport/decode taxonomy
func classify(err error) error {
	var transportErr *services.TransportError
	var decodeErr *services.DecodeError
	switch {
	case errors.As(err, &transportErr), errors.As(err, &decodeErr):
		return err
	default:
		return &services.TransportError{Op: "run benchmark", Err: err}
	}
}
