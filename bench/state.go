package bench

import (
	"time"

	"qbench/models"
)

// RunState is the benchmark runner state
type RunState int

const (
	Idle RunState = iota
	AwaitingCircuit
	AwaitingSelection
	Running
	Completed
	Failed
)

func (s RunState) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingCircuit:
		return "awaiting circuit"
	case AwaitingSelection:
		return "awaiting selection"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// RunRequest is the immutable input of one benchmark run
type RunRequest struct {
	Circuit  CircuitSource
	Backends []models.BackendID
}

// Wire converts the request to the service body
func (r *RunRequest) Wire() *models.BenchmarkRequest {
	backends := make([]models.BackendID, len(r.Backends))
	copy(backends, r.Backends)
	return &models.BenchmarkRequest{
		QASM:       r.Circuit.Text,
		Simulators: backends,
	}
}

// Snapshot is a versioned copy of the session record. Version increases by
// one for every published change.
type Snapshot struct {
	Version uint64

	// State is the stored runner state; Readiness refines Idle into
	// AwaitingCircuit or AwaitingSelection when a run could not start yet
	State     RunState
	Readiness RunState

	Circuit   CircuitSource
	Selection []models.BackendID
	Request   *RunRequest
	Results   []*models.BackendResult
	Err       error

	StartedAt  time.Time
	FinishedAt time.Time
}

// HasResults reports whether a result set is present
func (s Snapshot) HasResults() bool {
	return len(s.Results) > 0
}

// Elapsed returns how long the last run took, zero if it has not finished
func (s Snapshot) Elapsed() time.Duration {
	if s.StartedAt.IsZero() || s.FinishedAt.Before(s.StartedAt) {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
