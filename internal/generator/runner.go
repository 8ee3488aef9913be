package generator

import (
	"context"
	"errors"
	"sync"

	"github.com/segmentio/ksuid"

	"shortsfactory/internal/script"
)

// State of a generation job.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateDone      State = "done"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

// Snapshot is a point-in-time view of the current (or last) job.
type Snapshot struct {
	ID       string              `json:"id,omitempty"`
	State    State               `json:"state"`
	Progress int                 `json:"progress"`
	Status   string              `json:"status,omitempty"`
	Script   *script.VideoScript `json:"script,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// Runner serializes generations: at most one runs at a time, and starting a
// new one cancels whatever is still in flight.
type Runner struct {
	gen *Generator

	mu      sync.Mutex
	current *job
}

type job struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	snapshot Snapshot
}

func NewRunner(gen *Generator) *Runner {
	return &Runner{gen: gen}
}

// Start kicks off a generation in the background and returns its job ID. A
// running job is cancelled first; its goroutine winds down on its own.
func (r *Runner) Start(req Request) string {
	ctx, cancel := context.WithCancel(context.Background())
	j := &job{
		id:     ksuid.New().String(),
		cancel: cancel,
		done:   make(chan struct{}),
		snapshot: Snapshot{
			State:    StateRunning,
			Progress: 0,
			Status:   "Starting...",
		},
	}
	j.snapshot.ID = j.id

	r.mu.Lock()
	if prev := r.current; prev != nil {
		prev.cancel()
	}
	r.current = j
	r.mu.Unlock()

	callerProgress := req.OnProgress
	req.OnProgress = func(percent int, status string) {
		j.update(func(s *Snapshot) {
			s.Progress = percent
			s.Status = status
		})
		if callerProgress != nil {
			callerProgress(percent, status)
		}
	}

	go func() {
		defer close(j.done)
		defer cancel()

		result, err := r.gen.Generate(ctx, req)
		j.update(func(s *Snapshot) {
			switch {
			case err == nil:
				s.State = StateDone
				s.Progress = 100
				s.Script = result
			case errors.Is(err, context.Canceled):
				s.State = StateCancelled
				s.Status = "Cancelled"
			default:
				s.State = StateFailed
				s.Error = err.Error()
			}
		})
	}()

	return j.id
}

// Cancel stops the in-flight job, if any. It reports whether there was one.
func (r *Runner) Cancel() bool {
	r.mu.Lock()
	j := r.current
	r.mu.Unlock()

	if j == nil {
		return false
	}
	j.mu.Lock()
	running := j.snapshot.State == StateRunning
	j.mu.Unlock()
	if !running {
		return false
	}
	j.cancel()
	return true
}

// Status returns the current job's snapshot, or an idle snapshot when
// nothing has run yet.
func (r *Runner) Status() Snapshot {
	r.mu.Lock()
	j := r.current
	r.mu.Unlock()

	if j == nil {
		return Snapshot{State: StateIdle}
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.snapshot
}

// Wait blocks until the current job finishes. Used by tests and the CLI.
func (r *Runner) Wait() {
	r.mu.Lock()
	j := r.current
	r.mu.Unlock()
	if j != nil {
		<-j.done
	}
}

func (j *job) update(f func(*Snapshot)) {
	j.mu.Lock()
	defer j.mu.Unlock()
	f(&j.snapshot)
}
