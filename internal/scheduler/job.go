package scheduler

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hamed0406/netprobe/internal/domain"
)

type State int32

const (
	Scheduled State = iota
	Running
	Idle
	Terminated
)

func (s State) String() string {
	switch s {
	case Scheduled:
		return "scheduled"
	case Running:
		return "running"
	case Idle:
		return "idle"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Handle tracks one recurring host x kind job. It is safe to read from any
// goroutine while the orchestrator runs.
type Handle struct {
	Host  string
	Kind  domain.ProbeKind
	Delay time.Duration

	state   atomic.Int32
	ticks   atomic.Int64
	lastRun atomic.Int64 // unix nanos, 0 before the first tick

	mu  sync.Mutex
	err error

	finished chan struct{}
}

func newHandle(host string, kind domain.ProbeKind, delay time.Duration) *Handle {
	return &Handle{Host: host, Kind: kind, Delay: delay, finished: make(chan struct{}, 1)}
}

// Name is also used as the goroutine label while the job runs.
func (h *Handle) Name() string { return "job-" + h.Host + "-" + string(h.Kind) }

func (h *Handle) State() State { return State(h.state.Load()) }

func (h *Handle) Ticks() int64 { return h.ticks.Load() }

func (h *Handle) LastRun() time.Time {
	n := h.lastRun.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// Err is the reason the job terminated, nil while it recurs.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

func (h *Handle) setState(s State) { h.state.Store(int32(s)) }

func (h *Handle) begin(now time.Time) {
	h.setState(Running)
	h.ticks.Add(1)
	h.lastRun.Store(now.UnixNano())
}

func (h *Handle) terminate(err error) {
	h.mu.Lock()
	h.err = err
	h.mu.Unlock()
	h.setState(Terminated)
}

type JobStatus struct {
	Name    string     `json:"name"`
	Host    string     `json:"host"`
	Kind    string     `json:"kind"`
	State   string     `json:"state"`
	Delay   string     `json:"delay"`
	Ticks   int64      `json:"ticks"`
	LastRun *time.Time `json:"lastRun"`
	Error   string     `json:"error,omitempty"`
}

func (h *Handle) Status() JobStatus {
	st := JobStatus{
		Name:  h.Name(),
		Host:  h.Host,
		Kind:  string(h.Kind),
		State: h.State().String(),
		Delay: h.Delay.String(),
		Ticks: h.Ticks(),
	}
	if t := h.LastRun(); !t.IsZero() {
		st.LastRun = &t
	}
	if err := h.Err(); err != nil {
		st.Error = err.Error()
	}
	return st
}

// TerminatedError ends Run when a job stops recurring.
type TerminatedError struct {
	Job string
	Err error
}

func (e *TerminatedError) Error() string {
	return fmt.Sprintf("job %s terminated: %v", e.Job, e.Err)
}

func (e *TerminatedError) Unwrap() error { return e.Err }
