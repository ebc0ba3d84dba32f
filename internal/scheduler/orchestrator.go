package scheduler

import (
	"context"
	"runtime"
	"runtime/pprof"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hamed0406/netprobe/internal/domain"
	"github.com/hamed0406/netprobe/internal/logging"
	"github.com/hamed0406/netprobe/internal/response"
)

const defaultDelay = 5 * time.Second

type Prober interface {
	PostICMP(ctx context.Context, host string) response.Response[domain.ICMPResult]
	PostTCP(ctx context.Context, host string) response.Response[domain.TCPResult]
	PostTraceRoute(ctx context.Context, host string) response.Response[domain.TraceRouteResult]
}

type Assembler interface {
	Assemble(ctx context.Context, host string) (domain.Report, error)
}

type ReportPoster interface {
	PostReport(ctx context.Context, r domain.Report) response.Response[domain.Report]
}

type Config struct {
	Hosts   []string
	Delays  map[domain.ProbeKind]time.Duration
	Workers int // 0 means runtime.NumCPU()
}

// Orchestrator runs one recurring job per host and probe kind on a shared
// pool of workers. Jobs use fixed-delay scheduling: the next tick of a job is
// armed only after its previous tick returned, so ticks of one job never
// overlap.
type Orchestrator struct {
	log       *zap.Logger
	prober    Prober
	assembler Assembler
	reporter  ReportPoster
	workers   int
	jobs      []*Handle
}

func New(log *zap.Logger, cfg Config, prober Prober, assembler Assembler, reporter ReportPoster) *Orchestrator {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	o := &Orchestrator{
		log:       log,
		prober:    prober,
		assembler: assembler,
		reporter:  reporter,
		workers:   workers,
	}
	for _, host := range cfg.Hosts {
		for _, kind := range domain.Kinds {
			delay := cfg.Delays[kind]
			if delay <= 0 {
				delay = defaultDelay
			}
			o.jobs = append(o.jobs, newHandle(host, kind, delay))
		}
	}
	return o
}

// Jobs returns the handles of every scheduled job.
func (o *Orchestrator) Jobs() []*Handle { return o.jobs }

func (o *Orchestrator) Workers() int { return o.workers }

// Run schedules every job and blocks until ctx ends or a job terminates.
// Pending ticks are dropped on return; ticks already running are waited for.
// A terminated job makes Run return a *TerminatedError.
func (o *Orchestrator) Run(ctx context.Context) error {
	if len(o.jobs) == 0 {
		return errors.New("no jobs to schedule")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	work := make(chan *Handle)
	terminated := make(chan *Handle, len(o.jobs))
	var wg sync.WaitGroup

	for i := 0; i < o.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.worker(ctx, work, terminated)
		}()
	}
	names := make([]string, 0, len(o.jobs))
	for _, h := range o.jobs {
		h := h
		names = append(names, h.Name())
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.drive(ctx, h, work)
		}()
	}
	o.log.Info("jobs_scheduled",
		zap.Int("workers", o.workers),
		zap.Strings("jobs", names),
	)

	var result error
	select {
	case <-ctx.Done():
		o.log.Info("orchestrator_stopping")
	case h := <-terminated:
		o.log.Error("job_terminated",
			zap.String("severity", "critical"),
			zap.String("job", h.Name()),
			logging.Chain(h.Err()),
		)
		result = &TerminatedError{Job: h.Name(), Err: h.Err()}
	}
	cancel()
	wg.Wait()

	for _, h := range o.jobs {
		o.log.Info("job_final_state",
			zap.String("job", h.Name()),
			zap.Stringer("state", h.State()),
			zap.Int64("ticks", h.Ticks()),
		)
	}
	return result
}

// drive hands the job to the pool once immediately, then again Delay after
// each tick returns.
func (o *Orchestrator) drive(ctx context.Context, h *Handle, work chan<- *Handle) {
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		select {
		case work <- h:
		case <-ctx.Done():
			return
		}
		<-h.finished
		if h.State() == Terminated {
			return
		}
		timer.Reset(h.Delay)
	}
}

func (o *Orchestrator) worker(ctx context.Context, work <-chan *Handle, terminated chan<- *Handle) {
	for {
		select {
		case <-ctx.Done():
			return
		case h := <-work:
			if ctx.Err() != nil {
				// handed over while shutting down, drop the tick
				h.finished <- struct{}{}
				return
			}
			o.execute(ctx, h, terminated)
		}
	}
}

// execute runs one tick. The tick outlives cancellation of ctx so a probe in
// flight at shutdown still records its result.
func (o *Orchestrator) execute(ctx context.Context, h *Handle, terminated chan<- *Handle) {
	h.begin(time.Now())
	defer func() {
		if r := recover(); r != nil {
			h.terminate(errors.Errorf("panic: %v", r))
			terminated <- h
		} else {
			h.setState(Idle)
		}
		h.finished <- struct{}{}
	}()

	pprof.Do(context.WithoutCancel(ctx), pprof.Labels("job", h.Name()), func(ctx context.Context) {
		o.tick(ctx, h)
	})
}
