// Package app wires the probe services, the job orchestrator and the
// optional status API from a loaded configuration.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/netprobe/internal/config"
	"github.com/hamed0406/netprobe/internal/domain"
	"github.com/hamed0406/netprobe/internal/handler"
	"github.com/hamed0406/netprobe/internal/httpapi"
	"github.com/hamed0406/netprobe/internal/notify"
	"github.com/hamed0406/netprobe/internal/platform"
	"github.com/hamed0406/netprobe/internal/probe"
	"github.com/hamed0406/netprobe/internal/repo/memory"
	"github.com/hamed0406/netprobe/internal/report"
	"github.com/hamed0406/netprobe/internal/scheduler"
	"github.com/hamed0406/netprobe/internal/terminal"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	Log          *zap.Logger
	Config       config.Config
	Ping         *handler.Ping
	Reports      *handler.Report
	Assembler    *report.Assembler
	Orchestrator *scheduler.Orchestrator
	Status       http.Handler // nil when status.addr is empty
}

func Build(cfg config.Config, log *zap.Logger) *App {
	icmp := probe.NewICMPService(
		probe.Templates{Windows: cfg.ICMP.Windows, Unix: cfg.ICMP.Unix},
		memory.New(domain.PingICMP.ID),
	)
	tcp := probe.NewTCPService(
		cfg.TCP.Protocol,
		probe.NewHTTPChecker(cfg.TCP.Timeout),
		memory.New(domain.PingTCP.ID),
	)
	trace := probe.NewTraceRouteService(
		probe.Templates{Windows: cfg.TraceRoute.Windows, Unix: cfg.TraceRoute.Unix},
		memory.New(domain.TraceRoute.ID),
	)
	ping := handler.NewPing(log, platform.NewDetector(), terminal.Shell{Timeout: cfg.CommandTimeout}, icmp, tcp, trace)

	var extra []notify.Reporter
	if slack := notify.NewSlack(cfg.SlackWebhook); slack != nil {
		extra = append(extra, slack)
	}
	reports := handler.NewReport(log, notify.NewHTTPReporter(cfg.ReportURL), extra...)
	asm := report.NewAssembler(log, ping)

	orch := scheduler.New(log, scheduler.Config{
		Hosts: cfg.Hosts,
		Delays: map[domain.ProbeKind]time.Duration{
			domain.KindICMP:       cfg.ICMP.Delay,
			domain.KindTCP:        cfg.TCP.Delay,
			domain.KindTraceRoute: cfg.TraceRoute.Delay,
		},
		Workers: cfg.Threads,
	}, ping, asm, reports)

	a := &App{
		Log:          log,
		Config:       cfg,
		Ping:         ping,
		Reports:      reports,
		Assembler:    asm,
		Orchestrator: orch,
	}
	if cfg.StatusAddr != "" {
		a.Status = httpapi.NewServer(log, cfg.Hosts, ping, asm, orch).Router(httpapi.Options{
			Keys:      cfg.StatusKeys,
			PerMinute: cfg.StatusPerMinute,
			Burst:     cfg.StatusBurst,
		})
	}
	return a
}

// Run blocks until ctx ends or the orchestrator stops on its own. The status
// API, when enabled, is shut down with it.
func (a *App) Run(ctx context.Context) error {
	if a.Status == nil {
		return a.Orchestrator.Run(ctx)
	}

	srv := &http.Server{
		Addr:              a.Config.StatusAddr,
		Handler:           a.Status,
		ReadHeaderTimeout: 5 * time.Second,
	}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Log.Info("status_listen", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "status api")
		}
		return nil
	})
	g.Go(func() error {
		err := a.Orchestrator.Run(ctx)
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if serr := srv.Shutdown(sctx); serr != nil {
			a.Log.Warn("status_shutdown", zap.Error(serr))
		}
		return err
	})
	return g.Wait()
}
