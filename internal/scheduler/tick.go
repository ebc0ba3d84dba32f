package scheduler

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hamed0406/netprobe/internal/domain"
	"github.com/hamed0406/netprobe/internal/logging"
	"github.com/hamed0406/netprobe/internal/response"
)

// tick probes the host once and reports when the probe says it is down.
// Envelope and report failures are logged and end the tick.
func (o *Orchestrator) tick(ctx context.Context, h *Handle) {
	log := o.log.With(zap.String("job", h.Name()), zap.String("host", h.Host))

	ok, err := o.probe(ctx, h)
	if err != nil {
		logJobError(log, "probe_failed", err)
		return
	}
	if ok {
		log.Debug("probe_succeeded")
		return
	}
	log.Info("probe_unsuccessful")

	rep, err := o.assembler.Assemble(ctx, h.Host)
	if err != nil {
		logJobError(log, "report_assembly_failed", err)
		return
	}
	if _, err := response.Unwrap(o.reporter.PostReport(ctx, rep), h.Host, domain.ReportJob(h.Kind)); err != nil {
		logJobError(log, "report_failed", err)
		return
	}
	log.Info("report_sent", zap.String("report_id", rep.ID))
}

func (o *Orchestrator) probe(ctx context.Context, h *Handle) (bool, error) {
	job := h.Kind.Job()
	switch h.Kind {
	case domain.KindICMP:
		r, err := response.Unwrap(o.prober.PostICMP(ctx, h.Host), h.Host, job)
		return r.Success, err
	case domain.KindTCP:
		r, err := response.Unwrap(o.prober.PostTCP(ctx, h.Host), h.Host, job)
		return r.Success, err
	case domain.KindTraceRoute:
		r, err := response.Unwrap(o.prober.PostTraceRoute(ctx, h.Host), h.Host, job)
		return r.Success, err
	}
	return false, errors.Errorf("unknown probe kind %q", h.Kind)
}

func logJobError(log *zap.Logger, event string, err error) {
	var je *response.JobError
	if errors.As(err, &je) && je.Severity == response.Escalated {
		log.Error(event, zap.Stringer("severity", je.Severity), logging.Chain(err))
		return
	}
	log.Warn(event, logging.Chain(err))
}
