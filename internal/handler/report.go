package handler

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hamed0406/netprobe/internal/domain"
	"github.com/hamed0406/netprobe/internal/logging"
	"github.com/hamed0406/netprobe/internal/notify"
	"github.com/hamed0406/netprobe/internal/response"
)

type Report struct {
	log      *zap.Logger
	reporter notify.Reporter
	extra    notify.Multi
}

// NewReport sends reports to reporter. Notifiers in extra get a copy of every
// report, but their failures are only logged.
func NewReport(log *zap.Logger, reporter notify.Reporter, extra ...notify.Reporter) *Report {
	return &Report{log: log, reporter: reporter, extra: extra}
}

// PostReport hands r to the reporter. An unreachable or unhappy report API
// is ServiceUnavailable; anything else is internal.
func (h *Report) PostReport(ctx context.Context, r domain.Report) (resp response.Response[domain.Report]) {
	defer recovered(&resp, h.log, "post_report", r.Host)

	h.notify(ctx, r)
	if err := h.reporter.Send(ctx, r); err != nil {
		var de *notify.DeliveryError
		if errors.As(err, &de) {
			return response.Unavailable[domain.Report]("report not delivered", err)
		}
		return response.Internal[domain.Report]("send report", err)
	}
	return response.OK(r)
}

func (h *Report) notify(ctx context.Context, r domain.Report) {
	if len(h.extra) == 0 {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			h.log.Error("report_notify_panic", zap.String("host", r.Host), zap.Any("panic", p))
		}
	}()
	if err := h.extra.Send(ctx, r); err != nil {
		h.log.Warn("report_notify_failed", zap.String("host", r.Host), zap.String("report_id", r.ID), logging.Chain(err))
	}
}
