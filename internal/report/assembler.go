// Package report builds the failure report sent when a probe job fails.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/netprobe/internal/domain"
	"github.com/hamed0406/netprobe/internal/logging"
	"github.com/hamed0406/netprobe/internal/response"
)

// Fetcher reads the last result of each probe kind.
type Fetcher interface {
	GetICMP(host string) response.Response[domain.ICMPResult]
	GetTCP(host string) response.Response[domain.TCPResult]
	GetTraceRoute(host string) response.Response[domain.TraceRouteResult]
}

// AggregationError means the report could not be put together at all.
type AggregationError struct {
	Host string
	Err  error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("assemble report for %s: %v", e.Host, e.Err)
}

func (e *AggregationError) Unwrap() error { return e.Err }

type Assembler struct {
	log   *zap.Logger
	fetch Fetcher
	now   func() time.Time
}

func NewAssembler(log *zap.Logger, fetch Fetcher) *Assembler {
	return &Assembler{log: log, fetch: fetch, now: time.Now}
}

// Assemble fetches the three results concurrently. A fetch that fails only
// leaves its field nil; the report as a whole fails only when ctx ends first.
func (a *Assembler) Assemble(ctx context.Context, host string) (domain.Report, error) {
	rep := domain.Report{ID: uuid.NewString(), Host: host, CreatedAt: a.now()}

	var g errgroup.Group
	g.Go(func() error {
		rep.PingICMP = fetchOne(a, host, domain.KindICMP, a.fetch.GetICMP)
		return nil
	})
	g.Go(func() error {
		rep.PingTCP = fetchOne(a, host, domain.KindTCP, a.fetch.GetTCP)
		return nil
	})
	g.Go(func() error {
		rep.TraceRoute = fetchOne(a, host, domain.KindTraceRoute, a.fetch.GetTraceRoute)
		return nil
	})

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()
	select {
	case <-done:
		return rep, nil
	case <-ctx.Done():
		return domain.Report{}, &AggregationError{Host: host, Err: ctx.Err()}
	}
}

func fetchOne[T any](a *Assembler, host string, kind domain.ProbeKind, get func(string) response.Response[T]) (out *T) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("report_fetch_panic",
				zap.String("host", host),
				zap.String("kind", string(kind)),
				zap.Any("panic", r))
			out = nil
		}
	}()

	v, err := response.Unwrap(get(host), host, domain.ReportJob(kind))
	if err != nil {
		a.log.Warn("report_fetch_failed",
			zap.String("host", host),
			zap.String("kind", string(kind)),
			logging.Chain(err))
		return nil
	}
	return &v
}
