// Package handler is the boundary between jobs and probe services. Every
// operation answers with a response envelope and never panics.
package handler

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hamed0406/netprobe/internal/domain"
	"github.com/hamed0406/netprobe/internal/logging"
	"github.com/hamed0406/netprobe/internal/platform"
	"github.com/hamed0406/netprobe/internal/probe"
	"github.com/hamed0406/netprobe/internal/response"
	"github.com/hamed0406/netprobe/internal/terminal"
)

type Detector interface {
	Current() (domain.OperatingSystem, error)
}

type Ping struct {
	log    *zap.Logger
	os     Detector
	runner terminal.Runner
	icmp   *probe.ICMPService
	tcp    *probe.TCPService
	trace  *probe.TraceRouteService
}

func NewPing(log *zap.Logger, os Detector, runner terminal.Runner, icmp *probe.ICMPService, tcp *probe.TCPService, trace *probe.TraceRouteService) *Ping {
	return &Ping{log: log, os: os, runner: runner, icmp: icmp, tcp: tcp, trace: trace}
}

func (p *Ping) PostICMP(ctx context.Context, host string) (resp response.Response[domain.ICMPResult]) {
	defer recovered(&resp, p.log, "post_icmp", host)

	os, err := p.os.Current()
	if err != nil {
		return failure[domain.ICMPResult]("detect operating system", err)
	}
	cmd, err := p.icmp.Command(host, os)
	if err != nil {
		return failure[domain.ICMPResult]("build ping command", err)
	}
	exec, err := p.runner.Execute(ctx, cmd)
	if err != nil {
		return failure[domain.ICMPResult]("run ping command", err)
	}
	res, err := p.icmp.CreateOrUpdate(host, exec, os)
	if err != nil {
		return failure[domain.ICMPResult]("save ping result", err)
	}
	return response.OK(res)
}

func (p *Ping) GetICMP(host string) (resp response.Response[domain.ICMPResult]) {
	defer recovered(&resp, p.log, "get_icmp", host)

	res, ok := p.icmp.Current(host)
	if !ok {
		return response.BadRequest[domain.ICMPResult](notFound(host, domain.KindICMP))
	}
	return response.OK(res)
}

func (p *Ping) PostTCP(ctx context.Context, host string) (resp response.Response[domain.TCPResult]) {
	defer recovered(&resp, p.log, "post_tcp", host)

	res, err := p.tcp.CreateOrUpdate(ctx, host)
	if err != nil {
		return failure[domain.TCPResult]("tcp ping", err)
	}
	return response.OK(res)
}

func (p *Ping) GetTCP(host string) (resp response.Response[domain.TCPResult]) {
	defer recovered(&resp, p.log, "get_tcp", host)

	res, ok := p.tcp.Current(host)
	if !ok {
		return response.BadRequest[domain.TCPResult](notFound(host, domain.KindTCP))
	}
	return response.OK(res)
}

func (p *Ping) PostTraceRoute(ctx context.Context, host string) (resp response.Response[domain.TraceRouteResult]) {
	defer recovered(&resp, p.log, "post_traceroute", host)

	os, err := p.os.Current()
	if err != nil {
		return failure[domain.TraceRouteResult]("detect operating system", err)
	}
	cmd, err := p.trace.Command(host, os)
	if err != nil {
		return failure[domain.TraceRouteResult]("build traceroute command", err)
	}
	exec, err := p.runner.Execute(ctx, cmd)
	if err != nil {
		return failure[domain.TraceRouteResult]("run traceroute command", err)
	}
	res, err := p.trace.CreateOrUpdate(host, exec)
	if err != nil {
		return failure[domain.TraceRouteResult]("save traceroute result", err)
	}
	return response.OK(res)
}

func (p *Ping) GetTraceRoute(host string) (resp response.Response[domain.TraceRouteResult]) {
	defer recovered(&resp, p.log, "get_traceroute", host)

	res, ok := p.trace.Current(host)
	if !ok {
		return response.BadRequest[domain.TraceRouteResult](notFound(host, domain.KindTraceRoute))
	}
	return response.OK(res)
}

func notFound(host string, kind domain.ProbeKind) string {
	return fmt.Sprintf("Host %s not found on %s database", host, kind.Store())
}

// failure maps an error to an envelope status. Problems with the machine we
// run on are transient; everything else is a bug or a configuration error.
func failure[T any](msg string, err error) response.Response[T] {
	var cmdErr *terminal.CommandError
	if errors.Is(err, platform.ErrNotFound) || errors.As(err, &cmdErr) {
		return response.Unavailable[T](msg, err)
	}
	return response.Internal[T](msg, err)
}

func recovered[T any](resp *response.Response[T], log *zap.Logger, op, host string) {
	r := recover()
	if r == nil {
		return
	}
	err := errors.Errorf("panic: %v", r)
	log.Error("handler_panic", zap.String("op", op), zap.String("host", host), logging.Chain(err), zap.Stack("stack"))
	*resp = response.Internal[T](op+" panicked", err)
}
