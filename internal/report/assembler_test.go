package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hamed0406/netprobe/internal/domain"
	"github.com/hamed0406/netprobe/internal/response"
)

type stubFetcher struct {
	icmp  func(string) response.Response[domain.ICMPResult]
	tcp   func(string) response.Response[domain.TCPResult]
	trace func(string) response.Response[domain.TraceRouteResult]
}

func (s stubFetcher) GetICMP(h string) response.Response[domain.ICMPResult] { return s.icmp(h) }
func (s stubFetcher) GetTCP(h string) response.Response[domain.TCPResult]   { return s.tcp(h) }
func (s stubFetcher) GetTraceRoute(h string) response.Response[domain.TraceRouteResult] {
	return s.trace(h)
}

func okFetcher() stubFetcher {
	return stubFetcher{
		icmp: func(h string) response.Response[domain.ICMPResult] {
			return response.OK(domain.ICMPResult{Host: h, Success: true})
		},
		tcp: func(h string) response.Response[domain.TCPResult] {
			return response.OK(domain.TCPResult{URL: "http://" + h, ResponseCode: 200, Success: true})
		},
		trace: func(h string) response.Response[domain.TraceRouteResult] {
			return response.OK(domain.TraceRouteResult{Host: h, Success: true})
		},
	}
}

func TestAssemble_AllPresent(t *testing.T) {
	rep, err := NewAssembler(zap.NewNop(), okFetcher()).Assemble(context.Background(), "example.com")
	require.NoError(t, err)

	assert.Equal(t, "example.com", rep.Host)
	_, err = uuid.Parse(rep.ID)
	assert.NoError(t, err)
	assert.False(t, rep.CreatedAt.IsZero())
	require.NotNil(t, rep.PingICMP)
	require.NotNil(t, rep.PingTCP)
	require.NotNil(t, rep.TraceRoute)
	assert.Equal(t, 200, rep.PingTCP.ResponseCode)
}

func TestAssemble_FailedFetchLeavesFieldNil(t *testing.T) {
	f := okFetcher()
	f.tcp = func(string) response.Response[domain.TCPResult] {
		return response.Internal[domain.TCPResult]("boom", errors.New("boom"))
	}
	f.trace = func(h string) response.Response[domain.TraceRouteResult] {
		return response.BadRequest[domain.TraceRouteResult]("Host " + h + " not found on Trace Route database")
	}

	rep, err := NewAssembler(zap.NewNop(), f).Assemble(context.Background(), "example.com")
	require.NoError(t, err)
	assert.NotNil(t, rep.PingICMP)
	assert.Nil(t, rep.PingTCP)
	assert.Nil(t, rep.TraceRoute)
}

func TestAssemble_PanickingFetchLeavesFieldNil(t *testing.T) {
	f := okFetcher()
	f.icmp = func(string) response.Response[domain.ICMPResult] { panic("store gone") }

	rep, err := NewAssembler(zap.NewNop(), f).Assemble(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Nil(t, rep.PingICMP)
	assert.NotNil(t, rep.PingTCP)
}

func TestAssemble_ContextEndsFirst(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	f := okFetcher()
	f.trace = func(h string) response.Response[domain.TraceRouteResult] {
		<-release
		return response.OK(domain.TraceRouteResult{Host: h})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := NewAssembler(zap.NewNop(), f).Assemble(ctx, "example.com")

	var ae *AggregationError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "example.com", ae.Host)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
