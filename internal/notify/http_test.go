package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamed0406/netprobe/internal/domain"
)

func TestHTTPReporter_PostsJSON(t *testing.T) {
	var got map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	err := NewHTTPReporter(ts.URL).Send(context.Background(), domain.Report{
		ID:       "abc",
		Host:     "example.com",
		PingICMP: &domain.ICMPResult{Host: "example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, "example.com", got["host"])
	assert.Contains(t, got, "pingIcmp")
	assert.Nil(t, got["pingTcpIp"])
}

func TestHTTPReporter_RejectsOtherStatuses(t *testing.T) {
	for _, code := range []int{http.StatusAccepted, http.StatusNoContent, http.StatusBadRequest, http.StatusBadGateway} {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))
		err := NewHTTPReporter(ts.URL).Send(context.Background(), domain.Report{Host: "h"})
		ts.Close()

		var de *DeliveryError
		require.True(t, errors.As(err, &de), "status %d", code)
		assert.Equal(t, code, de.StatusCode)
	}
}

func TestHTTPReporter_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	err := NewHTTPReporter(url).Send(context.Background(), domain.Report{Host: "h"})
	var de *DeliveryError
	require.True(t, errors.As(err, &de))
	assert.Zero(t, de.StatusCode)
	assert.Error(t, de.Unwrap())
}

type stubReporter struct {
	calls int
	err   error
}

func (s *stubReporter) Send(context.Context, domain.Report) error {
	s.calls++
	return s.err
}

func TestMulti_SendsToAllAndCombinesErrors(t *testing.T) {
	a := &stubReporter{}
	b := &stubReporter{err: &DeliveryError{Target: "b", StatusCode: 500}}
	c := &stubReporter{err: errors.New("c down")}

	err := Multi{a, nil, b, c}.Send(context.Background(), domain.Report{})
	require.Error(t, err)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
	assert.Equal(t, 1, c.calls)

	var de *DeliveryError
	assert.True(t, errors.As(err, &de))
	assert.Contains(t, err.Error(), "c down")
}

func TestMulti_AllOK(t *testing.T) {
	assert.NoError(t, Multi{&stubReporter{}}.Send(context.Background(), domain.Report{}))
}
