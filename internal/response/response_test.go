package response

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusHTTPCode(t *testing.T) {
	assert.Equal(t, 200, StatusOK.HTTPCode())
	assert.Equal(t, 400, StatusBadRequest.HTTPCode())
	assert.Equal(t, 503, StatusServiceUnavailable.HTTPCode())
	assert.Equal(t, 500, StatusInternalServerError.HTTPCode())
}

func TestUnwrap_OK(t *testing.T) {
	v, err := Unwrap(OK(42), "h", "job")
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	var empty []string
	got, err := Unwrap(OK(empty), "h", "job")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUnwrap_BadRequest(t *testing.T) {
	_, err := Unwrap(BadRequest[int]("Host h not found on ICMP database"), "h", "ICMP protocol Ping")
	var je *JobError
	require.True(t, errors.As(err, &je))
	assert.Equal(t, Recoverable, je.Severity)
	assert.Equal(t, "Host h not found on ICMP database for ICMP protocol Ping", err.Error())
	assert.Nil(t, je.Unwrap())
}

func TestUnwrap_Unavailable(t *testing.T) {
	cause := errors.New("exec: ping: not found")
	_, err := Unwrap(Unavailable[int]("command failed", cause), "h", "Trace Route")
	var je *JobError
	require.True(t, errors.As(err, &je))
	assert.Equal(t, Recoverable, je.Severity)
	assert.Equal(t, "Trace Route, service is unavailable, for host h", je.Msg)
	assert.ErrorIs(t, err, cause)
}

func TestUnwrap_UnavailableWithoutErrKeepsMessage(t *testing.T) {
	_, err := Unwrap(Unavailable[int]("report API answered 502", nil), "h", "Report")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "report API answered 502")
}

func TestUnwrap_Internal(t *testing.T) {
	cause := errors.New("boom")
	_, err := Unwrap(Internal[string]("oops", cause), "h", "TCP/IP protocol Ping")
	var je *JobError
	require.True(t, errors.As(err, &je))
	assert.Equal(t, Escalated, je.Severity)
	assert.Equal(t, "Internal error for executing TCP/IP protocol Ping for Host h", je.Msg)
	assert.Equal(t, cause, je.Cause())
}
