// Package response carries the outcome of a probe operation across the
// handler boundary without panicking or returning bare errors.
package response

import (
	"fmt"
	"net/http"
)

type Status int

const (
	StatusOK Status = iota
	StatusBadRequest
	StatusServiceUnavailable
	StatusInternalServerError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusBadRequest:
		return "BAD_REQUEST"
	case StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	case StatusInternalServerError:
		return "INTERNAL_SERVER_ERROR"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) HTTPCode() int {
	switch s {
	case StatusOK:
		return http.StatusOK
	case StatusBadRequest:
		return http.StatusBadRequest
	case StatusServiceUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Response is the envelope every handler returns. Payload is meaningful only
// when Status is StatusOK; Err holds the underlying cause otherwise.
type Response[T any] struct {
	Payload T
	Status  Status
	Message string
	Err     error
}

func OK[T any](payload T) Response[T] {
	return Response[T]{Payload: payload, Status: StatusOK}
}

func BadRequest[T any](msg string) Response[T] {
	return Response[T]{Status: StatusBadRequest, Message: msg}
}

func Unavailable[T any](msg string, err error) Response[T] {
	return Response[T]{Status: StatusServiceUnavailable, Message: msg, Err: err}
}

func Internal[T any](msg string, err error) Response[T] {
	return Response[T]{Status: StatusInternalServerError, Message: msg, Err: err}
}

// Severity tells the caller whether a failed job may simply be retried on
// the next tick or needs attention.
type Severity int

const (
	Recoverable Severity = iota
	Escalated
)

func (s Severity) String() string {
	if s == Escalated {
		return "escalated"
	}
	return "recoverable"
}

// JobError is what Unwrap returns for any non-OK envelope.
type JobError struct {
	Severity Severity
	Status   Status
	Msg      string
	Err      error
}

func (e *JobError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *JobError) Unwrap() error { return e.Err }

// Cause lets github.com/pkg/errors walk through the job error.
func (e *JobError) Cause() error { return e.Err }

// Unwrap converts an envelope into a payload or a *JobError describing the
// failure of job against host.
func Unwrap[T any](r Response[T], host, job string) (T, error) {
	var zero T
	switch r.Status {
	case StatusOK:
		return r.Payload, nil
	case StatusBadRequest:
		return zero, &JobError{
			Severity: Recoverable,
			Status:   r.Status,
			Msg:      r.Message + " for " + job,
		}
	case StatusServiceUnavailable:
		return zero, &JobError{
			Severity: Recoverable,
			Status:   r.Status,
			Msg:      job + ", service is unavailable, for host " + host,
			Err:      causeOf(r),
		}
	default:
		return zero, &JobError{
			Severity: Escalated,
			Status:   r.Status,
			Msg:      "Internal error for executing " + job + " for Host " + host,
			Err:      causeOf(r),
		}
	}
}

func causeOf[T any](r Response[T]) error {
	if r.Err != nil {
		return r.Err
	}
	if r.Message != "" {
		return &messageError{r.Message}
	}
	return nil
}

type messageError struct{ msg string }

func (e *messageError) Error() string { return e.msg }
