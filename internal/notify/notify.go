package notify

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/hamed0406/netprobe/internal/domain"
)

// Reporter delivers a failure report somewhere outside the process.
type Reporter interface {
	Send(ctx context.Context, r domain.Report) error
}

// DeliveryError means the report did not reach its destination. StatusCode
// is zero when no response was received.
type DeliveryError struct {
	Target     string
	StatusCode int
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("deliver report to %s: unexpected status %d", e.Target, e.StatusCode)
	}
	return fmt.Sprintf("deliver report to %s: %v", e.Target, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Multi sends to every reporter and returns all failures combined.
type Multi []Reporter

func (m Multi) Send(ctx context.Context, r domain.Report) error {
	var errs error
	for _, n := range m {
		if n == nil {
			continue
		}
		errs = multierr.Append(errs, n.Send(ctx, r))
	}
	return errs
}
