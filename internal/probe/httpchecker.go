package probe

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

type HTTPOutcome struct {
	StatusCode int
	Latency    time.Duration
}

type HTTPChecker struct {
	Client *http.Client
}

// NewHTTPChecker returns a checker whose requests give up after timeout.
// Redirects are not followed; a 3xx is an answer like any other.
func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	return &HTTPChecker{
		Client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Check sends a GET to target. An error means no status was received; the
// returned latency is still meaningful in that case.
func (h *HTTPChecker) Check(ctx context.Context, target string) (HTTPOutcome, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return HTTPOutcome{}, errors.Wrapf(err, "build request for %s", target)
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := h.Client.Do(req)
	if err != nil {
		return HTTPOutcome{Latency: time.Since(start)}, errors.Wrapf(err, "GET %s", target)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return HTTPOutcome{StatusCode: resp.StatusCode, Latency: time.Since(start)}, nil
}
