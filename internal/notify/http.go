package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/hamed0406/netprobe/internal/domain"
)

// HTTPReporter posts reports as JSON to the report API.
type HTTPReporter struct {
	URL    string
	Client *http.Client
}

func NewHTTPReporter(url string) *HTTPReporter {
	return &HTTPReporter{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send succeeds only on 200 or 201.
func (h *HTTPReporter) Send(ctx context.Context, r domain.Report) error {
	body, err := json.Marshal(r)
	if err != nil {
		return &DeliveryError{Target: h.URL, Err: errors.Wrap(err, "encode report")}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(body))
	if err != nil {
		return &DeliveryError{Target: h.URL, Err: errors.Wrap(err, "build request")}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.Client.Do(req)
	if err != nil {
		return &DeliveryError{Target: h.URL, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return &DeliveryError{Target: h.URL, StatusCode: resp.StatusCode}
	}
	return nil
}
