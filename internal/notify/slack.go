package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hamed0406/netprobe/internal/domain"
)

type Slack struct {
	Webhook string
	Client  *http.Client
}

func NewSlack(webhook string) *Slack {
	if webhook == "" {
		return nil
	}
	return &Slack{
		Webhook: webhook,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type slackPayload struct {
	Text string `json:"text"`
}

func (s *Slack) Send(ctx context.Context, r domain.Report) error {
	if s == nil || s.Webhook == "" {
		return errors.New("slack disabled")
	}
	body, err := json.Marshal(slackPayload{Text: "*Probe failure on " + r.Host + "*\n" + summary(r)})
	if err != nil {
		return &DeliveryError{Target: "slack", Err: errors.Wrap(err, "encode message")}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Webhook, bytes.NewReader(body))
	if err != nil {
		return &DeliveryError{Target: "slack", Err: errors.Wrap(err, "build request")}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return &DeliveryError{Target: "slack", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return &DeliveryError{Target: "slack", StatusCode: resp.StatusCode}
	}
	return nil
}

func summary(r domain.Report) string {
	var b strings.Builder
	line := func(kind string, known, ok bool, detail string) {
		state := "no result"
		if known {
			state = "failed"
			if ok {
				state = "ok"
			}
		}
		fmt.Fprintf(&b, "%s: %s%s\n", kind, state, detail)
	}
	if r.PingICMP != nil {
		line("icmp", true, r.PingICMP.Success, "")
	} else {
		line("icmp", false, false, "")
	}
	if r.PingTCP != nil {
		line("tcp", true, r.PingTCP.Success, fmt.Sprintf(" (%s, status %d)", r.PingTCP.URL, r.PingTCP.ResponseCode))
	} else {
		line("tcp", false, false, "")
	}
	if r.TraceRoute != nil {
		line("traceroute", true, r.TraceRoute.Success, "")
	} else {
		line("traceroute", false, false, "")
	}
	fmt.Fprintf(&b, "report %s", r.ID)
	return b.String()
}
