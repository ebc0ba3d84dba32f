package domain

import "time"

// The types below are the outward representation of stored probe entities.
// Their JSON shape is what the report endpoint receives.

type TerminalResult struct {
	Command  string    `json:"command"`
	ExitCode int       `json:"exitCode"`
	Result   string    `json:"result"`
	Time     time.Time `json:"time"`
}

type ICMPResult struct {
	Host     string         `json:"host"`
	Terminal TerminalResult `json:"terminal"`
	Success  bool           `json:"success"`
}

type TCPResult struct {
	URL            string    `json:"url"`
	ResponseCode   int       `json:"responseCode"`
	ResponseTimeMS int64     `json:"responseTime"`
	Time           time.Time `json:"time"`
	Success        bool      `json:"success"`
}

type TraceRouteResult struct {
	Host     string         `json:"host"`
	Terminal TerminalResult `json:"terminal"`
	Success  bool           `json:"success"`
}

// Report is the snapshot of all three probes for one host. It is only sent
// outward and never stored. A nil field means that probe had no result.
type Report struct {
	ID         string            `json:"id"`
	Host       string            `json:"host"`
	CreatedAt  time.Time         `json:"createdAt"`
	PingICMP   *ICMPResult       `json:"pingIcmp"`
	PingTCP    *TCPResult        `json:"pingTcpIp"`
	TraceRoute *TraceRouteResult `json:"traceRoute"`
}

func (e Execution) Result() TerminalResult {
	return TerminalResult{
		Command:  e.Command,
		ExitCode: e.ExitCode,
		Result:   e.Output,
		Time:     e.StartedAt,
	}
}

func (p PingICMP) Result() ICMPResult {
	return ICMPResult{Host: p.Host, Terminal: p.Terminal.Result(), Success: p.Success}
}

func (p PingTCP) Result() TCPResult {
	return TCPResult{
		URL:            p.ID(),
		ResponseCode:   p.ResponseCode,
		ResponseTimeMS: p.ResponseTime.Milliseconds(),
		Time:           p.Time,
		Success:        p.Success,
	}
}

func (t TraceRoute) Result() TraceRouteResult {
	return TraceRouteResult{Host: t.Host, Terminal: t.Terminal.Result(), Success: t.Success}
}
