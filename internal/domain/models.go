package domain

import (
	"net/url"
	"time"
)

type OperatingSystem int

const (
	Unix OperatingSystem = iota + 1
	Windows
)

func (o OperatingSystem) String() string {
	switch o {
	case Unix:
		return "unix"
	case Windows:
		return "windows"
	}
	return "unknown"
}

// ProbeKind names one diagnostic technique. Each kind owns its own key space.
type ProbeKind string

const (
	KindICMP       ProbeKind = "icmp"
	KindTCP        ProbeKind = "tcp"
	KindTraceRoute ProbeKind = "traceroute"
)

// Kinds lists every probe kind in scheduling order.
var Kinds = []ProbeKind{KindICMP, KindTCP, KindTraceRoute}

// Job is the human name of the job running this kind of probe.
func (k ProbeKind) Job() string {
	switch k {
	case KindICMP:
		return "ICMP protocol Ping"
	case KindTCP:
		return "TCP/IP protocol Ping"
	case KindTraceRoute:
		return "Trace Route"
	}
	return string(k)
}

// Store names the result table of this kind in lookup errors.
func (k ProbeKind) Store() string {
	switch k {
	case KindICMP:
		return "ICMP"
	case KindTCP:
		return "TCP/IP"
	case KindTraceRoute:
		return "Trace Route"
	}
	return string(k)
}

// ReportJob names the report job triggered by a failure of kind.
func ReportJob(kind ProbeKind) string {
	return "Report for " + kind.Job()
}

// Execution is the evidence left by one external command run.
type Execution struct {
	Command   string
	ExitCode  int
	Output    string
	StartedAt time.Time
}

type PingICMP struct {
	Host     string
	Terminal Execution
	Success  bool
}

func (p PingICMP) ID() string { return p.Host }

type PingTCP struct {
	URL          *url.URL
	ResponseCode int
	ResponseTime time.Duration
	Time         time.Time
	Success      bool
}

func (p PingTCP) ID() string {
	if p.URL == nil {
		return ""
	}
	return p.URL.String()
}

type TraceRoute struct {
	Host     string
	Terminal Execution
	Success  bool
}

func (t TraceRoute) ID() string { return t.Host }
