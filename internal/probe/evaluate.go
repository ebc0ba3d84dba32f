package probe

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/hamed0406/netprobe/internal/domain"
)

const (
	hostPlaceholder = "HOST"
	// windowsNoLoss appears in ping.exe output when no packet was lost.
	windowsNoLoss = " = 0 (0% "
	windowsShell  = "cmd.exe /c "

	// StatusTimeout is stored as the response code of a TCP probe whose
	// request never got an answer.
	StatusTimeout = -1
)

// StripPort drops a ":port" suffix so the host can be handed to ping or
// traceroute.
func StripPort(host string) string {
	if i := strings.Index(host, ":"); i >= 0 {
		return host[:i]
	}
	return host
}

// Templates holds one command per operating system family. The HOST
// placeholder is replaced with the probed host.
type Templates struct {
	Windows string
	Unix    string
}

func (t Templates) Render(host string, os domain.OperatingSystem) (string, error) {
	var tpl string
	switch os {
	case domain.Windows:
		tpl = t.Windows
	case domain.Unix:
		tpl = t.Unix
	default:
		return "", errors.Errorf("no command template for operating system %s", os)
	}
	return strings.ReplaceAll(tpl, hostPlaceholder, StripPort(host)), nil
}

// EvaluateICMP decides whether a ping run succeeded. ping.exe may exit 0 with
// every packet lost, so on Windows the output must also report zero loss.
func EvaluateICMP(os domain.OperatingSystem, exec domain.Execution) bool {
	if exec.ExitCode != 0 {
		return false
	}
	if os == domain.Windows {
		return strings.Contains(exec.Output, windowsNoLoss)
	}
	return true
}

// EvaluateTCP accepts any well-formed HTTP status, errors included.
func EvaluateTCP(code int) bool {
	return code >= 100 && code <= 599
}

func EvaluateTraceRoute(exec domain.Execution) bool {
	return exec.ExitCode == 0
}
