// Package platform tells probes which command family the host OS speaks.
package platform

import (
	"runtime"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/hamed0406/netprobe/internal/domain"
)

// ErrNotFound is returned when the OS is neither Windows nor Unix-like.
var ErrNotFound = errors.New("operating system not supported")

type Detector struct {
	detect func() (domain.OperatingSystem, error)
}

// NewDetector detects the OS the process runs on. The answer never changes,
// so it is computed once.
func NewDetector() *Detector {
	return newDetector(func() string { return runtime.GOOS })
}

func newDetector(goos func() string) *Detector {
	return &Detector{detect: sync.OnceValues(func() (domain.OperatingSystem, error) {
		return Classify(goos())
	})}
}

func (d *Detector) Current() (domain.OperatingSystem, error) {
	return d.detect()
}

// Classify maps a GOOS value to an operating system family.
func Classify(goos string) (domain.OperatingSystem, error) {
	switch strings.ToLower(goos) {
	case "windows":
		return domain.Windows, nil
	case "linux", "darwin", "freebsd", "openbsd", "netbsd", "dragonfly",
		"solaris", "illumos", "aix", "android":
		return domain.Unix, nil
	}
	return 0, errors.Wrapf(ErrNotFound, "GOOS %q", goos)
}
