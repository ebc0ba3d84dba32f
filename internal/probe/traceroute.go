package probe

import (
	"github.com/pkg/errors"

	"github.com/hamed0406/netprobe/internal/domain"
	"github.com/hamed0406/netprobe/internal/repo"
)

type TraceRouteService struct {
	templates Templates
	store     repo.Keyed[string, domain.TraceRoute]
}

func NewTraceRouteService(templates Templates, store repo.Keyed[string, domain.TraceRoute]) *TraceRouteService {
	return &TraceRouteService{templates: templates, store: store}
}

// Command renders the traceroute command. tracert is a cmd.exe builtin on
// some Windows installs, so it runs through the command interpreter there.
func (s *TraceRouteService) Command(host string, os domain.OperatingSystem) (string, error) {
	cmd, err := s.templates.Render(host, os)
	if err != nil {
		return "", err
	}
	if os == domain.Windows {
		cmd = windowsShell + cmd
	}
	return cmd, nil
}

func (s *TraceRouteService) CreateOrUpdate(host string, exec domain.Execution) (domain.TraceRouteResult, error) {
	saved, err := s.store.Save(domain.TraceRoute{
		Host:     host,
		Terminal: exec,
		Success:  EvaluateTraceRoute(exec),
	})
	if err != nil {
		return domain.TraceRouteResult{}, errors.Wrapf(err, "store traceroute result for %s", host)
	}
	return saved.Result(), nil
}

func (s *TraceRouteService) Current(host string) (domain.TraceRouteResult, bool) {
	t, ok := s.store.FindByID(host)
	if !ok {
		return domain.TraceRouteResult{}, false
	}
	return t.Result(), true
}
