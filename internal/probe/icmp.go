package probe

import (
	"github.com/pkg/errors"

	"github.com/hamed0406/netprobe/internal/domain"
	"github.com/hamed0406/netprobe/internal/repo"
)

// ICMPService keeps the last ping outcome per host.
type ICMPService struct {
	templates Templates
	store     repo.Keyed[string, domain.PingICMP]
}

func NewICMPService(templates Templates, store repo.Keyed[string, domain.PingICMP]) *ICMPService {
	return &ICMPService{templates: templates, store: store}
}

func (s *ICMPService) Command(host string, os domain.OperatingSystem) (string, error) {
	return s.templates.Render(host, os)
}

// CreateOrUpdate evaluates exec and replaces the stored result for host.
func (s *ICMPService) CreateOrUpdate(host string, exec domain.Execution, os domain.OperatingSystem) (domain.ICMPResult, error) {
	saved, err := s.store.Save(domain.PingICMP{
		Host:     host,
		Terminal: exec,
		Success:  EvaluateICMP(os, exec),
	})
	if err != nil {
		return domain.ICMPResult{}, errors.Wrapf(err, "store icmp result for %s", host)
	}
	return saved.Result(), nil
}

func (s *ICMPService) Current(host string) (domain.ICMPResult, bool) {
	p, ok := s.store.FindByID(host)
	if !ok {
		return domain.ICMPResult{}, false
	}
	return p.Result(), true
}
