package probe

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hamed0406/netprobe/internal/domain"
	"github.com/hamed0406/netprobe/internal/repo"
)

// Checker issues one application-level request against target.
type Checker interface {
	Check(ctx context.Context, target string) (HTTPOutcome, error)
}

// TCPService probes hosts with a direct HTTP request instead of a command.
// Results are keyed by the normalized target URL, not by the raw host.
type TCPService struct {
	protocol string
	checker  Checker
	store    repo.Keyed[string, domain.PingTCP]
}

func NewTCPService(protocol string, checker Checker, store repo.Keyed[string, domain.PingTCP]) *TCPService {
	return &TCPService{protocol: protocol, checker: checker, store: store}
}

// Target builds the URL probed for host.
func (s *TCPService) Target(host string) (*url.URL, error) {
	raw := s.protocol + "://" + host
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "build target from %q", raw)
	}
	if u.Host == "" {
		return nil, errors.Errorf("build target from %q: missing host", raw)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return u, nil
}

// CreateOrUpdate requests the host and stores the outcome. A request that
// fails in transport is a valid outcome and is stored with StatusTimeout.
func (s *TCPService) CreateOrUpdate(ctx context.Context, host string) (domain.TCPResult, error) {
	u, err := s.Target(host)
	if err != nil {
		return domain.TCPResult{}, err
	}

	started := time.Now()
	code := StatusTimeout
	out, err := s.checker.Check(ctx, u.String())
	if err == nil {
		code = out.StatusCode
	}

	saved, err := s.store.Save(domain.PingTCP{
		URL:          u,
		ResponseCode: code,
		ResponseTime: out.Latency,
		Time:         started,
		Success:      EvaluateTCP(code),
	})
	if err != nil {
		return domain.TCPResult{}, errors.Wrapf(err, "store tcp result for %s", host)
	}
	return saved.Result(), nil
}

func (s *TCPService) Current(host string) (domain.TCPResult, bool) {
	u, err := s.Target(host)
	if err != nil {
		return domain.TCPResult{}, false
	}
	p, ok := s.store.FindByID(u.String())
	if !ok {
		return domain.TCPResult{}, false
	}
	return p.Result(), true
}
