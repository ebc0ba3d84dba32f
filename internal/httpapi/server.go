package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/netprobe/internal/domain"
	"github.com/hamed0406/netprobe/internal/httpapi/middleware"
	"github.com/hamed0406/netprobe/internal/logging"
	"github.com/hamed0406/netprobe/internal/report"
	"github.com/hamed0406/netprobe/internal/response"
	"github.com/hamed0406/netprobe/internal/scheduler"
)

type ReportBuilder interface {
	Assemble(ctx context.Context, host string) (domain.Report, error)
}

type JobLister interface {
	Jobs() []*scheduler.Handle
}

// Server exposes the last known probe results read-only.
type Server struct {
	Logger  *zap.Logger
	Hosts   []string
	Results report.Fetcher
	Reports ReportBuilder
	Jobs    JobLister
}

func NewServer(l *zap.Logger, hosts []string, results report.Fetcher, reports ReportBuilder, jobs JobLister) *Server {
	return &Server{Logger: l, Hosts: hosts, Results: results, Reports: reports, Jobs: jobs}
}

type Options struct {
	Keys      []string
	PerMinute int
	Burst     int
}

func (s *Server) Router(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "X-API-Key"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(opts.PerMinute, opts.Burst))
		r.Use(middleware.RequireKey(opts.Keys))

		r.Get("/hosts", s.handleHosts)
		r.Get("/jobs", s.handleJobs)
		r.Get("/hosts/{host}/icmp", func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, s.Results.GetICMP(chi.URLParam(r, "host")))
		})
		r.Get("/hosts/{host}/tcp", func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, s.Results.GetTCP(chi.URLParam(r, "host")))
		})
		r.Get("/hosts/{host}/traceroute", func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, s.Results.GetTraceRoute(chi.URLParam(r, "host")))
		})
		r.Get("/hosts/{host}/report", s.handleReport)
	})

	return r
}

func (s *Server) handleHosts(w http.ResponseWriter, r *http.Request) {
	hosts := s.Hosts
	if hosts == nil {
		hosts = []string{}
	}
	writeJSON(w, http.StatusOK, hosts)
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	jobs := s.Jobs.Jobs()
	out := make([]scheduler.JobStatus, 0, len(jobs))
	for _, h := range jobs {
		out = append(out, h.Status())
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	host := chi.URLParam(r, "host")
	rep, err := s.Reports.Assemble(r.Context(), host)
	if err != nil {
		s.Logger.Warn("status_report_failed", zap.String("host", host), logging.Chain(err))
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "report unavailable", Cause: logging.CauseChain(err)})
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

type errorBody struct {
	Error string   `json:"error"`
	Cause []string `json:"cause,omitempty"`
}

// writeEnvelope answers with the envelope status mapped to its HTTP code.
func writeEnvelope[T any](w http.ResponseWriter, resp response.Response[T]) {
	code := resp.Status.HTTPCode()
	if resp.Status == response.StatusOK {
		writeJSON(w, code, resp.Payload)
		return
	}
	body := errorBody{Error: resp.Message}
	if resp.Err != nil {
		body.Cause = logging.CauseChain(resp.Err)
	}
	writeJSON(w, code, body)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
