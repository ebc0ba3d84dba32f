// Package sink is a stand-in report API for local runs. It accepts reports
// and logs them.
package sink

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBody = 1 << 20

func Router(log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Post("/report", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Warn("sink_report_too_large", zap.Int64("limit", tooLarge.Limit))
			http.Error(w, "Report too large", http.StatusRequestEntityTooLarge)
			return
		}
		if err != nil || !json.Valid(body) {
			log.Warn("sink_invalid_report", zap.Int("bytes", len(body)))
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		log.Info("sink_report_received", zap.Any("report", json.RawMessage(body)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Report received"))
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})
	return r
}
