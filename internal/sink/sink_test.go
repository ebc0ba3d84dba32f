package sink

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSink(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := Router(zap.New(core))

	cases := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodPost, "/report", `{"host":"example.com","pingIcmp":null}`, http.StatusOK},
		{http.MethodPost, "/report", `{"host":`, http.StatusBadRequest},
		{http.MethodGet, "/report", "", http.StatusNotFound},
		{http.MethodPost, "/elsewhere", `{}`, http.StatusNotFound},
	}
	for _, c := range cases {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(c.method, c.path, strings.NewReader(c.body)))
		if rr.Code != c.want {
			t.Fatalf("%s %s: want %d got %d", c.method, c.path, c.want, rr.Code)
		}
	}

	if n := logs.FilterMessage("sink_report_received").Len(); n != 1 {
		t.Fatalf("want one logged report, got %d", n)
	}
}

func TestSink_OversizedReport(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := Router(zap.New(core))

	// valid JSON, just one byte over the limit
	body := `"` + strings.Repeat("a", maxBody-1) + `"`
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/report", strings.NewReader(body)))
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("want 413 got %d", rr.Code)
	}
	if logs.FilterMessage("sink_report_too_large").Len() != 1 {
		t.Fatalf("oversized report not logged")
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/report", strings.NewReader(body[1:])))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("body at the limit: want 400 got %d", rr.Code)
	}
}
