package observability

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/getdelta/firehose-writer/pkg/log"
)

func TestLivenessHandler(t *testing.T) {
	tests := []struct {
		name     string
		state    string
		healthy  bool
		wantCode int
		wantBody string
	}{
		{"running", "Running", true, http.StatusOK, "alive"},
		{"closed", "Closed", false, http.StatusServiceUnavailable, "not alive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := LivenessHandler(func() (string, bool) { return tt.state, tt.healthy }, log.NewNoopLogger())
			req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
			w := httptest.NewRecorder()

			handler(w, req)

			if w.Code != tt.wantCode {
				t.Errorf("status code = %d, want %d", w.Code, tt.wantCode)
			}

			var response HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if response.Status != tt.wantBody || response.State != tt.state {
				t.Errorf("response = %+v", response)
			}
		})
	}
}

func TestServer_ExposesMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)
	metrics.IncRecordsPut("events")

	s := NewServer(":0", registry, func() (string, bool) { return "Running", true }, log.NewNoopLogger())
	ts := httptest.NewServer(s.server.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `firehose_writer_records_put_total{stream="events"} 1`) {
		t.Errorf("metrics output missing records put counter:\n%s", body)
	}
}
