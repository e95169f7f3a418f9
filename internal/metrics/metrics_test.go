package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCollectorRecordsHTTPMetrics(t *testing.T) {
	collector, err := NewCollector()
	if err != nil {
		t.Fatalf("NewCollector returned error: %v", err)
	}

	handlerInvoked := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerInvoked = true
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("ok"))
	})

	instrumented := collector.InstrumentHandler(handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr := httptest.NewRecorder()

	instrumented.ServeHTTP(rr, req)

	if !handlerInvoked {
		t.Fatal("expected handler to be invoked")
	}

	if rr.Code != http.StatusAccepted {
		t.Fatalf("unexpected status code: %d", rr.Code)
	}

	body := scrape(t, collector)
	if !strings.Contains(body, `matstore_http_requests_total{method="GET",path="/test",status="202"} 1`) {
		t.Fatalf("requests_total metric not recorded, body=%q", body)
	}

	if !strings.Contains(body, `matstore_http_request_duration_seconds_count{method="GET",path="/test",status="202"} 1`) {
		t.Fatalf("request_duration_seconds_count metric not recorded, body=%q", body)
	}
}

func TestCollectorRecordsEngineMetrics(t *testing.T) {
	collector, err := NewCollector()
	if err != nil {
		t.Fatalf("NewCollector returned error: %v", err)
	}

	collector.ObservePrediction("MONTH")
	collector.ObservePrediction("MONTH")
	collector.ObserveTrain(250*time.Millisecond, nil)
	collector.ObserveTrain(0, errors.New("store down"))
	collector.ObserveFallback()

	body := scrape(t, collector)

	if !strings.Contains(body, `matstore_forecast_predictions_total{timeframe="MONTH"} 2`) {
		t.Fatalf("predictions_total metric not recorded, body=%q", body)
	}
	if !strings.Contains(body, `matstore_recommend_train_total{outcome="success"} 1`) {
		t.Fatalf("train_total success metric not recorded, body=%q", body)
	}
	if !strings.Contains(body, `matstore_recommend_train_total{outcome="error"} 1`) {
		t.Fatalf("train_total error metric not recorded, body=%q", body)
	}
	if !strings.Contains(body, `matstore_recommend_fallbacks_total 1`) {
		t.Fatalf("fallbacks_total metric not recorded, body=%q", body)
	}
}

func scrape(t *testing.T, collector *Collector) string {
	t.Helper()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected metrics handler to return 200, got %d", rr.Code)
	}
	return rr.Body.String()
}
