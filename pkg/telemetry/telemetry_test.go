package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"

	"github.com/ghuser/clickcollect/pkg/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		ServiceName:    "test-service",
		ServiceVersion: "test",
		Environment:    "testing",
		OtelEndpoint:   "", // disabled
	}
}

func TestSetup_NoOtelEndpoint(t *testing.T) {
	shutdown, handler, err := Setup(context.Background(), baseConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shutdown == nil {
		t.Fatal("expected non-nil shutdown")
	}
	if handler == nil {
		t.Fatal("expected non-nil metrics handler")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_MetricsHandlerServesPrometheusFormat(t *testing.T) {
	_, handler, err := Setup(context.Background(), baseConfig())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", http.NoBody))

	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	ct := rr.Header().Get("Content-Type")
	if !strings.Contains(ct, "text/plain") {
		t.Errorf("expected text/plain content-type, got %q", ct)
	}
}

func TestSetup_ExportsEngineCounters(t *testing.T) {
	shutdown, handler, err := Setup(context.Background(), baseConfig())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer shutdown(context.Background()) //nolint:errcheck

	counter, err := otel.Meter("test-service").Int64Counter("shopping.lists.created")
	if err != nil {
		t.Fatalf("counter: %v", err)
	}
	counter.Add(context.Background(), 2)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", http.NoBody))

	body := rr.Body.String()
	if !strings.Contains(body, "shopping_lists_created") && !strings.Contains(body, "shopping.lists.created") {
		t.Fatalf("expected the lists created counter in metrics output:\n%s", body)
	}
}

func TestSetup_InstallsTraceContextPropagator(t *testing.T) {
	shutdown, _, err := Setup(context.Background(), baseConfig())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer shutdown(context.Background()) //nolint:errcheck

	fields := otel.GetTextMapPropagator().Fields()
	found := false
	for _, f := range fields {
		if f == "traceparent" {
			found = true
		}
	}
	if !found {
		t.Fatalf("event metadata needs traceparent propagation, got fields %v", fields)
	}
}

func TestSampleRatio(t *testing.T) {
	if got := sampleRatio(&config.Config{Environment: config.EnvProduction}); got != 0.2 {
		t.Errorf("production ratio = %v", got)
	}
	if got := sampleRatio(&config.Config{Environment: config.EnvDevelopment}); got != 1 {
		t.Errorf("development ratio = %v", got)
	}
}

func TestCaptureError_NoClientIsNoop(t *testing.T) {
	CaptureError(context.Background(), errors.New("boom"), map[string]string{"topic": "shopping_list.completed"})
}
