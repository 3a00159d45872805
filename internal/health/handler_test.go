package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"

	"roombook/pkg/db"
	"roombook/pkg/logger"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func serve(h *HealthHandler, path string) (*httptest.ResponseRecorder, HealthResponse) {
	router := httprouter.New()
	h.RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var resp HealthResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func TestReady_AllChecksPass(t *testing.T) {
	h := NewHealthHandler(map[string]db.Pinger{
		"reservations": pingFunc(func(context.Context) error { return nil }),
		"rooms":        pingFunc(func(context.Context) error { return nil }),
	}, logger.NewNop())

	rec, resp := serve(h, "/ready")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resp.Checks["reservations"] != "ok" || resp.Checks["rooms"] != "ok" {
		t.Errorf("unexpected checks %v", resp.Checks)
	}
}

func TestReady_FailingCheck(t *testing.T) {
	h := NewHealthHandler(map[string]db.Pinger{
		"reservations": pingFunc(func(context.Context) error { return errors.New("disk gone") }),
		"rooms":        pingFunc(func(context.Context) error { return nil }),
	}, logger.NewNop())

	rec, resp := serve(h, "/ready")

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if resp.Checks["reservations"] != "error" || resp.Status != "unavailable" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestHealth_IncludesStats(t *testing.T) {
	h := NewHealthHandler(nil, logger.NewNop()).WithStats(func() any {
		return map[string]int{"messages_consumed": 3}
	})

	rec, resp := serve(h, "/health")

	if rec.Code != http.StatusOK || resp.Status != "ok" {
		t.Fatalf("unexpected health response %d %+v", rec.Code, resp)
	}
	stats, ok := resp.Stats.(map[string]any)
	if !ok || stats["messages_consumed"] != float64(3) {
		t.Errorf("unexpected stats %v", resp.Stats)
	}
}
