package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	apperrors "roombook/pkg/errors"
	"roombook/pkg/logger"
	"roombook/pkg/model"
)

type mockReservationService struct {
	createFn  func(ctx context.Context, r *model.Reservation) (*model.Reservation, error)
	getByIDFn func(ctx context.Context, id string) (*model.Reservation, error)
	getAllFn  func(ctx context.Context) ([]*model.Reservation, error)
	updateFn  func(ctx context.Context, id string, r *model.Reservation) (*model.Reservation, error)
	cancelFn  func(ctx context.Context, id string) (*model.Reservation, error)
}

func (m *mockReservationService) Create(ctx context.Context, r *model.Reservation) (*model.Reservation, error) {
	return m.createFn(ctx, r)
}

func (m *mockReservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockReservationService) GetAll(ctx context.Context) ([]*model.Reservation, error) {
	return m.getAllFn(ctx)
}

func (m *mockReservationService) Update(ctx context.Context, id string, r *model.Reservation) (*model.Reservation, error) {
	return m.updateFn(ctx, id, r)
}

func (m *mockReservationService) Cancel(ctx context.Context, id string) (*model.Reservation, error) {
	return m.cancelFn(ctx, id)
}

func newRouter(svc *mockReservationService) *httprouter.Router {
	router := httprouter.New()
	NewReservationHandler(svc, logger.NewNop()).RegisterRoutes(router)
	return router
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestCreate_ParsesCivilTypes(t *testing.T) {
	var received *model.Reservation
	svc := &mockReservationService{
		createFn: func(_ context.Context, r *model.Reservation) (*model.Reservation, error) {
			received = r
			out := *r
			out.ID = "abc"
			out.Status = model.StatusActive
			return &out, nil
		},
	}

	body := `{"room_id":"R1","day":"2025-11-04","start_time":"09:00","end_time":"10:00","title":"Sync","organizer_contact":"a@b.c"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !received.Day.Equal(model.NewDate(2025, 11, 4)) {
		t.Errorf("day not parsed: %v", received.Day)
	}
	if !received.StartTime.Equal(model.NewTimeOfDay(9, 0, 0)) {
		t.Errorf("start_time not parsed: %v", received.StartTime)
	}

	data := decodeBody(t, rec)["data"].(map[string]any)
	if data["id"] != "abc" || data["day"] != "2025-11-04" {
		t.Errorf("unexpected response data %v", data)
	}
}

func TestCreate_InvalidBody(t *testing.T) {
	svc := &mockReservationService{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(`{"day":"04/11/2025"}`))
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if decodeBody(t, rec)["code"] != apperrors.CodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", rec.Body.String())
	}
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", apperrors.ValidationFields("Reservation validation failed", []string{"title"}, []string{"title is required"}), http.StatusBadRequest},
		{"conflict", apperrors.ConflictCount(1), http.StatusConflict},
		{"not found", apperrors.NotFoundWithID("Reservation", "x"), http.StatusNotFound},
		{"persistence", apperrors.Persistence("Failed to persist reservations", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockReservationService{
				updateFn: func(context.Context, string, *model.Reservation) (*model.Reservation, error) {
					return nil, tt.err
				},
			}

			req := httptest.NewRequest(http.MethodPut, "/api/v1/reservations/id/x", strings.NewReader(`{"room_id":"R1"}`))
			rec := httptest.NewRecorder()
			newRouter(svc).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestConflictResponseOnlyCarriesCount(t *testing.T) {
	svc := &mockReservationService{
		createFn: func(context.Context, *model.Reservation) (*model.Reservation, error) {
			return nil, apperrors.ConflictCount(2)
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	details := decodeBody(t, rec)["details"].(map[string]any)
	if len(details) != 1 || details["conflict_count"] != float64(2) {
		t.Errorf("unexpected conflict details %v", details)
	}
}

func TestCancel_RoutesDeleteToCancel(t *testing.T) {
	var cancelled string
	svc := &mockReservationService{
		cancelFn: func(_ context.Context, id string) (*model.Reservation, error) {
			cancelled = id
			return &model.Reservation{ID: id, Status: model.StatusCancelled}, nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/reservations/id/r-42", nil)
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if cancelled != "r-42" {
		t.Errorf("expected cancel of r-42, got %q", cancelled)
	}
	data := decodeBody(t, rec)["data"].(map[string]any)
	if data["status"] != string(model.StatusCancelled) {
		t.Errorf("expected CANCELLED, got %v", data["status"])
	}
}

func TestGetAll_ReturnsCount(t *testing.T) {
	svc := &mockReservationService{
		getAllFn: func(context.Context) ([]*model.Reservation, error) {
			return []*model.Reservation{{ID: "a"}, {ID: "b"}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations", nil)
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if decodeBody(t, rec)["count"] != float64(2) {
		t.Errorf("expected count 2, got %s", rec.Body.String())
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc := &mockReservationService{
		getByIDFn: func(_ context.Context, id string) (*model.Reservation, error) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/id/nope", nil)
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
