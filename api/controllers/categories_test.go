package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/velora-labs/velora-backend/internal/categories"
	"github.com/velora-labs/velora-backend/pkg/db/models"
	"github.com/velora-labs/velora-backend/pkg/logger"
)

type stubCategoryService struct {
	reordered   uuid.UUID
	reorderedTo int
}

func (s *stubCategoryService) Create(_ context.Context, input categories.CreateInput) (*models.Category, error) {
	return &models.Category{Name: input.Name}, nil
}

func (s *stubCategoryService) Get(_ context.Context, id uuid.UUID) (*models.Category, error) {
	return &models.Category{}, nil
}

func (s *stubCategoryService) List(_ context.Context) ([]categories.Summary, error) {
	return []categories.Summary{}, nil
}

func (s *stubCategoryService) ListDetails(_ context.Context) ([]categories.Detail, error) {
	return []categories.Detail{}, nil
}

func (s *stubCategoryService) Update(_ context.Context, _ uuid.UUID, _ categories.UpdateInput) (*models.Category, error) {
	return &models.Category{}, nil
}

func (s *stubCategoryService) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (s *stubCategoryService) SetPriority(_ context.Context, id uuid.UUID, newPriority int) (*models.Category, error) {
	s.reordered = id
	s.reorderedTo = newPriority
	return &models.Category{Priority: newPriority}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func TestCategoryReorder(t *testing.T) {
	logg := testLogger()
	categoryID := uuid.New()

	makeRequest := func(svc categories.Service, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/api/v1/categories/priority", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		CategoryReorder(svc, logg).ServeHTTP(rec, req)
		return rec
	}

	t.Run("rejects zero priority", func(t *testing.T) {
		rec := makeRequest(&stubCategoryService{}, `{"category_id":"`+categoryID.String()+`","priority":0}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for priority 0, got %d", rec.Code)
		}
	})

	t.Run("rejects malformed id", func(t *testing.T) {
		rec := makeRequest(&stubCategoryService{}, `{"category_id":"not-a-uuid","priority":2}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for bad id, got %d", rec.Code)
		}
	})

	t.Run("moves and returns the list", func(t *testing.T) {
		stub := &stubCategoryService{}
		rec := makeRequest(stub, `{"category_id":"`+categoryID.String()+`","priority":3}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.reordered != categoryID || stub.reorderedTo != 3 {
			t.Fatalf("expected SetPriority(%s, 3), got (%s, %d)", categoryID, stub.reordered, stub.reorderedTo)
		}
		if !strings.Contains(rec.Body.String(), `"categories"`) {
			t.Fatalf("expected reordered list in response, got %s", rec.Body.String())
		}
	})
}

func TestCategoryGetRejectsInvalidID(t *testing.T) {
	logg := testLogger()

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("categoryId", "not-a-uuid")
	ctx := context.WithValue(context.Background(), chi.RouteCtxKey, routeCtx)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories/not-a-uuid", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	CategoryGet(&stubCategoryService{}, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid id, got %d", rec.Code)
	}
}
