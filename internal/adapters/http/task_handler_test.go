package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apphttp "github.com/horizonapp/core/internal/adapters/http"
	"github.com/horizonapp/core/internal/adapters/repository"
	"github.com/horizonapp/core/internal/application/services"
	"github.com/horizonapp/core/internal/domain/entities"
	"github.com/horizonapp/core/internal/infrastructure/config"
	"github.com/horizonapp/core/internal/infrastructure/logger"
	"github.com/horizonapp/core/internal/infrastructure/storage"
	"github.com/horizonapp/core/internal/ports"
)

type testValidator struct {
	validate *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validate: validator.New()}
	return e
}

func newTaskHandler(t *testing.T) (*apphttp.TaskHandler, *services.TaskService) {
	t.Helper()

	store, err := storage.Open(config.StorageConfig{
		Path:   filepath.Join(t.TempDir(), "horizon.db"),
		Bucket: "collections",
	})
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	svc := services.NewTaskService(repository.NewTaskRepository(store), logger.NewNop(), false)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	return apphttp.NewTaskHandler(svc, logger.NewNop()), svc
}

func TestCreateTaskEndpoint(t *testing.T) {
	handler, svc := newTaskHandler(t)
	e := newEcho()

	body := `{"title":"Write report","priority":"high","category":"business"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := handler.CreateTask(e.NewContext(req, rec)); err != nil {
		t.Fatalf("create task: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var task entities.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &task); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if task.Title != "Write report" || task.Priority != entities.TaskPriorityHigh {
		t.Fatalf("unexpected task payload: %+v", task)
	}
	if len(svc.All()) != 1 {
		t.Fatalf("expected 1 task in the store, got %d", len(svc.All()))
	}
}

func TestCreateTaskRejectsInvalidEnum(t *testing.T) {
	handler, _ := newTaskHandler(t)
	e := newEcho()

	body := `{"title":"Bad","priority":"urgent","category":"business"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := handler.CreateTask(e.NewContext(req, rec))
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an unknown priority, got %v", err)
	}
}

func TestListTasksAppliesQueryFilter(t *testing.T) {
	handler, svc := newTaskHandler(t)
	e := newEcho()

	ctx := context.Background()
	for _, seed := range []ports.CreateTaskRequest{
		{Title: "Quarterly review", Priority: entities.TaskPriorityHigh, Category: entities.TaskCategoryBusiness},
		{Title: "Grocery run", Priority: entities.TaskPriorityLow, Category: entities.TaskCategoryPersonal},
	} {
		if _, err := svc.AddTask(ctx, seed); err != nil {
			t.Fatalf("seed task: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks?category=business", nil)
	rec := httptest.NewRecorder()
	if err := handler.ListTasks(e.NewContext(req, rec)); err != nil {
		t.Fatalf("list tasks: %v", err)
	}

	var tasks []entities.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "Quarterly review" {
		t.Fatalf("unexpected filtered result: %+v", tasks)
	}

	// The filter sticks until it is cleared.
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/tasks/filters", nil)
	rec = httptest.NewRecorder()
	if err := handler.ClearFilters(e.NewContext(req, rec)); err != nil {
		t.Fatalf("clear filters: %v", err)
	}
	if got := len(svc.Filtered()); got != 2 {
		t.Fatalf("expected full collection after clearing, got %d", got)
	}
}

func TestDeleteMissingTaskIs404(t *testing.T) {
	handler, _ := newTaskHandler(t)
	e := newEcho()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/tasks/x", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("2c6f1d0a-8f57-4f6e-9d3e-0a1b2c3d4e5f")

	err := handler.DeleteTask(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a missing task, got %v", err)
	}
}

func TestGetSummary(t *testing.T) {
	handler, svc := newTaskHandler(t)
	e := newEcho()

	ctx := context.Background()
	task, err := svc.AddTask(ctx, ports.CreateTaskRequest{
		Title: "One", Priority: entities.TaskPriorityLow, Category: entities.TaskCategoryPersonal,
	})
	if err != nil {
		t.Fatalf("seed task: %v", err)
	}
	if _, err := svc.ToggleCompletion(ctx, task.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/summary", nil)
	rec := httptest.NewRecorder()
	if err := handler.GetSummary(e.NewContext(req, rec)); err != nil {
		t.Fatalf("summary: %v", err)
	}

	var summary ports.TaskSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if summary.Total != 1 || summary.Completed != 1 || summary.CompletionProgress != 1.0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}
