package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/horizonapp/core/internal/adapters/repository"
	"github.com/horizonapp/core/internal/application/services"
	"github.com/horizonapp/core/internal/domain/entities"
	"github.com/horizonapp/core/internal/infrastructure/logger"
	"github.com/horizonapp/core/internal/ports"
)

func newTaskService(t *testing.T, seed bool) *services.TaskService {
	t.Helper()

	svc := services.NewTaskService(newTaskRepo(t), logger.NewNop(), seed)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	return svc
}

func addTask(t *testing.T, svc *services.TaskService, title string, priority entities.TaskPriority, category entities.TaskCategory) *entities.Task {
	t.Helper()

	task, err := svc.AddTask(context.Background(), ports.CreateTaskRequest{
		Title:    title,
		Priority: priority,
		Category: category,
	})
	if err != nil {
		t.Fatalf("add task %q: %v", title, err)
	}
	return task
}

func TestTaskAddAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTaskService(t, false)

	task := addTask(t, svc, "Write report", entities.TaskPriorityHigh, entities.TaskCategoryBusiness)
	if len(svc.All()) != 1 {
		t.Fatalf("expected 1 task, got %d", len(svc.All()))
	}

	if err := svc.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if len(svc.All()) != 0 {
		t.Fatalf("expected empty collection after delete, got %d", len(svc.All()))
	}

	if err := svc.DeleteTask(ctx, task.ID); !errors.Is(err, entities.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestTaskToggleCompletionRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newTaskService(t, false)
	task := addTask(t, svc, "Morning run", entities.TaskPriorityMedium, entities.TaskCategoryPersonal)

	toggled, err := svc.ToggleCompletion(ctx, task.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.IsCompleted {
		t.Fatal("expected task completed after first toggle")
	}
	if svc.CompletedCount() != 1 {
		t.Fatalf("expected completed count 1, got %d", svc.CompletedCount())
	}
	if svc.CompletionProgress() != 1.0 {
		t.Fatalf("expected progress 1.0, got %v", svc.CompletionProgress())
	}

	toggled, err = svc.ToggleCompletion(ctx, task.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if toggled.IsCompleted {
		t.Fatal("expected second toggle to restore the original value")
	}
	if svc.CompletedCount() != 0 {
		t.Fatalf("expected completed count 0, got %d", svc.CompletedCount())
	}
}

func TestTaskCompletionProgressEmpty(t *testing.T) {
	svc := newTaskService(t, false)
	if got := svc.CompletionProgress(); got != 0 {
		t.Fatalf("empty collection must report progress 0, got %v", got)
	}
}

func TestTaskUpdateFields(t *testing.T) {
	ctx := context.Background()
	svc := newTaskService(t, false)
	task := addTask(t, svc, "Draft", entities.TaskPriorityLow, entities.TaskCategoryCreative)

	title := "Final draft"
	priority := entities.TaskPriorityHigh
	updated, err := svc.UpdateTask(ctx, task.ID, ports.UpdateTaskRequest{
		Title:    &title,
		Priority: &priority,
	})
	if err != nil {
		t.Fatalf("update task: %v", err)
	}
	if updated.Title != "Final draft" || updated.Priority != entities.TaskPriorityHigh {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if updated.Category != entities.TaskCategoryCreative {
		t.Fatal("untouched fields must survive a partial update")
	}

	if _, err := svc.UpdateTask(ctx, uuid.New(), ports.UpdateTaskRequest{Title: &title}); !errors.Is(err, entities.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestTaskFilteredAndClear(t *testing.T) {
	svc := newTaskService(t, false)
	addTask(t, svc, "Quarterly review", entities.TaskPriorityHigh, entities.TaskCategoryBusiness)
	addTask(t, svc, "Grocery run", entities.TaskPriorityLow, entities.TaskCategoryPersonal)
	addTask(t, svc, "Review pull requests", entities.TaskPriorityHigh, entities.TaskCategoryBusiness)

	business := entities.TaskCategoryBusiness
	svc.SetFilter(ports.TaskFilter{Category: &business})
	if got := len(svc.Filtered()); got != 2 {
		t.Fatalf("expected 2 business tasks, got %d", got)
	}

	svc.SetFilter(ports.TaskFilter{Category: &business, Query: "REVIEW"})
	if got := len(svc.Filtered()); got != 2 {
		t.Fatalf("query match must be case-insensitive, got %d", got)
	}

	svc.SetFilter(ports.TaskFilter{Query: "grocery"})
	filtered := svc.Filtered()
	if len(filtered) != 1 || filtered[0].Title != "Grocery run" {
		t.Fatalf("unexpected query result: %+v", filtered)
	}

	svc.ClearFilters()
	if got := len(svc.Filtered()); got != len(svc.All()) {
		t.Fatalf("cleared filter must yield the full collection, got %d of %d", got, len(svc.All()))
	}
}

func TestTaskGroupedByCategoryOrder(t *testing.T) {
	svc := newTaskService(t, false)
	addTask(t, svc, "One", entities.TaskPriorityLow, entities.TaskCategoryPersonal)
	addTask(t, svc, "Two", entities.TaskPriorityLow, entities.TaskCategoryBusiness)
	addTask(t, svc, "Three", entities.TaskPriorityLow, entities.TaskCategoryPersonal)

	order, groups := svc.GroupedByCategory()
	if len(order) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(order))
	}
	if order[0] != entities.TaskCategoryPersonal || order[1] != entities.TaskCategoryBusiness {
		t.Fatalf("group keys must keep first-appearance order, got %v", order)
	}
	if len(groups[entities.TaskCategoryPersonal]) != 2 {
		t.Fatalf("expected 2 personal tasks, got %d", len(groups[entities.TaskCategoryPersonal]))
	}
}

func TestTaskPersistenceAcrossReload(t *testing.T) {
	ctx := context.Background()
	repo := newTaskRepo(t)

	svc := services.NewTaskService(repo, logger.NewNop(), false)
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	task := addTask(t, svc, "Persisted", entities.TaskPriorityHigh, entities.TaskCategoryEducation)

	reloaded := services.NewTaskService(repo, logger.NewNop(), false)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	all := reloaded.All()
	if len(all) != 1 || all[0].ID != task.ID {
		t.Fatalf("expected persisted task to survive reload, got %+v", all)
	}
}

func TestTaskSeedOnEmpty(t *testing.T) {
	svc := newTaskService(t, true)
	if got := len(svc.All()); got != 4 {
		t.Fatalf("expected 4 seeded tasks, got %d", got)
	}
}

func TestTaskCorruptedDocumentStartsEmpty(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	if err := store.Set(ctx, "tasks", []byte("{not json")); err != nil {
		t.Fatalf("write garbage: %v", err)
	}

	svc := services.NewTaskService(repository.NewTaskRepository(store), logger.NewNop(), false)
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("load over malformed document must not fail: %v", err)
	}
	if got := len(svc.All()); got != 0 {
		t.Fatalf("malformed document must yield an empty collection, got %d", got)
	}
}

func TestTaskSubscribe(t *testing.T) {
	svc := newTaskService(t, false)

	calls := 0
	unsubscribe := svc.Subscribe(func() { calls++ })

	addTask(t, svc, "Notify me", entities.TaskPriorityLow, entities.TaskCategoryPersonal)
	if calls != 1 {
		t.Fatalf("expected 1 notification, got %d", calls)
	}

	unsubscribe()
	addTask(t, svc, "Silent", entities.TaskPriorityLow, entities.TaskCategoryPersonal)
	if calls != 1 {
		t.Fatalf("unsubscribed listener must not fire, got %d calls", calls)
	}
}
