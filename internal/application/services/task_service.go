package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/horizonapp/core/internal/adapters/repository"
	"github.com/horizonapp/core/internal/domain/entities"
	"github.com/horizonapp/core/internal/infrastructure/logger"
	"github.com/horizonapp/core/internal/ports"
)

// TaskService holds the task collection in memory, offers derived views
// over it, and persists the whole collection after every mutation.
// Mutations are serialized through the store mutex: whole-collection
// read-modify-write plus re-persist is not atomic across callers otherwise.
type TaskService struct {
	mu       sync.RWMutex
	tasks    []entities.Task
	filter   ports.TaskFilter
	repo     ports.TaskRepository
	logger   *logger.Logger
	notifier *notifier
	seed     bool
}

// NewTaskService creates a new task service
func NewTaskService(repo ports.TaskRepository, appLogger *logger.Logger, seed bool) *TaskService {
	return &TaskService{
		repo:     repo,
		logger:   appLogger.WithComponent("task_store"),
		notifier: newNotifier(),
		seed:     seed,
	}
}

// Load reads the persisted collection. A missing or malformed document
// yields an empty collection; when empty and seeding is enabled, the store
// bootstraps sample records once and persists them.
func (s *TaskService) Load(ctx context.Context) error {
	tasks, err := s.repo.Load(ctx)
	if err != nil {
		if !repository.IsDecodeError(err) {
			return fmt.Errorf("load tasks: %w", err)
		}
		s.logger.Warnw("Task document malformed, starting empty", "error", err.Error())
		tasks = nil
	}

	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()

	if len(tasks) == 0 && s.seed {
		return s.seedSamples(ctx)
	}
	return nil
}

func (s *TaskService) seedSamples(ctx context.Context) error {
	s.mu.Lock()
	s.tasks = sampleTasks()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.repo.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("persist seeded tasks: %w", err)
	}

	s.logger.Infow("Seeded sample tasks", "count", len(snapshot))
	s.notifier.notify()
	return nil
}

// All returns the full collection in insertion order
func (s *TaskService) All() []entities.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Filtered returns the collection narrowed by the current filter state:
// optional category, optional priority, and a case-insensitive substring
// query over title and description.
func (s *TaskService) Filtered() []entities.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]entities.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if s.filter.Category != nil && task.Category != *s.filter.Category {
			continue
		}
		if s.filter.Priority != nil && task.Priority != *s.filter.Priority {
			continue
		}
		if !matchesQuery(s.filter.Query, task.Title, task.Description) {
			continue
		}
		result = append(result, task)
	}
	return result
}

// GroupedByCategory partitions the filtered view by category. Group keys
// keep the insertion order of first appearance.
func (s *TaskService) GroupedByCategory() ([]entities.TaskCategory, map[entities.TaskCategory][]entities.Task) {
	filtered := s.Filtered()

	var order []entities.TaskCategory
	groups := make(map[entities.TaskCategory][]entities.Task)
	for _, task := range filtered {
		if _, ok := groups[task.Category]; !ok {
			order = append(order, task.Category)
		}
		groups[task.Category] = append(groups[task.Category], task)
	}
	return order, groups
}

// AddTask appends a new task and persists the collection
func (s *TaskService) AddTask(ctx context.Context, req ports.CreateTaskRequest) (*entities.Task, error) {
	task := entities.Task{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Category:    req.Category,
		CreatedAt:   time.Now(),
		DueDate:     req.DueDate,
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.LogStoreMutation("tasks", "add", task.ID.String())
	s.notifier.notify()

	if err := s.repo.Save(ctx, snapshot); err != nil {
		s.logger.LogPersistFailure("tasks", err)
		return &task, fmt.Errorf("persist tasks: %w", err)
	}
	return &task, nil
}

// UpdateTask replaces fields of the task with matching identity
func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, req ports.UpdateTaskRequest) (*entities.Task, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil, entities.ErrTaskNotFound
	}

	task := &s.tasks[idx]
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.Category != nil {
		task.Category = *req.Category
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	updated := *task
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.LogStoreMutation("tasks", "update", id.String())
	s.notifier.notify()

	if err := s.repo.Save(ctx, snapshot); err != nil {
		s.logger.LogPersistFailure("tasks", err)
		return &updated, fmt.Errorf("persist tasks: %w", err)
	}
	return &updated, nil
}

// DeleteTask removes the task with matching identity
func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return entities.ErrTaskNotFound
	}
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.LogStoreMutation("tasks", "delete", id.String())
	s.notifier.notify()

	if err := s.repo.Save(ctx, snapshot); err != nil {
		s.logger.LogPersistFailure("tasks", err)
		return fmt.Errorf("persist tasks: %w", err)
	}
	return nil
}

// ToggleCompletion flips the completion flag of the task with matching
// identity. Toggling twice restores the original value.
func (s *TaskService) ToggleCompletion(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil, entities.ErrTaskNotFound
	}
	s.tasks[idx].IsCompleted = !s.tasks[idx].IsCompleted
	updated := s.tasks[idx]
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.LogStoreMutation("tasks", "toggle_completion", id.String())
	s.notifier.notify()

	if err := s.repo.Save(ctx, snapshot); err != nil {
		s.logger.LogPersistFailure("tasks", err)
		return &updated, fmt.Errorf("persist tasks: %w", err)
	}
	return &updated, nil
}

// SetFilter replaces the current filter state
func (s *TaskService) SetFilter(filter ports.TaskFilter) {
	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()
	s.notifier.notify()
}

// ClearFilters resets all filter fields to "no filter"
func (s *TaskService) ClearFilters() {
	s.SetFilter(ports.TaskFilter{})
}

// CompletedCount returns the number of completed tasks
func (s *TaskService) CompletedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for i := range s.tasks {
		if s.tasks[i].IsCompleted {
			count++
		}
	}
	return count
}

// CompletionProgress returns the completed fraction of the collection,
// 0 for an empty collection.
func (s *TaskService) CompletionProgress() float64 {
	s.mu.RLock()
	total := len(s.tasks)
	s.mu.RUnlock()

	if total == 0 {
		return 0
	}
	return float64(s.CompletedCount()) / float64(total)
}

// Subscribe registers a change listener and returns an unsubscribe func
func (s *TaskService) Subscribe(fn func()) func() {
	return s.notifier.subscribe(fn)
}

func (s *TaskService) indexLocked(id uuid.UUID) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *TaskService) snapshotLocked() []entities.Task {
	snapshot := make([]entities.Task, len(s.tasks))
	copy(snapshot, s.tasks)
	return snapshot
}
