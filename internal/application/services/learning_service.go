package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/horizonapp/core/internal/adapters/repository"
	"github.com/horizonapp/core/internal/domain/entities"
	"github.com/horizonapp/core/internal/infrastructure/logger"
	"github.com/horizonapp/core/internal/ports"
)

// LearningService holds the module collection plus the progress engine: an
// active module/lesson selection, quiz grading, per-module completion
// arithmetic, and the derived lesson-unlock predicate.
type LearningService struct {
	mu             sync.RWMutex
	modules        []entities.LearningModule
	activeModuleID *uuid.UUID
	activeLessonID *uuid.UUID
	filter         ports.ModuleFilter
	repo           ports.LearningRepository
	logger         *logger.Logger
	notifier       *notifier
	seed           bool
}

// NewLearningService creates a new learning service
func NewLearningService(repo ports.LearningRepository, appLogger *logger.Logger, seed bool) *LearningService {
	return &LearningService{
		repo:     repo,
		logger:   appLogger.WithComponent("learning_store"),
		notifier: newNotifier(),
		seed:     seed,
	}
}

// Load reads the persisted module collection. A missing or malformed
// document yields an empty collection; when empty and seeding is enabled
// the store bootstraps sample modules once.
func (s *LearningService) Load(ctx context.Context) error {
	modules, err := s.repo.Load(ctx)
	if err != nil {
		if !repository.IsDecodeError(err) {
			return fmt.Errorf("load learning modules: %w", err)
		}
		s.logger.Warnw("Module document malformed, starting empty", "error", err.Error())
		modules = nil
	}

	s.mu.Lock()
	s.modules = modules
	s.activeModuleID = nil
	s.activeLessonID = nil
	s.mu.Unlock()

	if len(modules) == 0 && s.seed {
		return s.seedSamples(ctx)
	}
	return nil
}

func (s *LearningService) seedSamples(ctx context.Context) error {
	s.mu.Lock()
	s.modules = sampleModules()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.repo.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("persist seeded modules: %w", err)
	}

	s.logger.Infow("Seeded sample learning modules", "count", len(snapshot))
	s.notifier.notify()
	return nil
}

// Modules returns the full collection in insertion order
func (s *LearningService) Modules() []entities.LearningModule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Filtered returns the collection narrowed by the current filter state:
// optional category, optional difficulty, and a case-insensitive substring
// query over title and description.
func (s *LearningService) Filtered() []entities.LearningModule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]entities.LearningModule, 0, len(s.modules))
	for i := range s.modules {
		module := &s.modules[i]
		if s.filter.Category != nil && module.Category != *s.filter.Category {
			continue
		}
		if s.filter.Difficulty != nil && module.Difficulty != *s.filter.Difficulty {
			continue
		}
		if !matchesQuery(s.filter.Query, module.Title, module.Description) {
			continue
		}
		result = append(result, cloneModule(*module))
	}
	return result
}

// GroupedByCategory partitions the filtered view by category. Group keys
// keep the insertion order of first appearance.
func (s *LearningService) GroupedByCategory() ([]entities.ModuleCategory, map[entities.ModuleCategory][]entities.LearningModule) {
	filtered := s.Filtered()

	var order []entities.ModuleCategory
	groups := make(map[entities.ModuleCategory][]entities.LearningModule)
	for _, module := range filtered {
		if _, ok := groups[module.Category]; !ok {
			order = append(order, module.Category)
		}
		groups[module.Category] = append(groups[module.Category], module)
	}
	return order, groups
}

// GetModule returns the module with matching identity
func (s *LearningService) GetModule(id uuid.UUID) (*entities.LearningModule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return nil, entities.ErrModuleNotFound
	}
	module := cloneModule(s.modules[idx])
	return &module, nil
}

// AddModule appends a new module built from the request and persists the
// collection. Lessons and quizzes receive fresh identities.
func (s *LearningService) AddModule(ctx context.Context, req ports.CreateModuleRequest) (*entities.LearningModule, error) {
	module := entities.LearningModule{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Difficulty:  req.Difficulty,
		Category:    req.Category,
		Lessons:     make([]entities.Lesson, 0, len(req.Lessons)),
	}

	for _, lessonReq := range req.Lessons {
		lesson := entities.Lesson{
			ID:              uuid.New(),
			Title:           lessonReq.Title,
			Content:         lessonReq.Content,
			DurationSeconds: lessonReq.DurationSeconds,
		}
		if lessonReq.Quiz != nil {
			quiz := &entities.Quiz{
				ID:        uuid.New(),
				Questions: make([]entities.Question, 0, len(lessonReq.Quiz.Questions)),
			}
			for _, questionReq := range lessonReq.Quiz.Questions {
				if questionReq.CorrectIndex < 0 || questionReq.CorrectIndex >= len(questionReq.Options) {
					return nil, entities.ErrAnswerOutOfRange
				}
				quiz.Questions = append(quiz.Questions, entities.Question{
					ID:           uuid.New(),
					Text:         questionReq.Text,
					Options:      questionReq.Options,
					CorrectIndex: questionReq.CorrectIndex,
					Explanation:  questionReq.Explanation,
				})
			}
			lesson.Quiz = quiz
		}
		module.Lessons = append(module.Lessons, lesson)
	}

	s.mu.Lock()
	s.modules = append(s.modules, module)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.LogStoreMutation("learning_modules", "add", module.ID.String())
	s.notifier.notify()

	if err := s.repo.Save(ctx, snapshot); err != nil {
		s.logger.LogPersistFailure("learning_modules", err)
		return &module, fmt.Errorf("persist modules: %w", err)
	}
	return &module, nil
}

// DeleteModule removes the module with matching identity. The active
// selection is cleared when it pointed into the deleted module.
func (s *LearningService) DeleteModule(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return entities.ErrModuleNotFound
	}
	s.modules = append(s.modules[:idx], s.modules[idx+1:]...)
	if s.activeModuleID != nil && *s.activeModuleID == id {
		s.activeModuleID = nil
		s.activeLessonID = nil
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.LogStoreMutation("learning_modules", "delete", id.String())
	s.notifier.notify()

	if err := s.repo.Save(ctx, snapshot); err != nil {
		s.logger.LogPersistFailure("learning_modules", err)
		return fmt.Errorf("persist modules: %w", err)
	}
	return nil
}

// StartModule sets the active module and points the active lesson at the
// module's first lesson when it has any.
func (s *LearningService) StartModule(ctx context.Context, id uuid.UUID) (*entities.LearningModule, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil, entities.ErrModuleNotFound
	}

	moduleID := s.modules[idx].ID
	s.activeModuleID = &moduleID
	s.activeLessonID = nil
	if len(s.modules[idx].Lessons) > 0 {
		lessonID := s.modules[idx].Lessons[0].ID
		s.activeLessonID = &lessonID
	}
	module := cloneModule(s.modules[idx])
	s.mu.Unlock()

	s.logger.Infow("Module started", "module_id", id.String())
	s.notifier.notify()
	return &module, nil
}

// CompleteLesson marks the lesson with matching identity inside the active
// module completed and recomputes module progress. Completion does not
// require the lesson's quiz (if any) to be finished first.
func (s *LearningService) CompleteLesson(ctx context.Context, lessonID uuid.UUID) (*entities.LearningModule, error) {
	s.mu.Lock()
	module := s.activeModuleLocked()
	if module == nil {
		s.mu.Unlock()
		return nil, entities.ErrNoActiveModule
	}
	lessonIdx := module.LessonIndex(lessonID)
	if lessonIdx < 0 {
		s.mu.Unlock()
		return nil, entities.ErrLessonNotFound
	}

	module.Lessons[lessonIdx].IsCompleted = true
	module.RecalculateProgress()
	updated := cloneModule(*module)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Infow("Lesson completed",
		"module_id", updated.ID.String(),
		"lesson_id", lessonID.String(),
		"progress", updated.Progress,
	)
	s.notifier.notify()

	if err := s.repo.Save(ctx, snapshot); err != nil {
		s.logger.LogPersistFailure("learning_modules", err)
		return &updated, fmt.Errorf("persist modules: %w", err)
	}
	return &updated, nil
}

// SubmitQuizAnswer records the answer for the matching question in the
// active lesson's quiz. When the last unanswered question receives an
// answer the quiz is sealed: the score is computed, the quiz and its owning
// lesson are marked completed, and module progress is recomputed.
// Submissions to an already-sealed quiz are rejected with ErrQuizSealed.
func (s *LearningService) SubmitQuizAnswer(ctx context.Context, questionID uuid.UUID, answerIndex int) (*ports.QuizAnswerResult, error) {
	s.mu.Lock()
	module := s.activeModuleLocked()
	if module == nil {
		s.mu.Unlock()
		return nil, entities.ErrNoActiveModule
	}
	if s.activeLessonID == nil {
		s.mu.Unlock()
		return nil, entities.ErrNoActiveLesson
	}
	lessonIdx := module.LessonIndex(*s.activeLessonID)
	if lessonIdx < 0 {
		s.mu.Unlock()
		return nil, entities.ErrLessonNotFound
	}

	lesson := &module.Lessons[lessonIdx]
	if !lesson.HasQuiz() {
		s.mu.Unlock()
		return nil, entities.ErrLessonHasNoQuiz
	}
	quiz := lesson.Quiz
	if quiz.IsCompleted {
		s.mu.Unlock()
		return nil, entities.ErrQuizSealed
	}

	questionIdx := quiz.QuestionIndex(questionID)
	if questionIdx < 0 {
		s.mu.Unlock()
		return nil, entities.ErrQuestionNotFound
	}
	if answerIndex < 0 || answerIndex >= len(quiz.Questions[questionIdx].Options) {
		s.mu.Unlock()
		return nil, entities.ErrAnswerOutOfRange
	}

	answer := answerIndex
	quiz.Questions[questionIdx].UserAnswer = &answer

	sealed := quiz.Seal()
	if sealed {
		lesson.IsCompleted = true
		module.RecalculateProgress()
	}

	answered := 0
	for i := range quiz.Questions {
		if quiz.Questions[i].UserAnswer != nil {
			answered++
		}
	}

	result := &ports.QuizAnswerResult{
		Sealed:    sealed,
		Score:     quiz.Score,
		Total:     len(quiz.Questions),
		LessonID:  lesson.ID,
		Answered:  answered,
		Remaining: len(quiz.Questions) - answered,
	}
	updated := cloneModule(*module)
	result.Module = &updated
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if sealed {
		s.logger.Infow("Quiz sealed",
			"module_id", updated.ID.String(),
			"lesson_id", result.LessonID.String(),
			"score", result.Score,
			"total", result.Total,
		)
	}
	s.notifier.notify()

	if err := s.repo.Save(ctx, snapshot); err != nil {
		s.logger.LogPersistFailure("learning_modules", err)
		return result, fmt.Errorf("persist modules: %w", err)
	}
	return result, nil
}

// NextLesson advances the active-lesson pointer within the active module's
// lesson order. At the last lesson it stays put; there is no wraparound.
func (s *LearningService) NextLesson(ctx context.Context) (*entities.Lesson, error) {
	return s.moveLesson(1)
}

// PreviousLesson retreats the active-lesson pointer. At the first lesson it
// stays put; there is no wraparound.
func (s *LearningService) PreviousLesson(ctx context.Context) (*entities.Lesson, error) {
	return s.moveLesson(-1)
}

func (s *LearningService) moveLesson(delta int) (*entities.Lesson, error) {
	s.mu.Lock()
	module := s.activeModuleLocked()
	if module == nil {
		s.mu.Unlock()
		return nil, entities.ErrNoActiveModule
	}
	if s.activeLessonID == nil {
		s.mu.Unlock()
		return nil, entities.ErrNoActiveLesson
	}
	idx := module.LessonIndex(*s.activeLessonID)
	if idx < 0 {
		s.mu.Unlock()
		return nil, entities.ErrLessonNotFound
	}

	target := idx + delta
	if target >= 0 && target < len(module.Lessons) {
		lessonID := module.Lessons[target].ID
		s.activeLessonID = &lessonID
		idx = target
	}
	lesson := cloneLesson(module.Lessons[idx])
	s.mu.Unlock()

	s.notifier.notify()
	return &lesson, nil
}

// ActiveModule returns the currently selected module, or nil
func (s *LearningService) ActiveModule() *entities.LearningModule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	module := s.activeModuleLocked()
	if module == nil {
		return nil
	}
	clone := cloneModule(*module)
	return &clone
}

// ActiveLesson returns the currently selected lesson, or nil
func (s *LearningService) ActiveLesson() *entities.Lesson {
	s.mu.RLock()
	defer s.mu.RUnlock()

	module := s.activeModuleLocked()
	if module == nil || s.activeLessonID == nil {
		return nil
	}
	idx := module.LessonIndex(*s.activeLessonID)
	if idx < 0 {
		return nil
	}
	lesson := cloneLesson(module.Lessons[idx])
	return &lesson
}

// LessonUnlocked evaluates the derived unlock predicate for the lesson at
// the given index of the given module.
func (s *LearningService) LessonUnlocked(moduleID uuid.UUID, index int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexLocked(moduleID)
	if idx < 0 {
		return false, entities.ErrModuleNotFound
	}
	return s.modules[idx].LessonUnlocked(index), nil
}

// SetFilter replaces the current filter state
func (s *LearningService) SetFilter(filter ports.ModuleFilter) {
	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()
	s.notifier.notify()
}

// ClearFilters resets all filter fields to "no filter"
func (s *LearningService) ClearFilters() {
	s.SetFilter(ports.ModuleFilter{})
}

// Subscribe registers a change listener and returns an unsubscribe func
func (s *LearningService) Subscribe(fn func()) func() {
	return s.notifier.subscribe(fn)
}

func (s *LearningService) indexLocked(id uuid.UUID) int {
	for i := range s.modules {
		if s.modules[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *LearningService) activeModuleLocked() *entities.LearningModule {
	if s.activeModuleID == nil {
		return nil
	}
	idx := s.indexLocked(*s.activeModuleID)
	if idx < 0 {
		return nil
	}
	return &s.modules[idx]
}

func (s *LearningService) snapshotLocked() []entities.LearningModule {
	snapshot := make([]entities.LearningModule, len(s.modules))
	for i := range s.modules {
		snapshot[i] = cloneModule(s.modules[i])
	}
	return snapshot
}

func cloneModule(m entities.LearningModule) entities.LearningModule {
	lessons := make([]entities.Lesson, len(m.Lessons))
	for i := range m.Lessons {
		lessons[i] = cloneLesson(m.Lessons[i])
	}
	m.Lessons = lessons
	return m
}

func cloneLesson(l entities.Lesson) entities.Lesson {
	if l.Quiz != nil {
		quiz := *l.Quiz
		quiz.Questions = make([]entities.Question, len(l.Quiz.Questions))
		copy(quiz.Questions, l.Quiz.Questions)
		for i := range quiz.Questions {
			if quiz.Questions[i].UserAnswer != nil {
				answer := *quiz.Questions[i].UserAnswer
				quiz.Questions[i].UserAnswer = &answer
			}
		}
		l.Quiz = &quiz
	}
	return l
}
