package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrMediaItemNotFound = errors.New("media item not found")
	ErrPlaylistNotFound  = errors.New("playlist not found")
	ErrModuleNotFound    = errors.New("learning module not found")
	ErrLessonNotFound    = errors.New("lesson not found")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrNoActiveModule    = errors.New("no active module")
	ErrNoActiveLesson    = errors.New("no active lesson")
	ErrLessonHasNoQuiz   = errors.New("lesson has no quiz")
	ErrQuizSealed        = errors.New("quiz is already sealed")
	ErrAnswerOutOfRange  = errors.New("answer index out of range")
	ErrKeyNotFound       = errors.New("key not found")
)

// Enums and types
type TaskPriority string

const (
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityLow    TaskPriority = "low"
)

type TaskCategory string

const (
	TaskCategoryBusiness  TaskCategory = "business"
	TaskCategoryPersonal  TaskCategory = "personal"
	TaskCategoryCreative  TaskCategory = "creative"
	TaskCategoryEducation TaskCategory = "education"
)

type MediaType string

const (
	MediaTypeMusic   MediaType = "music"
	MediaTypeVideo   MediaType = "video"
	MediaTypeArt     MediaType = "art"
	MediaTypePodcast MediaType = "podcast"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

type ModuleCategory string

const (
	ModuleCategoryProgramming ModuleCategory = "programming"
	ModuleCategoryDesign      ModuleCategory = "design"
	ModuleCategoryLanguage    ModuleCategory = "language"
	ModuleCategoryScience     ModuleCategory = "science"
	ModuleCategoryBusiness    ModuleCategory = "business"
)

type AppTab string

const (
	AppTabTasks    AppTab = "tasks"
	AppTabMedia    AppTab = "media"
	AppTabLearning AppTab = "learning"
)

// Task represents a single task in the task manager
type Task struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Priority    TaskPriority `json:"priority"`
	Category    TaskCategory `json:"category"`
	IsCompleted bool         `json:"is_completed"`
	CreatedAt   time.Time    `json:"created_at"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
}

// MediaItem represents an entry in the media library
type MediaItem struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        MediaType `json:"type"`
	Category    string    `json:"category"`
	IsFavorite  bool      `json:"is_favorite"`
	Rating      int       `json:"rating"`
	Icon        string    `json:"icon,omitempty"`
}

// Playlist holds an ordered set of media item snapshots. Items are owned
// copies: editing the library item does not rewrite copies already inside a
// playlist.
type Playlist struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Items       []MediaItem `json:"items"`
	ColorTheme  string      `json:"color_theme"`
	CreatedAt   time.Time   `json:"created_at"`
}

// LearningModule groups an ordered list of lessons with aggregate progress
type LearningModule struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Difficulty  Difficulty     `json:"difficulty"`
	Category    ModuleCategory `json:"category"`
	Lessons     []Lesson       `json:"lessons"`
	IsCompleted bool           `json:"is_completed"`
	Progress    float64        `json:"progress"`
}

// Lesson is a single unit of content inside a module
type Lesson struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	DurationSeconds int       `json:"duration_seconds"`
	IsCompleted     bool      `json:"is_completed"`
	Quiz            *Quiz     `json:"quiz,omitempty"`
}

// Quiz is an ordered set of questions graded as a whole once sealed
type Quiz struct {
	ID          uuid.UUID  `json:"id"`
	Questions   []Question `json:"questions"`
	Score       int        `json:"score"`
	IsCompleted bool       `json:"is_completed"`
}

// Question is a single multiple-choice question
type Question struct {
	ID           uuid.UUID `json:"id"`
	Text         string    `json:"text"`
	Options      []string  `json:"options"`
	CorrectIndex int       `json:"correct_index"`
	UserAnswer   *int      `json:"user_answer,omitempty"`
	Explanation  string    `json:"explanation"`
}

// AppState is the explicit application-state record shared across feature
// areas: the selected tab and the onboarding flag.
type AppState struct {
	SelectedTab         AppTab `json:"selected_tab"`
	OnboardingCompleted bool   `json:"onboarding_completed"`
}

// Business logic methods for Task
func (t *Task) IsOverdue() bool {
	if t.DueDate == nil {
		return false
	}
	return time.Now().After(*t.DueDate) && !t.IsCompleted
}

// Business logic methods for Playlist
func (p *Playlist) ContainsItem(id uuid.UUID) bool {
	for i := range p.Items {
		if p.Items[i].ID == id {
			return true
		}
	}
	return false
}

// RemoveItem drops the item with the given identity from the playlist.
// It reports whether an item was removed.
func (p *Playlist) RemoveItem(id uuid.UUID) bool {
	for i := range p.Items {
		if p.Items[i].ID == id {
			p.Items = append(p.Items[:i], p.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Business logic methods for LearningModule

// CompletedLessonCount returns the number of completed lessons
func (m *LearningModule) CompletedLessonCount() int {
	count := 0
	for i := range m.Lessons {
		if m.Lessons[i].IsCompleted {
			count++
		}
	}
	return count
}

// RecalculateProgress recomputes progress and the completion flag from the
// lesson list. With zero lessons the progress keeps its last assigned value.
func (m *LearningModule) RecalculateProgress() {
	if len(m.Lessons) == 0 {
		return
	}
	m.Progress = float64(m.CompletedLessonCount()) / float64(len(m.Lessons))
	m.IsCompleted = m.Progress == 1.0
}

// LessonUnlocked reports whether the lesson at the given index is reachable.
// Lesson 0 is always unlocked; lesson k is unlocked iff lesson k-1 is
// completed. Derived on every call, never stored.
func (m *LearningModule) LessonUnlocked(index int) bool {
	if index < 0 || index >= len(m.Lessons) {
		return false
	}
	if index == 0 {
		return true
	}
	return m.Lessons[index-1].IsCompleted
}

// LessonIndex returns the position of the lesson with the given identity,
// or -1 when absent.
func (m *LearningModule) LessonIndex(id uuid.UUID) int {
	for i := range m.Lessons {
		if m.Lessons[i].ID == id {
			return i
		}
	}
	return -1
}

// Business logic methods for Lesson
func (l *Lesson) HasQuiz() bool {
	return l.Quiz != nil
}

// Business logic methods for Quiz

// AllAnswered reports whether every question has a recorded answer
func (q *Quiz) AllAnswered() bool {
	for i := range q.Questions {
		if q.Questions[i].UserAnswer == nil {
			return false
		}
	}
	return true
}

// ComputeScore counts questions whose recorded answer matches the correct
// index. Recomputing from the same answers always yields the same value.
func (q *Quiz) ComputeScore() int {
	score := 0
	for i := range q.Questions {
		answer := q.Questions[i].UserAnswer
		if answer != nil && *answer == q.Questions[i].CorrectIndex {
			score++
		}
	}
	return score
}

// Seal grades the quiz and marks it completed. It only takes effect once
// every question has an answer, and reports whether the quiz is sealed.
func (q *Quiz) Seal() bool {
	if !q.AllAnswered() {
		return false
	}
	q.Score = q.ComputeScore()
	q.IsCompleted = true
	return true
}

// QuestionIndex returns the position of the question with the given
// identity, or -1 when absent.
func (q *Quiz) QuestionIndex(id uuid.UUID) int {
	for i := range q.Questions {
		if q.Questions[i].ID == id {
			return i
		}
	}
	return -1
}

// Utility methods
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityHigh, TaskPriorityMedium, TaskPriorityLow:
		return true
	default:
		return false
	}
}

func (c TaskCategory) IsValid() bool {
	switch c {
	case TaskCategoryBusiness, TaskCategoryPersonal, TaskCategoryCreative, TaskCategoryEducation:
		return true
	default:
		return false
	}
}

func (t MediaType) IsValid() bool {
	switch t {
	case MediaTypeMusic, MediaTypeVideo, MediaTypeArt, MediaTypePodcast:
		return true
	default:
		return false
	}
}

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	default:
		return false
	}
}

func (c ModuleCategory) IsValid() bool {
	switch c {
	case ModuleCategoryProgramming, ModuleCategoryDesign, ModuleCategoryLanguage, ModuleCategoryScience, ModuleCategoryBusiness:
		return true
	default:
		return false
	}
}

func (t AppTab) IsValid() bool {
	switch t {
	case AppTabTasks, AppTabMedia, AppTabLearning:
		return true
	default:
		return false
	}
}
