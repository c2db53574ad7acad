package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/horizonapp/core/internal/domain/entities"
)

// TaskStore is the reactive task collection exposed to the presentation layer
type TaskStore interface {
	Load(ctx context.Context) error
	All() []entities.Task
	Filtered() []entities.Task
	GroupedByCategory() ([]entities.TaskCategory, map[entities.TaskCategory][]entities.Task)
	AddTask(ctx context.Context, req CreateTaskRequest) (*entities.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, req UpdateTaskRequest) (*entities.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
	ToggleCompletion(ctx context.Context, id uuid.UUID) (*entities.Task, error)
	SetFilter(filter TaskFilter)
	ClearFilters()
	CompletedCount() int
	CompletionProgress() float64
	Subscribe(fn func()) (unsubscribe func())
}

// MediaStore is the reactive media library: items plus playlists
type MediaStore interface {
	Load(ctx context.Context) error
	Items() []entities.MediaItem
	Filtered() []entities.MediaItem
	GroupedByType() ([]entities.MediaType, map[entities.MediaType][]entities.MediaItem)
	Favorites() []entities.MediaItem
	AddItem(ctx context.Context, req CreateMediaItemRequest) (*entities.MediaItem, error)
	UpdateItem(ctx context.Context, id uuid.UUID, req UpdateMediaItemRequest) (*entities.MediaItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	ToggleFavorite(ctx context.Context, id uuid.UUID) (*entities.MediaItem, error)
	Playlists() []entities.Playlist
	CreatePlaylist(ctx context.Context, req CreatePlaylistRequest) (*entities.Playlist, error)
	UpdatePlaylist(ctx context.Context, id uuid.UUID, req UpdatePlaylistRequest) (*entities.Playlist, error)
	DeletePlaylist(ctx context.Context, id uuid.UUID) error
	AddToPlaylist(ctx context.Context, playlistID, itemID uuid.UUID) (*entities.Playlist, error)
	RemoveFromPlaylist(ctx context.Context, playlistID, itemID uuid.UUID) (*entities.Playlist, error)
	SetFilter(filter MediaFilter)
	ClearFilters()
	Subscribe(fn func()) (unsubscribe func())
}

// LearningStore is the reactive module collection plus the progress engine
type LearningStore interface {
	Load(ctx context.Context) error
	Modules() []entities.LearningModule
	Filtered() []entities.LearningModule
	GroupedByCategory() ([]entities.ModuleCategory, map[entities.ModuleCategory][]entities.LearningModule)
	GetModule(id uuid.UUID) (*entities.LearningModule, error)
	AddModule(ctx context.Context, req CreateModuleRequest) (*entities.LearningModule, error)
	DeleteModule(ctx context.Context, id uuid.UUID) error
	StartModule(ctx context.Context, id uuid.UUID) (*entities.LearningModule, error)
	CompleteLesson(ctx context.Context, lessonID uuid.UUID) (*entities.LearningModule, error)
	SubmitQuizAnswer(ctx context.Context, questionID uuid.UUID, answerIndex int) (*QuizAnswerResult, error)
	NextLesson(ctx context.Context) (*entities.Lesson, error)
	PreviousLesson(ctx context.Context) (*entities.Lesson, error)
	ActiveModule() *entities.LearningModule
	ActiveLesson() *entities.Lesson
	LessonUnlocked(moduleID uuid.UUID, index int) (bool, error)
	SetFilter(filter ModuleFilter)
	ClearFilters()
	Subscribe(fn func()) (unsubscribe func())
}

// AppStateStore owns the shared application-state record
type AppStateStore interface {
	Load(ctx context.Context) error
	State() entities.AppState
	SelectTab(ctx context.Context, tab entities.AppTab) error
	CompleteOnboarding(ctx context.Context) error
}

// Request/Response Types

// Task related types
type CreateTaskRequest struct {
	Title       string                `json:"title" validate:"required,max=200"`
	Description string                `json:"description" validate:"max=2000"`
	Priority    entities.TaskPriority `json:"priority" validate:"required"`
	Category    entities.TaskCategory `json:"category" validate:"required"`
	DueDate     *time.Time            `json:"due_date"`
}

type UpdateTaskRequest struct {
	Title       *string                `json:"title" validate:"omitempty,max=200"`
	Description *string                `json:"description" validate:"omitempty,max=2000"`
	Priority    *entities.TaskPriority `json:"priority"`
	Category    *entities.TaskCategory `json:"category"`
	DueDate     *time.Time             `json:"due_date"`
}

// Media related types
type CreateMediaItemRequest struct {
	Title       string             `json:"title" validate:"required,max=200"`
	Description string             `json:"description" validate:"max=2000"`
	Type        entities.MediaType `json:"type" validate:"required"`
	Category    string             `json:"category" validate:"max=100"`
	Rating      int                `json:"rating" validate:"min=0,max=5"`
	Icon        string             `json:"icon" validate:"max=100"`
}

type UpdateMediaItemRequest struct {
	Title       *string             `json:"title" validate:"omitempty,max=200"`
	Description *string             `json:"description" validate:"omitempty,max=2000"`
	Type        *entities.MediaType `json:"type"`
	Category    *string             `json:"category" validate:"omitempty,max=100"`
	Rating      *int                `json:"rating" validate:"omitempty,min=0,max=5"`
	Icon        *string             `json:"icon" validate:"omitempty,max=100"`
}

type CreatePlaylistRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	ColorTheme  string `json:"color_theme" validate:"max=50"`
}

type UpdatePlaylistRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	ColorTheme  *string `json:"color_theme" validate:"omitempty,max=50"`
}

// Learning related types
type CreateModuleRequest struct {
	Title       string                  `json:"title" validate:"required,max=200"`
	Description string                  `json:"description" validate:"max=2000"`
	Difficulty  entities.Difficulty     `json:"difficulty" validate:"required"`
	Category    entities.ModuleCategory `json:"category" validate:"required"`
	Lessons     []CreateLessonRequest   `json:"lessons" validate:"dive"`
}

type CreateLessonRequest struct {
	Title           string             `json:"title" validate:"required,max=200"`
	Content         string             `json:"content"`
	DurationSeconds int                `json:"duration_seconds" validate:"min=0"`
	Quiz            *CreateQuizRequest `json:"quiz"`
}

type CreateQuizRequest struct {
	Questions []CreateQuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

type CreateQuestionRequest struct {
	Text         string   `json:"text" validate:"required"`
	Options      []string `json:"options" validate:"required,min=2"`
	CorrectIndex int      `json:"correct_index" validate:"min=0"`
	Explanation  string   `json:"explanation"`
}

// QuizAnswerResult reports the outcome of a single answer submission
type QuizAnswerResult struct {
	Sealed    bool                     `json:"sealed"`
	Score     int                      `json:"score"`
	Total     int                      `json:"total"`
	Module    *entities.LearningModule `json:"module"`
	LessonID  uuid.UUID                `json:"lesson_id"`
	Answered  int                      `json:"answered"`
	Remaining int                      `json:"remaining"`
}

// TaskSummary is the aggregate view for the tasks tab header
type TaskSummary struct {
	Total              int     `json:"total"`
	Completed          int     `json:"completed"`
	CompletionProgress float64 `json:"completion_progress"`
}

// Common response envelopes
type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
