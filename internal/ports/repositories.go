package ports

import (
	"context"

	"github.com/horizonapp/core/internal/domain/entities"
)

// KeyValueStore is the persistence surface consumed by the collection
// repositories: flat byte and boolean entries under fixed keys.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	GetBool(ctx context.Context, key string) (bool, error)
	SetBool(ctx context.Context, key string, value bool) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// TaskRepository persists the task collection as a whole document
type TaskRepository interface {
	Load(ctx context.Context) ([]entities.Task, error)
	Save(ctx context.Context, tasks []entities.Task) error
}

// MediaRepository persists the media library as two sub-entries: the item
// collection and the playlist collection.
type MediaRepository interface {
	LoadItems(ctx context.Context) ([]entities.MediaItem, error)
	SaveItems(ctx context.Context, items []entities.MediaItem) error
	LoadPlaylists(ctx context.Context) ([]entities.Playlist, error)
	SavePlaylists(ctx context.Context, playlists []entities.Playlist) error
}

// LearningRepository persists the learning module collection
type LearningRepository interface {
	Load(ctx context.Context) ([]entities.LearningModule, error)
	Save(ctx context.Context, modules []entities.LearningModule) error
}

// AppStateRepository persists the application-state record and the
// onboarding flag (the flag lives under its own key, read at startup).
type AppStateRepository interface {
	Load(ctx context.Context) (*entities.AppState, error)
	Save(ctx context.Context, state *entities.AppState) error
	OnboardingCompleted(ctx context.Context) (bool, error)
	SetOnboardingCompleted(ctx context.Context, completed bool) error
}

// Filter types for derived collection views. A nil field matches everything;
// an empty query matches everything.
type TaskFilter struct {
	Category *entities.TaskCategory
	Priority *entities.TaskPriority
	Query    string
}

type MediaFilter struct {
	Type     *entities.MediaType
	Category *string
	Query    string
}

type ModuleFilter struct {
	Category   *entities.ModuleCategory
	Difficulty *entities.Difficulty
	Query      string
}
