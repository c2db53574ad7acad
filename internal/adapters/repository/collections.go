package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/horizonapp/core/internal/domain/entities"
	"github.com/horizonapp/core/internal/ports"
)

// Fixed document keys in the key-value store. One entry per collection; the
// media library holds two sub-entries.
const (
	keyTasks      = "tasks"
	keyMediaItems = "media_items"
	keyPlaylists  = "playlists"
	keyModules    = "learning_modules"
	keyAppState   = "app_state"
	keyOnboarding = "onboarding_completed"
)

// DecodeError marks a stored document that could not be deserialized.
// Callers treat it as an empty collection rather than a fatal failure.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode document %q: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecodeError reports whether err carries a DecodeError
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

func loadDocument[T any](ctx context.Context, kv ports.KeyValueStore, key string) ([]T, error) {
	data, err := kv.Get(ctx, key)
	if errors.Is(err, entities.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read document %q: %w", key, err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &DecodeError{Key: key, Err: err}
	}
	return records, nil
}

func saveDocument[T any](ctx context.Context, kv ports.KeyValueStore, key string, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode document %q: %w", key, err)
	}
	if err := kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("write document %q: %w", key, err)
	}
	return nil
}

// TaskRepository persists the task collection
type TaskRepository struct {
	kv ports.KeyValueStore
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(kv ports.KeyValueStore) *TaskRepository {
	return &TaskRepository{kv: kv}
}

func (r *TaskRepository) Load(ctx context.Context) ([]entities.Task, error) {
	return loadDocument[entities.Task](ctx, r.kv, keyTasks)
}

func (r *TaskRepository) Save(ctx context.Context, tasks []entities.Task) error {
	return saveDocument(ctx, r.kv, keyTasks, tasks)
}

// MediaRepository persists the media library: items and playlists as two
// independent sub-entries.
type MediaRepository struct {
	kv ports.KeyValueStore
}

// NewMediaRepository creates a new media repository
func NewMediaRepository(kv ports.KeyValueStore) *MediaRepository {
	return &MediaRepository{kv: kv}
}

func (r *MediaRepository) LoadItems(ctx context.Context) ([]entities.MediaItem, error) {
	return loadDocument[entities.MediaItem](ctx, r.kv, keyMediaItems)
}

func (r *MediaRepository) SaveItems(ctx context.Context, items []entities.MediaItem) error {
	return saveDocument(ctx, r.kv, keyMediaItems, items)
}

func (r *MediaRepository) LoadPlaylists(ctx context.Context) ([]entities.Playlist, error) {
	return loadDocument[entities.Playlist](ctx, r.kv, keyPlaylists)
}

func (r *MediaRepository) SavePlaylists(ctx context.Context, playlists []entities.Playlist) error {
	return saveDocument(ctx, r.kv, keyPlaylists, playlists)
}

// LearningRepository persists the learning module collection
type LearningRepository struct {
	kv ports.KeyValueStore
}

// NewLearningRepository creates a new learning repository
func NewLearningRepository(kv ports.KeyValueStore) *LearningRepository {
	return &LearningRepository{kv: kv}
}

func (r *LearningRepository) Load(ctx context.Context) ([]entities.LearningModule, error) {
	return loadDocument[entities.LearningModule](ctx, r.kv, keyModules)
}

func (r *LearningRepository) Save(ctx context.Context, modules []entities.LearningModule) error {
	return saveDocument(ctx, r.kv, keyModules, modules)
}

// AppStateRepository persists the application-state record. The onboarding
// flag lives under its own key so the startup path can read it alone.
type AppStateRepository struct {
	kv ports.KeyValueStore
}

// NewAppStateRepository creates a new app state repository
func NewAppStateRepository(kv ports.KeyValueStore) *AppStateRepository {
	return &AppStateRepository{kv: kv}
}

func (r *AppStateRepository) Load(ctx context.Context) (*entities.AppState, error) {
	data, err := r.kv.Get(ctx, keyAppState)
	if errors.Is(err, entities.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read document %q: %w", keyAppState, err)
	}

	var state entities.AppState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, &DecodeError{Key: keyAppState, Err: err}
	}
	return &state, nil
}

func (r *AppStateRepository) Save(ctx context.Context, state *entities.AppState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode document %q: %w", keyAppState, err)
	}
	if err := r.kv.Set(ctx, keyAppState, data); err != nil {
		return fmt.Errorf("write document %q: %w", keyAppState, err)
	}
	return nil
}

func (r *AppStateRepository) OnboardingCompleted(ctx context.Context) (bool, error) {
	completed, err := r.kv.GetBool(ctx, keyOnboarding)
	if errors.Is(err, entities.ErrKeyNotFound) {
		return false, nil
	}
	return completed, err
}

func (r *AppStateRepository) SetOnboardingCompleted(ctx context.Context, completed bool) error {
	return r.kv.SetBool(ctx, keyOnboarding, completed)
}
