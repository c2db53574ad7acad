package repository_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/horizonapp/core/internal/adapters/repository"
	"github.com/horizonapp/core/internal/domain/entities"
	"github.com/horizonapp/core/internal/infrastructure/config"
	"github.com/horizonapp/core/internal/infrastructure/storage"
)

func newKV(t *testing.T) *storage.BoltStore {
	t.Helper()

	store, err := storage.Open(config.StorageConfig{
		Path:   filepath.Join(t.TempDir(), "horizon.db"),
		Bucket: "collections",
	})
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close storage: %v", err)
		}
	})
	return store
}

func TestTaskDocumentRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewTaskRepository(newKV(t))

	tasks := []entities.Task{
		{
			ID:       uuid.New(),
			Title:    "Write report",
			Priority: entities.TaskPriorityHigh,
			Category: entities.TaskCategoryBusiness,
		},
	}
	if err := repo.Save(ctx, tasks); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != tasks[0].ID || loaded[0].Title != "Write report" {
		t.Fatalf("unexpected round trip result: %+v", loaded)
	}
}

func TestLoadMissingDocumentIsNil(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewTaskRepository(newKV(t))

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load missing document: %v", err)
	}
	if loaded != nil {
		t.Fatalf("missing document must load as nil, got %+v", loaded)
	}
}

func TestLoadMalformedDocumentIsDecodeError(t *testing.T) {
	ctx := context.Background()
	kv := newKV(t)
	if err := kv.Set(ctx, "tasks", []byte("{broken")); err != nil {
		t.Fatalf("write garbage: %v", err)
	}

	repo := repository.NewTaskRepository(kv)
	_, err := repo.Load(ctx)
	if err == nil {
		t.Fatal("expected an error for a malformed document")
	}
	if !repository.IsDecodeError(err) {
		t.Fatalf("expected a decode error, got %v", err)
	}
}

func TestSaveNilWritesEmptyDocument(t *testing.T) {
	ctx := context.Background()
	kv := newKV(t)
	repo := repository.NewTaskRepository(kv)

	if err := repo.Save(ctx, nil); err != nil {
		t.Fatalf("save nil: %v", err)
	}
	data, err := kv.Get(ctx, "tasks")
	if err != nil {
		t.Fatalf("get raw document: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("nil collection must persist as an empty array, got %s", data)
	}
}

func TestMediaDocumentsAreIndependent(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMediaRepository(newKV(t))

	items := []entities.MediaItem{{ID: uuid.New(), Title: "Track", Type: entities.MediaTypeMusic}}
	if err := repo.SaveItems(ctx, items); err != nil {
		t.Fatalf("save items: %v", err)
	}

	playlists, err := repo.LoadPlaylists(ctx)
	if err != nil {
		t.Fatalf("load playlists: %v", err)
	}
	if playlists != nil {
		t.Fatalf("saving items must not touch the playlist document, got %+v", playlists)
	}

	loaded, err := repo.LoadItems(ctx)
	if err != nil {
		t.Fatalf("load items: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != items[0].ID {
		t.Fatalf("unexpected items round trip: %+v", loaded)
	}
}

func TestLearningDocumentPreservesNestedQuizState(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLearningRepository(newKV(t))

	answer := 1
	modules := []entities.LearningModule{
		{
			ID:       uuid.New(),
			Title:    "Go Fundamentals",
			Category: entities.ModuleCategoryProgramming,
			Lessons: []entities.Lesson{
				{
					ID: uuid.New(),
					Quiz: &entities.Quiz{
						ID: uuid.New(),
						Questions: []entities.Question{
							{
								ID:           uuid.New(),
								Options:      []string{"a", "b"},
								CorrectIndex: 1,
								UserAnswer:   &answer,
							},
						},
					},
				},
			},
		},
	}
	if err := repo.Save(ctx, modules); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	question := loaded[0].Lessons[0].Quiz.Questions[0]
	if question.UserAnswer == nil || *question.UserAnswer != 1 {
		t.Fatalf("user answer must survive the round trip, got %+v", question.UserAnswer)
	}
}

func TestAppStateDocument(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewAppStateRepository(newKV(t))

	state, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load missing state: %v", err)
	}
	if state != nil {
		t.Fatalf("missing state must load as nil, got %+v", state)
	}

	completed, err := repo.OnboardingCompleted(ctx)
	if err != nil {
		t.Fatalf("read missing onboarding flag: %v", err)
	}
	if completed {
		t.Fatal("missing onboarding flag must read as false")
	}

	if err := repo.Save(ctx, &entities.AppState{SelectedTab: entities.AppTabMedia}); err != nil {
		t.Fatalf("save state: %v", err)
	}
	if err := repo.SetOnboardingCompleted(ctx, true); err != nil {
		t.Fatalf("set onboarding flag: %v", err)
	}

	state, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if state.SelectedTab != entities.AppTabMedia {
		t.Fatalf("expected media tab, got %q", state.SelectedTab)
	}
	completed, err = repo.OnboardingCompleted(ctx)
	if err != nil || !completed {
		t.Fatalf("expected onboarding completed, got %v err=%v", completed, err)
	}
}
