package services_test

import (
	"path/filepath"
	"testing"

	"github.com/horizonapp/core/internal/adapters/repository"
	"github.com/horizonapp/core/internal/infrastructure/config"
	"github.com/horizonapp/core/internal/infrastructure/storage"
)

func newTestStore(t *testing.T) *storage.BoltStore {
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

func newTaskRepo(t *testing.T) *repository.TaskRepository {
	t.Helper()
	return repository.NewTaskRepository(newTestStore(t))
}
