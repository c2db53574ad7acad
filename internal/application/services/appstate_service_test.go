package services_test

import (
	"context"
	"testing"

	"github.com/horizonapp/core/internal/adapters/repository"
	"github.com/horizonapp/core/internal/application/services"
	"github.com/horizonapp/core/internal/domain/entities"
	"github.com/horizonapp/core/internal/infrastructure/logger"
)

func TestAppStateDefaults(t *testing.T) {
	svc := services.NewAppStateService(repository.NewAppStateRepository(newTestStore(t)), logger.NewNop())
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load app state: %v", err)
	}

	state := svc.State()
	if state.SelectedTab != entities.AppTabTasks {
		t.Fatalf("expected default tab tasks, got %q", state.SelectedTab)
	}
	if state.OnboardingCompleted {
		t.Fatal("onboarding must default to pending")
	}
}

func TestAppStateSurvivesReload(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewAppStateRepository(newTestStore(t))

	svc := services.NewAppStateService(repo, logger.NewNop())
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := svc.SelectTab(ctx, entities.AppTabLearning); err != nil {
		t.Fatalf("select tab: %v", err)
	}
	if err := svc.CompleteOnboarding(ctx); err != nil {
		t.Fatalf("complete onboarding: %v", err)
	}

	reloaded := services.NewAppStateService(repo, logger.NewNop())
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}

	state := reloaded.State()
	if state.SelectedTab != entities.AppTabLearning {
		t.Fatalf("expected learning tab after reload, got %q", state.SelectedTab)
	}
	if !state.OnboardingCompleted {
		t.Fatal("onboarding flag must survive reload")
	}
}

func TestAppStateCorruptedDocumentFallsBack(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	if err := store.Set(ctx, "app_state", []byte("][")); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	if err := store.SetBool(ctx, "onboarding_completed", true); err != nil {
		t.Fatalf("write onboarding flag: %v", err)
	}

	svc := services.NewAppStateService(repository.NewAppStateRepository(store), logger.NewNop())
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("load over malformed document: %v", err)
	}

	state := svc.State()
	if state.SelectedTab != entities.AppTabTasks {
		t.Fatalf("expected default tab over malformed document, got %q", state.SelectedTab)
	}
	if !state.OnboardingCompleted {
		t.Fatal("onboarding flag lives under its own key and must survive")
	}
}
