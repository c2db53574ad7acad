package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/horizonapp/core/internal/adapters/repository"
	"github.com/horizonapp/core/internal/domain/entities"
	"github.com/horizonapp/core/internal/infrastructure/logger"
	"github.com/horizonapp/core/internal/ports"
)

// AppStateService owns the shared application-state record: the selected
// tab and the onboarding flag. It replaces the ambient process-wide
// singleton the feature areas used to reach into.
type AppStateService struct {
	mu       sync.RWMutex
	state    entities.AppState
	repo     ports.AppStateRepository
	logger   *logger.Logger
	notifier *notifier
}

// NewAppStateService creates a new app state service
func NewAppStateService(repo ports.AppStateRepository, appLogger *logger.Logger) *AppStateService {
	return &AppStateService{
		repo:     repo,
		logger:   appLogger.WithComponent("app_state"),
		notifier: newNotifier(),
	}
}

// Load reads the persisted state. Missing or malformed documents fall back
// to the defaults (tasks tab, onboarding pending); the onboarding flag is
// read from its dedicated key.
func (s *AppStateService) Load(ctx context.Context) error {
	state, err := s.repo.Load(ctx)
	if err != nil {
		if !repository.IsDecodeError(err) {
			return fmt.Errorf("load app state: %w", err)
		}
		s.logger.Warnw("App state document malformed, using defaults", "error", err.Error())
		state = nil
	}
	if state == nil {
		state = &entities.AppState{SelectedTab: entities.AppTabTasks}
	}

	completed, err := s.repo.OnboardingCompleted(ctx)
	if err != nil {
		return fmt.Errorf("load onboarding flag: %w", err)
	}
	state.OnboardingCompleted = completed

	s.mu.Lock()
	s.state = *state
	s.mu.Unlock()
	return nil
}

// State returns the current application state
func (s *AppStateService) State() entities.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SelectTab switches the selected tab and persists the state
func (s *AppStateService) SelectTab(ctx context.Context, tab entities.AppTab) error {
	s.mu.Lock()
	s.state.SelectedTab = tab
	snapshot := s.state
	s.mu.Unlock()

	s.notifier.notify()

	if err := s.repo.Save(ctx, &snapshot); err != nil {
		s.logger.LogPersistFailure("app_state", err)
		return fmt.Errorf("persist app state: %w", err)
	}
	return nil
}

// CompleteOnboarding marks onboarding done under its dedicated key
func (s *AppStateService) CompleteOnboarding(ctx context.Context) error {
	s.mu.Lock()
	s.state.OnboardingCompleted = true
	s.mu.Unlock()

	s.notifier.notify()

	if err := s.repo.SetOnboardingCompleted(ctx, true); err != nil {
		s.logger.LogPersistFailure("app_state", err)
		return fmt.Errorf("persist onboarding flag: %w", err)
	}
	s.logger.Infow("Onboarding completed")
	return nil
}

// Subscribe registers a change listener and returns an unsubscribe func
func (s *AppStateService) Subscribe(fn func()) func() {
	return s.notifier.subscribe(fn)
}
