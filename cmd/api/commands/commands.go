package commands

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/horizonapp/core/internal/adapters/repository"
	"github.com/horizonapp/core/internal/application/services"
	"github.com/horizonapp/core/internal/infrastructure/config"
	"github.com/horizonapp/core/internal/infrastructure/logger"
	"github.com/horizonapp/core/internal/infrastructure/server"
	"github.com/horizonapp/core/internal/infrastructure/storage"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Horizon API server",
		Long:  "Start the Horizon API server with all configured routes and middleware",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewSeedCommand creates the seed command. It wipes the persisted
// collections so the next load re-runs the first-run sample bootstrap.
func NewSeedCommand() *cobra.Command {
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Sample data commands",
		Long:  "Reset the persisted collections to the first-run sample data",
	}

	seedCmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Wipe all collections and re-seed sample data",
		Run: func(cmd *cobra.Command, args []string) {
			runSeedReset()
		},
	})

	return seedCmd
}

// NewStateCommand creates the state inspection command
func NewStateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Print the persisted application state",
		Run: func(cmd *cobra.Command, args []string) {
			showState()
		},
	}
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print Horizon version",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				fmt.Println("Horizon Core (unknown version)")
				return
			}
			fmt.Printf("Horizon Core v%s\n", cfg.App.Version)
		},
	}
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		appLogger.Fatal("Failed to open storage", "error", err)
	}
	defer store.Close()

	srv, err := server.New(cfg, store, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize server", "error", err)
	}

	appLogger.Info("Starting Horizon API server",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
	)

	if err := srv.Start(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		appLogger.Fatal("Server failed to start", "error", err)
	}
}

func runSeedReset() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	for _, key := range []string{"tasks", "media_items", "playlists", "learning_modules"} {
		if err := store.Delete(ctx, key); err != nil {
			log.Fatalf("Failed to wipe collection %q: %v", key, err)
		}
	}

	// Loading each store against the now-empty documents re-runs the
	// first-run bootstrap and persists the samples.
	taskStore := services.NewTaskService(repository.NewTaskRepository(store), appLogger, true)
	mediaStore := services.NewMediaService(repository.NewMediaRepository(store), appLogger, true)
	learningStore := services.NewLearningService(repository.NewLearningRepository(store), appLogger, true)

	if err := taskStore.Load(ctx); err != nil {
		log.Fatalf("Failed to seed tasks: %v", err)
	}
	if err := mediaStore.Load(ctx); err != nil {
		log.Fatalf("Failed to seed media items: %v", err)
	}
	if err := learningStore.Load(ctx); err != nil {
		log.Fatalf("Failed to seed learning modules: %v", err)
	}

	fmt.Printf("Seeded %d tasks, %d media items, %d learning modules\n",
		len(taskStore.All()), len(mediaStore.Items()), len(learningStore.Modules()))
}

func showState() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer store.Close()

	stateStore := services.NewAppStateService(repository.NewAppStateRepository(store), appLogger)
	if err := stateStore.Load(context.Background()); err != nil {
		log.Fatalf("Failed to load state: %v", err)
	}

	state := stateStore.State()
	fmt.Printf("Selected tab:         %s\n", state.SelectedTab)
	fmt.Printf("Onboarding completed: %t\n", state.OnboardingCompleted)
}
