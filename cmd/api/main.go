package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/horizonapp/core/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "horizon",
		Short: "Horizon companion app backend",
		Long:  `Horizon is the backend core of the Horizon companion app: task management, a media library with playlists, and a learning module with quizzes, all persisted to local key-value storage.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewSeedCommand())
	rootCmd.AddCommand(commands.NewStateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
