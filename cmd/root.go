package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gtr-comics/comic-grader/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "comic-grader",
	Short: "AI-assisted comic book grading",
	Long:  "Grades comic books from photographs using vision AI providers, normalizes the responses into CGC-style reports, and stores them for review and export.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
