package commands

// Command to run a single activity session and exit. Useful for testing
// an account setup without committing to the daily schedule.

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"insta-pilot/internal/infra/config"
	logging "insta-pilot/internal/infra/log"
	"insta-pilot/internal/status"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Run one activity session and exit",
	RunE:  runSession,
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.LogError("Failed to load config", zap.Error(err))
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	orchestrator, _, client, err := buildOrchestrator(cfg, status.NewCell())
	if err != nil {
		return err
	}

	if err := client.Login(ctx); err != nil {
		logging.LogError("Login failed", zap.Error(err))
		return fmt.Errorf("login failed: %w", err)
	}

	outcome := orchestrator.RunSession(ctx)
	if outcome.Err != nil {
		return fmt.Errorf("session failed: %w", outcome.Err)
	}

	logging.LogSuccess("Session finished",
		zap.Int("likes", outcome.Likes),
		zap.Int("follows", outcome.Follows),
		zap.Int("comments", outcome.Comments),
		zap.Int("clips_watched", outcome.ClipsWatched),
		zap.Int("skipped", outcome.Skipped))
	return nil
}
