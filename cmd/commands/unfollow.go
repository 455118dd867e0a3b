package commands

// Command to run the unfollow-non-followers routine once and exit.

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

var unfollowCmd = &cobra.Command{
	Use:   "unfollow",
	Short: "Unfollow non-reciprocal follows once and exit",
	Long:  `Compare the follow and follower sets, unfollow accounts that do not follow back when the ledger deems them eligible, then exit.`,
	RunE:  runUnfollow,
}

func runUnfollow(cmd *cobra.Command, args []string) error {
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

	unfollowed, err := orchestrator.UnfollowNonFollowers(ctx, cfg.Activity.UnfollowDays, cfg.Activity.MaxUnfollows)
	if err != nil {
		return fmt.Errorf("unfollow routine failed: %w", err)
	}

	logging.LogSuccess("Unfollow routine finished", zap.Int("unfollowed", unfollowed))
	return nil
}
