package commands

// Command to run the full bot: status server in front, scheduler and
// activity routines in one background goroutine. Implements graceful
// shutdown on SIGINT/SIGTERM.

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"insta-pilot/internal/bot"
	"insta-pilot/internal/clients_api/instagram"
	"insta-pilot/internal/infra/config"
	logging "insta-pilot/internal/infra/log"
	"insta-pilot/internal/ledger"
	"insta-pilot/internal/report"
	"insta-pilot/internal/status"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the full bot (scheduler + status server)",
	Long:  `Run the complete bot: daily scheduled activity routines, the follow ledger, the cooldown gate and the web status endpoint.`,
	RunE:  runBot,
}

func runBot(cmd *cobra.Command, args []string) error {
	cell := status.NewCell()

	cfg, err := config.LoadConfig()
	if err != nil {
		cell.Set(status.StateMissingCredentials, err.Error())
		logging.LogError("Failed to load config", zap.Error(err))
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	orchestrator, led, _, err := buildOrchestrator(cfg, cell)
	if err != nil {
		return err
	}

	if cfg.Report.BotToken != "" && cfg.Report.ChatID != "" {
		reporter, err := report.NewTelegramReporter(cfg.Report.BotToken, cfg.Report.ChatID, led, cfg.App.DataDir)
		if err != nil {
			logging.LogWarn("Failed to initialize report bot (continuing without it)", zap.Error(err))
		} else {
			orchestrator.SetReporter(reporter)
		}
	}

	scheduler, err := bot.NewScheduler(cfg.Schedule.Times, cfg.Schedule.Timezone, orchestrator.RunDailyRoutine)
	if err != nil {
		logging.LogError("Failed to build scheduler", zap.Error(err))
		return fmt.Errorf("failed to build scheduler: %w", err)
	}

	// One background goroutine hosts everything that sleeps: the immediate
	// routine, then the scheduler loop. The status server never blocks on it.
	go func() {
		orchestrator.RunDailyRoutine(ctx)
		scheduler.Start(ctx)
	}()

	server := status.NewServer(cell)
	go func() {
		logging.LogSuccess("Status server listening", zap.Int("port", cfg.Server.Port))
		if err := server.Start(cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logging.LogError("Status server stopped", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()
	logging.LogInfo("Shutdown signal received, stopping...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.LogWarn("Status server shutdown failed", zap.Error(err))
	}

	logging.LogSuccess("Bot stopped")
	return nil
}

// buildOrchestrator wires the ledger, the API client and the orchestrator
// from configuration. A corrupt ledger file is a fatal startup error.
func buildOrchestrator(cfg *config.Config, cell *status.Cell) (*bot.Orchestrator, *ledger.Ledger, *instagram.Client, error) {
	ledgerPath := filepath.Join(cfg.App.DataDir, cfg.App.LedgerFile)
	led, err := ledger.Open(ledgerPath)
	if err != nil {
		logging.LogError("Failed to open follow ledger", zap.Error(err))
		return nil, nil, nil, fmt.Errorf("failed to open follow ledger: %w", err)
	}
	logging.LogInfo("Follow ledger loaded",
		zap.String("path", ledgerPath),
		zap.Int("records", led.Len()))

	client := instagram.NewClient(instagram.Options{
		Username:       cfg.Instagram.Username,
		Password:       cfg.Instagram.Password,
		SessionFile:    cfg.Instagram.SessionFile,
		RequestTimeout: time.Duration(cfg.Instagram.RequestTimeout) * time.Second,
		MaxRetries:     cfg.Instagram.MaxRetries,
	})

	return bot.NewOrchestrator(client, led, cell, cfg.Activity), led, client, nil
}
