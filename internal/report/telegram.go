package report

import (
	"fmt"
	"strconv"

	"insta-pilot/internal/bot"
	"insta-pilot/internal/infra/log"
	"insta-pilot/internal/ledger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// TelegramReporter sends the end-of-routine summary to a Telegram chat,
// attaching the activity chart when one can be rendered.
type TelegramReporter struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	ledger  *ledger.Ledger
	dataDir string
}

// NewTelegramReporter authorizes the bot API. chatID is the numeric chat
// id as a string, matching how it arrives from the environment.
func NewTelegramReporter(token, chatID string, led *ledger.Ledger, dataDir string) (*TelegramReporter, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize report bot: %w", err)
	}

	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid report chat id %q: %w", chatID, err)
	}

	log.LogSuccess("Report bot authorized", zap.String("username", api.Self.UserName))

	return &TelegramReporter{
		bot:     api,
		chatID:  id,
		ledger:  led,
		dataDir: dataDir,
	}, nil
}

// SendDailyReport delivers the summary, preferring a photo message with
// the chart and falling back to plain text.
func (r *TelegramReporter) SendDailyReport(summary bot.RoutineSummary) error {
	text := formatSummary(summary)

	chartPath, err := GenerateActivityChart(r.ledger, r.dataDir)
	if err != nil {
		log.LogWarn("Failed to generate activity chart, sending text only", zap.Error(err))
		msg := tgbotapi.NewMessage(r.chatID, text)
		msg.ParseMode = tgbotapi.ModeHTML
		if _, err := r.bot.Send(msg); err != nil {
			return fmt.Errorf("failed to send report message: %w", err)
		}
		return nil
	}

	photo := tgbotapi.NewPhoto(r.chatID, tgbotapi.FilePath(chartPath))
	photo.Caption = text
	photo.ParseMode = tgbotapi.ModeHTML

	if _, err := r.bot.Send(photo); err != nil {
		log.LogWarn("Failed to send report photo, falling back to text", zap.Error(err))
		msg := tgbotapi.NewMessage(r.chatID, text)
		msg.ParseMode = tgbotapi.ModeHTML
		if _, sendErr := r.bot.Send(msg); sendErr != nil {
			return fmt.Errorf("failed to send report message: %w", sendErr)
		}
	}

	return nil
}

func formatSummary(s bot.RoutineSummary) string {
	message := "<b>Daily routine report</b>\n\n"
	message += fmt.Sprintf("🕑 %s — %s\n", s.Start.Format("15:04"), s.End.Format("15:04"))
	message += fmt.Sprintf("🔄 Sessions: %d", s.Sessions)
	if s.FailedCount > 0 {
		message += fmt.Sprintf(" (%d failed)", s.FailedCount)
	}
	message += "\n"
	message += fmt.Sprintf("❤️ Likes: %d\n", s.Likes)
	message += fmt.Sprintf("💬 Comments: %d\n", s.Comments)
	message += fmt.Sprintf("📺 Clips watched: %d\n", s.ClipsWatched)
	message += fmt.Sprintf("👤 Follows: %d\n", s.Follows)
	message += fmt.Sprintf("🚫 Unfollows: %d\n", s.Unfollows)
	if s.Skipped > 0 {
		message += fmt.Sprintf("⚠️ Skipped actions: %d\n", s.Skipped)
	}
	return message
}
