// Package notify delivers finished transcripts to external destinations.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram uploads transcript documents to a Telegram chat.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *slog.Logger
}

type TelegramConfig struct {
	Token  string
	ChatID int64
	Logger *slog.Logger
}

func NewTelegram(cfg TelegramConfig) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	cfg.Logger.Info("telegram bot connected", "username", bot.Self.UserName, "id", bot.Self.ID)
	return &Telegram{bot: bot, chatID: cfg.ChatID, logger: cfg.Logger}, nil
}

// SendTranscript uploads the file at path as a document with a caption.
// chatID zero falls back to the configured chat.
func (t *Telegram) SendTranscript(ctx context.Context, chatID int64, path, caption string) error {
	if chatID == 0 {
		chatID = t.chatID
	}
	if chatID == 0 {
		return fmt.Errorf("telegram: no chat id configured")
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = caption

	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.bot.Send(doc); err != nil {
		return fmt.Errorf("telegram send document: %w", err)
	}
	t.logger.Info("transcript sent", "chat_id", chatID, "file", path)
	return nil
}
