package notify

import (
	"context"
	"errors"
)

// ErrMissingTelegramCredential is returned when neither a per-call bot
// token nor a manager-wide default is available.
var ErrMissingTelegramCredential = errors.New("notify: missing telegram bot token")

// TelegramRequest is the normalized payload handed to a Transport.
type TelegramRequest struct {
	ChatID   int64
	Message  string
	BotToken string
}

// Telegram validates a bot token is available (per-call or manager
// default) and (if admitted) forwards the request to the Transport.
// botToken, when empty, falls back to the Manager's configured default.
func (m *Manager) Telegram(ctx context.Context, chatID int64, message string, botToken string) error {
	if botToken == "" {
		botToken = m.defaultBotToken
	}
	if botToken == "" {
		return ErrMissingTelegramCredential
	}
	if err := m.admit(); err != nil {
		return err
	}
	return m.transport.SendTelegram(ctx, TelegramRequest{ChatID: chatID, Message: message, BotToken: botToken})
}
