package notify

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Sender delivers one rendered reminder notification to wherever the
// deployment points it.
type Sender interface {
	Send(ctx context.Context, title string, body string) error
}

// SenderFromEnv picks Telegram when both TELEGRAM_BOT_TOKEN and
// TELEGRAM_CHAT_ID are set, the process log otherwise.
func SenderFromEnv() Sender {
	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	chatID := os.Getenv("TELEGRAM_CHAT_ID")
	if botToken != "" && chatID != "" {
		return NewTelegramSender(botToken, chatID)
	}
	return LogSender{}
}

// LogSender writes notifications to the process log. It is the default
// delivery channel when no Telegram credentials are configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, title string, body string) error {
	log.Printf("notify: %s: %s", title, body)
	return nil
}

// TelegramSender posts notifications to a Telegram chat through the
// bot API.
type TelegramSender struct {
	botToken string
	chatID   string
	client   *http.Client
}

func NewTelegramSender(botToken string, chatID string) *TelegramSender {
	return &TelegramSender{
		botToken: botToken,
		chatID:   chatID,
		client: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
}

func (sender *TelegramSender) Send(ctx context.Context, title string, body string) error {
	values := url.Values{}
	values.Set("chat_id", sender.chatID)
	values.Set("text", title+"\n"+body)

	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", sender.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := sender.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram status %d: %s", resp.StatusCode, string(responseBody))
	}

	return nil
}
