package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ArticleComposer/internal/ports"
)

const defaultAPIBase = "https://api.telegram.org"

// Notifier sends run notices to a Telegram chat via bot API.
type Notifier struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier.
func NewNotifier(botToken, chatID string) *Notifier {
	return &Notifier{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  defaultAPIBase,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// Notify posts a Markdown message to Telegram.
func (n *Notifier) Notify(ctx context.Context, notice ports.Notice) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimSuffix(n.apiBase, "/"), n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", formatNotice(notice))
	form.Set("parse_mode", "Markdown")
	if notice.Level != ports.NoticeError {
		form.Set("disable_notification", "true")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}

func formatNotice(notice ports.Notice) string {
	marker := "ℹ️"
	if notice.Level == ports.NoticeError {
		marker = "⚠️"
	}
	if notice.Title == "" {
		return fmt.Sprintf("%s %s", marker, notice.Message)
	}
	return fmt.Sprintf("%s *%s*\n%s", marker, notice.Title, notice.Message)
}
