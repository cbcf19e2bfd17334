package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Notifier delivers a finished activity summary to a chat channel.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

const telegramAPI = "https://api.telegram.org"

// Telegram sends messages through the Bot API to a fixed chat.
type Telegram struct {
	baseURL string
	token   string
	chatID  string
	http    *http.Client
}

func NewTelegram(token, chatID string) *Telegram {
	return &Telegram{
		baseURL: telegramAPI,
		token:   token,
		chatID:  chatID,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// WithBaseURL points the client at a different API host, used by tests.
func (t *Telegram) WithBaseURL(u string) *Telegram {
	t.baseURL = u
	return t
}

func (t *Telegram) Send(ctx context.Context, text string) error {
	payload, err := json.Marshal(map[string]string{
		"chat_id": t.chatID,
		"text":    text,
	})
	if err != nil {
		return err
	}

	u := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram: sendMessage returned %d", resp.StatusCode)
	}
	return nil
}
