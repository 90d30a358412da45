// Package telegram is a minimal client for the two Bot API calls the digest
// needs: sendMessage and sendPhoto.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"pharmadigest/internal/retry"
)

const defaultAPIBase = "https://api.telegram.org"

// Telegram rejects captions longer than 1024 chars; stay under it.
const captionMaxRunes = 1000

type Client struct {
	token   string
	chatID  string
	baseURL string
	client  *http.Client
	retry   retry.Config
}

func NewClient(token, chatID string, attempts int, delay time.Duration) *Client {
	return &Client{
		token:   token,
		chatID:  chatID,
		baseURL: defaultAPIBase,
		client:  &http.Client{Timeout: 30 * time.Second},
		retry: retry.Config{
			MaxAttempts: attempts,
			Delay:       delay,
			Backoff:     true,
		},
	}
}

// SendMessage posts the digest as an HTML message with link previews off.
// It retries with backoff; a final failure is returned to the caller, since
// a lost digest means the whole run delivered nothing.
func (c *Client) SendMessage(ctx context.Context, text string) error {
	payload := map[string]interface{}{
		"chat_id":                  c.chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}

	return retry.Do(ctx, c.retry, func() error {
		return c.post("sendMessage", payload)
	})
}

// SendPhoto posts an image by URL with a short HTML caption. Best-effort: a
// failure is returned for logging but callers are expected to ignore it.
func (c *Client) SendPhoto(ctx context.Context, photoURL, caption string) error {
	if runes := []rune(caption); len(runes) > captionMaxRunes {
		caption = string(runes[:captionMaxRunes])
	}

	payload := map[string]interface{}{
		"chat_id":    c.chatID,
		"photo":      photoURL,
		"caption":    caption,
		"parse_mode": "HTML",
	}

	return retry.Do(ctx, c.retry, func() error {
		return c.post("sendPhoto", payload)
	})
}

func (c *Client) post(method string, payload map[string]interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	resp, err := c.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Debug("closing response body", "err", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API error: status %d", resp.StatusCode)
	}
	return nil
}
