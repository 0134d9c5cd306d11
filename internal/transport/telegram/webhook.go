package telegram

import (
	"context"
	"encoding/json"
	"fmt"
)

// WebhookInfo mirrors Telegram's getWebhookInfo result.
type WebhookInfo struct {
	URL                  string `json:"url"`
	HasCustomCertificate bool   `json:"has_custom_certificate"`
	PendingUpdateCount   int    `json:"pending_update_count"`
	LastErrorDate        int64  `json:"last_error_date"`
	LastErrorMessage     string `json:"last_error_message"`
}

// SetWebhook points Telegram's update delivery at url.
func (b *Bot) SetWebhook(ctx context.Context, url string) error {
	if _, err := b.bot.Raw("setWebhook", map[string]string{"url": url}); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	return nil
}

// DeleteWebhook removes the webhook registration so the bot can be moved
// or switched to polling.
func (b *Bot) DeleteWebhook(ctx context.Context, dropPending bool) error {
	payload := map[string]bool{"drop_pending_updates": dropPending}
	if _, err := b.bot.Raw("deleteWebhook", payload); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	return nil
}

// WebhookState reads the current webhook registration from Telegram.
func (b *Bot) WebhookState(ctx context.Context) (*WebhookInfo, error) {
	data, err := b.bot.Raw("getWebhookInfo", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read webhook info: %w", err)
	}

	var resp struct {
		Result WebhookInfo `json:"result"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode webhook info: %w", err)
	}
	return &resp.Result, nil
}
