package event

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/lumocms/lumo-backend/pkg/logger"
)

// LogSubscriber writes every event to the structured log
type LogSubscriber struct{}

func (LogSubscriber) Notify(ev Event) {
	logger.GetLogger().Info().
		Str("event", ev.Name).
		Str("content_id", ev.ContentID).
		Uint64("schema_id", ev.SchemaID).
		Str("status", ev.Status).
		Msg("content event")
}

// WebhookSubscriber POSTs events as JSON to a configured URL.
// Failures are logged and otherwise ignored.
type WebhookSubscriber struct {
	URL    string
	Client *http.Client
}

// NewWebhookSubscriber creates a webhook subscriber with a bounded timeout
func NewWebhookSubscriber(url string) *WebhookSubscriber {
	return &WebhookSubscriber{
		URL:    url,
		Client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (w *WebhookSubscriber) Notify(ev Event) {
	body, err := json.Marshal(ev)
	if err != nil {
		return
	}

	resp, err := w.Client.Post(w.URL, "application/json", bytes.NewReader(body))
	if err != nil {
		logger.GetLogger().Warn().
			Err(err).
			Str("event", ev.Name).
			Str("url", w.URL).
			Msg("webhook delivery failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		logger.GetLogger().Warn().
			Int("status", resp.StatusCode).
			Str("event", ev.Name).
			Str("url", w.URL).
			Msg("webhook delivery rejected")
	}
}
