package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client posts operational alerts to a Discord-compatible webhook. With an
// empty URL every call is a no-op, so callers never need to branch on
// whether alerting is configured.
type Client struct {
	webhookURL string
	httpClient *http.Client
}

type WebhookMessage struct {
	Content string  `json:"content"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

type Embed struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Color       int       `json:"color"`
	Timestamp   time.Time `json:"timestamp"`
	Fields      []Field   `json:"fields,omitempty"`
}

type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

func NewClient(webhookURL string) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) SendMessage(msg WebhookMessage) error {
	if c.webhookURL == "" {
		return nil
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook message: %w", err)
	}

	req, err := http.NewRequest("POST", c.webhookURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook request failed with status: %d", resp.StatusCode)
	}

	return nil
}

// RefreshFailed alerts that a schedule fetch attempt failed.
func (c *Client) RefreshFailed(err error) error {
	return c.SendMessage(WebhookMessage{
		Embeds: []Embed{{
			Title:       "Schedule refresh failed",
			Description: err.Error(),
			Color:       0xFF0000,
			Timestamp:   time.Now(),
		}},
	})
}

// AllRecordsRejected alerts that a fetch succeeded but not a single record
// survived normalization.
func (c *Client) AllRecordsRejected(total int, reasons map[string]int) error {
	embed := Embed{
		Title:       "All schedule records rejected",
		Description: fmt.Sprintf("%d records fetched, none valid", total),
		Color:       0xFFA500,
		Timestamp:   time.Now(),
	}
	for reason, count := range reasons {
		embed.Fields = append(embed.Fields, Field{
			Name:   reason,
			Value:  fmt.Sprintf("%d", count),
			Inline: true,
		})
	}
	return c.SendMessage(WebhookMessage{Embeds: []Embed{embed}})
}
