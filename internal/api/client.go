package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/buscal-console/internal/common/logger"
	"github.com/buscal-console/pkg/schedule/models"
)

const defaultTimeout = 30 * time.Second

// Client is the HTTP implementation of ScheduleService against the
// transport department's REST backend.
type Client struct {
	baseURL string
	client  *http.Client
	logger  logger.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger logger.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *Client) List(ctx context.Context, query Query) (*ListResponse, error) {
	url := c.baseURL + "/schedule"
	if params := query.values().Encode(); params != "" {
		url += "?" + params
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	c.logger.Debug("Fetching schedules", "url", url)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", "url", url, "error", err)
		return nil, fmt.Errorf("executing request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("API returned error status",
			"status_code", resp.StatusCode,
			"url", url,
			"response_body", string(body))
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result ListResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	c.logger.Info("Schedules fetched",
		"count", len(result.Schedules),
		"total", result.Total,
		"page", result.Page)

	return &result, nil
}

func (c *Client) Create(ctx context.Context, createReq CreateRequest) (*models.RawScheduleRecord, error) {
	url := c.baseURL + "/schedule"

	payload, err := json.Marshal(createReq)
	if err != nil {
		return nil, fmt.Errorf("marshaling create payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", "url", url, "error", err)
		return nil, fmt.Errorf("executing request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("API returned error status",
			"status_code", resp.StatusCode,
			"url", url,
			"response_body", string(body))
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var created models.RawScheduleRecord
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	c.logger.Info("Schedule created",
		"route", createReq.RouteID,
		"bus", createReq.BusID,
		"date", createReq.Date)

	return &created, nil
}
