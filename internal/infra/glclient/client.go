// Package glclient delivers posting events to the general ledger service
// over HTTP. Calls go through a circuit breaker and retry with backoff; a
// bulkhead caps concurrent deliveries so a slow GL cannot exhaust the
// process.
package glclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/abreu/savings-core-go/internal/domain"
	"github.com/abreu/savings-core-go/internal/infra/resilience"
)

// Client implements port.PostingPublisher against a GL HTTP endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	bulkhead   *resilience.Bulkhead
	retryCfg   resilience.Config
	logger     *zap.Logger
}

// New creates the GL client.
func New(baseURL string, timeout time.Duration, retryCfg resilience.Config, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    resilience.NewCircuitBreaker("gl-publisher"),
		bulkhead:   resilience.NewBulkhead(retryCfg.MaxConcurrency),
		retryCfg:   retryCfg,
		logger:     logger,
	}
}

// Publish POSTs one posting event to the GL. The breaker opens after
// repeated failures; while open, Publish fails fast.
func (c *Client) Publish(ctx context.Context, event domain.PostingEvent) error {
	if err := c.bulkhead.Acquire(ctx); err != nil {
		return err
	}
	defer c.bulkhead.Release()

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal posting event: %w", err)
	}

	return resilience.RetryWithBackoff(ctx, c.retryCfg, func() error {
		_, err := c.breaker.Execute(func() (any, error) {
			return nil, c.post(ctx, body)
		})
		return err
	})
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/journal-entries", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("gl publisher returned status %d", resp.StatusCode)
	}
	return nil
}
