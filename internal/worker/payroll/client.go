package payroll

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"attendance.service/internal/ports/messaging"
)

// Client contract for the legacy payroll system.
type Client interface {
	RecordWorkedTime(ctx context.Context, event messaging.LedgerEvent) error
}

// HTTPClient talks to the legacy payroll API over HTTP.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient new HTTPClient
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

// RecordWorkedTime sends a closed clock-out total to the payroll API.
// The API dedupes on clockEventId, so resends after a timeout are safe.
func (c *HTTPClient) RecordWorkedTime(ctx context.Context, event messaging.LedgerEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal payroll payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create payroll request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call payroll api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("payroll api returned non-successful status code: %d", resp.StatusCode)
	}

	log.Ctx(ctx).Info().Str("worker_id", event.WorkerID).Int("worked_minutes", event.WorkedMinutes).Msg("Worked time recorded in payroll system")
	return nil
}
