package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Client fetches whole CSV exports from the upstream feed. One blocking GET
// per run; no retry, no partial reads.
type Client struct {
	httpClient *http.Client
	urlPattern string // fmt pattern with one %s for the dataset id
	logger     *slog.Logger
}

// NewClient creates a feed client for a dataset-parameterized endpoint URL.
func NewClient(urlPattern string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		urlPattern: urlPattern,
		logger:     logger,
	}
}

// Fetch retrieves the export payload for a dataset. Any transport failure or
// non-2xx status is fatal to the run.
func (c *Client) Fetch(ctx context.Context, datasetID string) ([]byte, error) {
	url := fmt.Sprintf(c.urlPattern, datasetID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch export: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("feed returned status %d: %s", resp.StatusCode, snippet)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read export body: %w", err)
	}

	c.logger.Debug("export fetched", "dataset", datasetID, "bytes", len(payload), "elapsed", time.Since(start))
	return payload, nil
}
