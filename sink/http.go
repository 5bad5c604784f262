package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultHTTPTimeout = 5 * time.Second

// HTTPSink posts each batch of records as a JSON array to a remote
// logging endpoint
type HTTPSink struct {
	// url is the endpoint records are posted to
	url string
	// client is the HTTP client used for posting
	client *http.Client
}

// NewHTTPSink creates a sink posting batches to the given URL.  A nil
// client uses a default with a short timeout so a slow endpoint cannot
// back up the queue indefinitely.
func NewHTTPSink(url string, client *http.Client) *HTTPSink {

	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}

	return &HTTPSink{
		url:    url,
		client: client,
	}
}

// Write posts the batch as JSON, any non 2xx response is an error
func (h *HTTPSink) Write(ctx context.Context, records []Record) error {

	body, err := json.Marshal(records)

	if err != nil {
		return fmt.Errorf("error encoding records: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))

	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)

	if err != nil {
		return fmt.Errorf("error posting records: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("logging endpoint returned status %d", resp.StatusCode)
	}

	return nil
}
