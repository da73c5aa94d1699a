// Package httptransport provides the thin outbound HTTP clients the
// Aadhaar and Account Aggregator pipelines dispatch through. Per spec.md's
// non-goals, raw outbound HTTP is an injectable transport the core depends
// on through a narrow interface — no business logic lives here, only
// request/response plumbing and the fixed per-call timeouts §5 requires.
package httptransport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// UIDAIClient dispatches Aadhaar Auth XML envelopes to the UIDAI endpoint,
// implementing aadhaar.Backend.
type UIDAIClient struct {
	baseURL string
	aua     string
	client  *http.Client
}

// NewUIDAIClient builds a client with the §5 30-second AA-family timeout
// (UIDAI shares the AA outbound budget in this deployment).
func NewUIDAIClient(baseURL, aua string, timeout time.Duration) *UIDAIClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &UIDAIClient{baseURL: baseURL, aua: aua, client: &http.Client{Timeout: timeout}}
}

// SubmitAuth POSTs envelope to "{baseURL}{aua}/{uidFirst}/{uidSecond}" with
// an XML content type, per §6.1.
func (c *UIDAIClient) SubmitAuth(ctx context.Context, uidFirst, uidSecond string, envelope []byte) ([]byte, error) {
	url := fmt.Sprintf("%s%s/%s/%s", c.baseURL, c.aua, uidFirst, uidSecond)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(envelope))
	if err != nil {
		return nil, fmt.Errorf("build uidai request: %w", err)
	}
	req.Header.Set("Content-Type", "application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dispatch uidai request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read uidai response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("uidai returned status %d", resp.StatusCode)
	}
	return body, nil
}
