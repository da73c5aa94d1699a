package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// AAClient dispatches Account Aggregator FI-request and FI-fetch calls,
// implementing aa.Backend. The detached JWS signature is attached as a
// header value; this client carries the FIU credentials (client_api_key,
// fiu_entity_id) the AA requires on every call, so the pipeline above it
// never sees them.
type AAClient struct {
	requestURL  string
	fetchURL    string
	apiKey      string
	fiuEntityID string
	client      *http.Client
}

// NewAAClient builds a client with the §5 30-second AA outbound timeout.
func NewAAClient(requestURL, fetchURL, apiKey, fiuEntityID string, timeout time.Duration) *AAClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AAClient{
		requestURL:  requestURL,
		fetchURL:    fetchURL,
		apiKey:      apiKey,
		fiuEntityID: fiuEntityID,
		client:      &http.Client{Timeout: timeout},
	}
}

// SubmitFIRequest POSTs the signed FI-request payload to the AA's
// "/FI/request" endpoint.
func (c *AAClient) SubmitFIRequest(ctx context.Context, payload map[string]any, jwsSignature string) (map[string]any, error) {
	return c.post(ctx, c.requestURL, payload, jwsSignature)
}

// SubmitFIFetch POSTs the signed fetch payload to the AA's "/FI/fetch"
// endpoint.
func (c *AAClient) SubmitFIFetch(ctx context.Context, payload map[string]any, jwsSignature string) (map[string]any, error) {
	return c.post(ctx, c.fetchURL, payload, jwsSignature)
}

func (c *AAClient) post(ctx context.Context, url string, payload map[string]any, jwsSignature string) (map[string]any, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode aa payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("build aa request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if jwsSignature != "" {
		req.Header.Set("x-jws-signature", jwsSignature)
	}
	if c.apiKey != "" {
		req.Header.Set("client_api_key", c.apiKey)
	}
	if c.fiuEntityID != "" {
		req.Header.Set("fiu_entity_id", c.fiuEntityID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dispatch aa request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read aa response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("aa endpoint returned status %d", resp.StatusCode)
	}

	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode aa response: %w", err)
	}
	return out, nil
}
