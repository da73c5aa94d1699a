package aa

import "context"

// Backend is the injectable capability for the two AA network calls the
// pipeline makes. Implementations carry their own HTTP client, base URL and
// credentials; the pipeline never constructs outbound requests itself.
type Backend interface {
	SubmitFIRequest(ctx context.Context, payload map[string]any, jwsSignature string) (map[string]any, error)
	SubmitFIFetch(ctx context.Context, payload map[string]any, jwsSignature string) (map[string]any, error)
}
