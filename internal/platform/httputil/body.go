package httputil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// MaxBodyBytes bounds request body size for JSON decoding of operation inputs.
const MaxBodyBytes = 1 << 20 // 1 MiB

// DecodeJSON reads and decodes a JSON request body into dst, capping the
// read at MaxBodyBytes to bound memory use from hostile clients.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("empty request body")
	}
	limited := io.LimitReader(r.Body, MaxBodyBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(data) > MaxBodyBytes {
		return fmt.Errorf("request body exceeds %d bytes", MaxBodyBytes)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}
