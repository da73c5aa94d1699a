package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUIDAIClientSubmitAuth(t *testing.T) {
	var gotPath, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`<AuthRes ret="y"/>`))
	}))
	defer server.Close()

	client := NewUIDAIClient(server.URL, "/2.5/public/aua-code", time.Second)
	body, err := client.SubmitAuth(context.Background(), "1234", "56789012", []byte(`<AuthReq/>`))
	require.NoError(t, err)
	assert.Equal(t, `<AuthRes ret="y"/>`, string(body))
	assert.Equal(t, "/2.5/public/aua-code/1234/56789012", gotPath)
	assert.Equal(t, "application/xml", gotContentType)
}

func TestUIDAIClientSubmitAuthUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewUIDAIClient(server.URL, "/2.5/public/aua-code", time.Second)
	_, err := client.SubmitAuth(context.Background(), "1234", "56789012", []byte(`<AuthReq/>`))
	assert.Error(t, err)
}

func TestAAClientSubmitFIRequestAndFetch(t *testing.T) {
	var gotSignature, gotAPIKey, gotFIUEntityID string
	requestServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSignature = r.Header.Get("x-jws-signature")
		gotAPIKey = r.Header.Get("client_api_key")
		gotFIUEntityID = r.Header.Get("fiu_entity_id")
		json.NewEncoder(w).Encode(map[string]any{"sessionId": "sess-123"})
	}))
	defer requestServer.Close()

	fetchServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"FI": []any{}})
	}))
	defer fetchServer.Close()

	client := NewAAClient(requestServer.URL, fetchServer.URL, "api-key-1", "fiu-1", time.Second)

	reqOut, err := client.SubmitFIRequest(context.Background(), map[string]any{"txnid": "t1"}, "sig-123")
	require.NoError(t, err)
	assert.Equal(t, "sess-123", reqOut["sessionId"])
	assert.Equal(t, "sig-123", gotSignature)
	assert.Equal(t, "api-key-1", gotAPIKey)
	assert.Equal(t, "fiu-1", gotFIUEntityID)

	fetchOut, err := client.SubmitFIFetch(context.Background(), map[string]any{"sessionId": "sess-123"}, "sig-456")
	require.NoError(t, err)
	assert.Contains(t, fetchOut, "FI")
}

func TestAAClientUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewAAClient(server.URL, server.URL, "", "", time.Second)
	_, err := client.SubmitFIRequest(context.Background(), map[string]any{}, "")
	assert.Error(t, err)
}
