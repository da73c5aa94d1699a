package httputil

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSONHappyPath(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"aadhaar":"123456789012"}`))
	var dst struct {
		Aadhaar string `json:"aadhaar"`
	}
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, "123456789012", dst.Aadhaar)
}

func TestDecodeJSONRejectsOversizedBody(t *testing.T) {
	huge := strings.Repeat("a", MaxBodyBytes+10)
	r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"x":"`+huge+`"}`))
	var dst map[string]interface{}
	assert.Error(t, DecodeJSON(r, &dst))
}

func TestDecodeJSONEmptyBodyIsNoOp(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(""))
	var dst map[string]interface{}
	assert.NoError(t, DecodeJSON(r, &dst))
}
