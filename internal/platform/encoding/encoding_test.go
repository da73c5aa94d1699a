package encoding

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBase64URLRoundTrip(t *testing.T) {
	data := []byte{0xff, 0xee, 0x00, 0x01, 0x02, 0x10, 0x20}
	encoded := Base64URLEncode(data)

	assert.NotContains(t, encoded, "=")
	assert.NotContains(t, encoded, "+")
	assert.NotContains(t, encoded, "/")

	decoded, err := Base64URLDecode(encoded)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestXMLEscapeAllFiveEntities(t *testing.T) {
	in := `a & b < c > d " e ' f`
	out := XMLEscape(in)
	assert.Equal(t, `a &amp; b &lt; c &gt; d &quot; e &apos; f`, out)
}

func TestXMLEscapeDoesNotDoubleEscapeAmpersand(t *testing.T) {
	out := XMLEscape("<tag>")
	assert.Equal(t, "&lt;tag&gt;", out)
}

func TestAadhaarTimestampUsesISTOffset(t *testing.T) {
	utcTime := time.Date(2025, 7, 20, 18, 30, 0, 0, time.UTC)
	got := AadhaarTimestamp(utcTime)
	assert.Equal(t, "2025-07-21T00:00:00+05:30", got)
}

func TestISO8601ZUsesTrailingZ(t *testing.T) {
	ts := time.Date(2025, 7, 20, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, "2025-07-20T23:59:59Z", ISO8601Z(ts))
}

func TestParseISO8601AcceptsBothDialects(t *testing.T) {
	parsed, err := ParseISO8601("2025-07-20T18:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 2025, parsed.Year())

	parsed2, err := ParseISO8601("2025-07-21T00:00:00+05:30")
	require.NoError(t, err)
	assert.Equal(t, parsed.Unix(), parsed2.Unix())
}
