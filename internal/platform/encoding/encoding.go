// Package encoding provides the wire-format encoders shared by the Aadhaar
// and Account Aggregator pipelines: unpadded base64url, XML escaping, and
// the two timestamp dialects the upstream protocols expect.
package encoding

import (
	"encoding/base64"
	"strings"
	"time"
)

// ist is the fixed +05:30 offset the UIDAI Aadhaar envelope uses.
var ist = time.FixedZone("IST", 5*60*60+30*60)

// Base64URLEncode returns the unpadded (RFC 4648 §5) base64url encoding of data.
func Base64URLEncode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// Base64URLDecode decodes an unpadded base64url string back to bytes.
// It also accepts a padded input for interoperability with lenient senders.
func Base64URLDecode(s string) ([]byte, error) {
	if decoded, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return decoded, nil
	}
	return base64.URLEncoding.DecodeString(s)
}

// Base64StdEncode mirrors the standard (non-URL) base64 encoding used for
// Aadhaar XML attribute values (Skey/Hmac/Data) and AA encrypted blobs.
func Base64StdEncode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Base64StdDecode decodes a standard base64 string.
func Base64StdDecode(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(strings.TrimSpace(s))
}

// xmlEscaper replaces the five XML entities, in the order XML requires
// (ampersand first to avoid double-escaping the entities it introduces).
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// XMLEscape escapes the five XML entities for safe inclusion in an
// attribute value or text node.
func XMLEscape(s string) string {
	return xmlEscaper.Replace(s)
}

// AadhaarTimestamp formats t as the Aadhaar envelope expects:
// YYYY-MM-DDTHH:MM:SS+05:30 (IST), regardless of t's original location.
func AadhaarTimestamp(t time.Time) string {
	return t.In(ist).Format("2006-01-02T15:04:05-07:00")
}

// ISO8601Z formats t as ISO-8601 UTC with a trailing "Z", the dialect used
// everywhere outside the Aadhaar envelope.
func ISO8601Z(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

// ParseISO8601 parses either the "Z"-suffixed UTC dialect or an offset
// dialect (e.g. the Aadhaar +05:30 timestamps), returning UTC.
func ParseISO8601(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02T15:04:05Z", s)
}
