package aadhaar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildPidXMLEmptyOtpForInitiate(t *testing.T) {
	ts := time.Date(2025, 7, 20, 12, 0, 0, 0, time.UTC)
	xml := buildPidXML(ts, "")
	assert.Contains(t, xml, `ver="2.0"`)
	assert.Contains(t, xml, `<Pv otp=""/>`)
	assert.Contains(t, xml, "+05:30")
}

func TestBuildPidXMLCarriesOtpForVerify(t *testing.T) {
	ts := time.Date(2025, 7, 20, 12, 0, 0, 0, time.UTC)
	xml := buildPidXML(ts, "123456")
	assert.Contains(t, xml, `<Pv otp="123456"/>`)
}

func TestBuildAuthXMLContainsRequiredElements(t *testing.T) {
	xml := buildAuthXML(authEnvelopeParams{
		uid:           "123456789012",
		ts:            time.Now(),
		txnID:         "txn-1",
		wrappedKeyB64: "a2V5",
		hmacB64:       "bWFj",
		dataB64:       "ZGF0YQ==",
	})
	assert.Contains(t, xml, `otp="y"`)
	assert.Contains(t, xml, `<Skey ci=`)
	assert.Contains(t, xml, `<Hmac>bWFj</Hmac>`)
	assert.Contains(t, xml, `<Data type="X">ZGF0YQ==</Data>`)
}
