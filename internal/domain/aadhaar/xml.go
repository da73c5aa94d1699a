package aadhaar

import (
	"fmt"
	"time"

	"github.com/novacredit/engine/internal/platform/encoding"
)

// buildPidXML renders the PID block. otp is empty for initiate, the
// 6-digit entered code for verify.
func buildPidXML(ts time.Time, otp string) string {
	return fmt.Sprintf(
		`<Pid ts="%s" ver="2.0" wadh=""><Pv otp="%s"/></Pid>`,
		encoding.AadhaarTimestamp(ts), encoding.XMLEscape(otp),
	)
}

// authEnvelopeParams carries the pieces computed upstream (seal/wrap/mac)
// needed to render the outbound Auth XML.
type authEnvelopeParams struct {
	uid           string
	ts            time.Time
	txnID         string
	wrappedKeyB64 string
	hmacB64       string
	dataB64       string
}

// buildAuthXML renders the UIDAI Auth envelope described in the external
// interface section. Only uid carries the Aadhaar number; ac, sa, lk and tid
// are the fixed literal "public".
func buildAuthXML(p authEnvelopeParams) string {
	return fmt.Sprintf(
		`<Auth uid="%s" ac="public" sa="public" ver="2.5" txn="%s" lk="public" rc="Y" tid="public">`+
			`<Uses pi="n" pa="n" pfa="n" bio="n" bt="n" pin="n" otp="y"/>`+
			`<Tkn type="001" value=""/>`+
			`<Meta udc="AADHAAR_OTP_AUTH" fdc="" idc="" pip="" lot="P" lov=""/>`+
			`<Skey ci="%s">%s</Skey>`+
			`<Hmac>%s</Hmac>`+
			`<Data type="X">%s</Data>`+
			`</Auth>`,
		encoding.XMLEscape(p.uid), encoding.XMLEscape(p.txnID), encoding.AadhaarTimestamp(p.ts),
		p.wrappedKeyB64, p.hmacB64, p.dataB64,
	)
}
