// Package sms defines the one-method contract the Aadhaar OTP flow uses to
// dispatch one-time passwords. The actual delivery vendor is an injected
// capability, not something this module implements.
package sms

import "context"

// Sender delivers a short message to a phone number. Implementations wrap a
// concrete vendor (Twilio, MSG91, a UIDAI-approved gateway, ...); the core
// only depends on this interface.
type Sender interface {
	Send(ctx context.Context, toPhone, message string) error
}

// NoopSender delivers nothing; it records every message in Sent. Useful for local development and for
// wiring the identity/OTP flow in tests without a live vendor.
type NoopSender struct {
	Sent []SentMessage
}

// SentMessage records one call made against NoopSender, for assertions in tests.
type SentMessage struct {
	ToPhone string
	Message string
}

// NewNoopSender returns a Sender that records messages instead of delivering them.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Send records the message and always succeeds.
func (s *NoopSender) Send(ctx context.Context, toPhone, message string) error {
	s.Sent = append(s.Sent, SentMessage{ToPhone: toPhone, Message: message})
	return nil
}
