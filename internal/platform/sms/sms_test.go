package sms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopSenderRecordsMessages(t *testing.T) {
	s := NewNoopSender()

	require.NoError(t, s.Send(context.Background(), "+919876543210", "your OTP is 123456"))

	require.Len(t, s.Sent, 1)
	assert.Equal(t, "+919876543210", s.Sent[0].ToPhone)
	assert.Contains(t, s.Sent[0].Message, "123456")
}

func TestNoopSenderImplementsSender(t *testing.T) {
	var _ Sender = (*NoopSender)(nil)
}
