package crypto

import (
	"testing"

	platerrors "github.com/novacredit/engine/internal/platform/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAESGCMRoundTrip(t *testing.T) {
	key, err := RandomBytes(KeySize)
	require.NoError(t, err)
	plaintext := []byte("the quick brown PID block")

	iv, ciphertext, tag, err := SealAESGCM(key, plaintext)
	require.NoError(t, err)
	assert.Len(t, iv, NonceSize)
	assert.Len(t, tag, TagSize)

	got, err := OpenAESGCM(key, iv, ciphertext, tag)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestAESGCMTamperedCiphertextFails(t *testing.T) {
	key, _ := RandomBytes(KeySize)
	iv, ciphertext, tag, err := SealAESGCM(key, []byte("payload"))
	require.NoError(t, err)

	tampered := append([]byte(nil), ciphertext...)
	tampered[0] ^= 0xFF

	_, err = OpenAESGCM(key, iv, tampered, tag)
	require.Error(t, err)
	svcErr := platerrors.Get(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, platerrors.ErrCodeDecryptionFailed, svcErr.Code)
}

func TestAESGCMTamperedTagFails(t *testing.T) {
	key, _ := RandomBytes(KeySize)
	iv, ciphertext, tag, err := SealAESGCM(key, []byte("payload"))
	require.NoError(t, err)

	tampered := append([]byte(nil), tag...)
	tampered[0] ^= 0xFF

	_, err = OpenAESGCM(key, iv, ciphertext, tampered)
	require.Error(t, err)
}

func TestSealAESGCMDrawsFreshIVEachCall(t *testing.T) {
	key, _ := RandomBytes(KeySize)
	iv1, _, _, err := SealAESGCM(key, []byte("a"))
	require.NoError(t, err)
	iv2, _, _, err := SealAESGCM(key, []byte("a"))
	require.NoError(t, err)
	assert.NotEqual(t, iv1, iv2)
}

func TestOpenAESGCMBlobLayout(t *testing.T) {
	key, _ := RandomBytes(KeySize)
	plaintext := []byte(`{"Transactions":[]}`)

	blob, err := SealAESGCMBlob(key, plaintext)
	require.NoError(t, err)

	got, err := OpenAESGCMBlob(key, blob)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestOpenAESGCMBlobTooShort(t *testing.T) {
	key, _ := RandomBytes(KeySize)
	_, err := OpenAESGCMBlob(key, []byte("short"))
	require.Error(t, err)
}

func TestHMACSHA256Deterministic(t *testing.T) {
	key, _ := RandomBytes(KeySize)
	mac1 := HMACSHA256(key, []byte("pid-xml"))
	mac2 := HMACSHA256(key, []byte("pid-xml"))
	assert.Equal(t, mac1, mac2)
	assert.Len(t, mac1, 32)
}

func TestSHA256HexLength(t *testing.T) {
	digest := SHA256Hex([]byte("123456789012"))
	assert.Len(t, digest, 64)
}

func TestRandomBytesNotRepeating(t *testing.T) {
	a, err := RandomBytes(16)
	require.NoError(t, err)
	b, err := RandomBytes(16)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestEnvelopeRoundTrip(t *testing.T) {
	masterKey, _ := RandomBytes(KeySize)
	subject := []byte("consent-id-123")

	ciphertext, err := EncryptEnvelope(masterKey, subject, "consent_artefact", []byte(`{"status":"ACTIVE"}`))
	require.NoError(t, err)

	plaintext, err := DecryptEnvelope(masterKey, subject, "consent_artefact", ciphertext)
	require.NoError(t, err)
	assert.Equal(t, `{"status":"ACTIVE"}`, string(plaintext))
}

func TestEnvelopeWrongSubjectFails(t *testing.T) {
	masterKey, _ := RandomBytes(KeySize)
	ciphertext, err := EncryptEnvelope(masterKey, []byte("subject-a"), "info", []byte("secret"))
	require.NoError(t, err)

	_, err = DecryptEnvelope(masterKey, []byte("subject-b"), "info", ciphertext)
	require.Error(t, err)
}
