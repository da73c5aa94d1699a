// Package crypto implements the cryptographic primitives the Aadhaar and
// Account Aggregator pipelines are built on: AES-256-GCM authenticated
// encryption, RSA-OAEP-SHA256 key wrapping, HMAC-SHA256, and SHA-256 hashing.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"

	platerrors "github.com/novacredit/engine/internal/platform/errors"
)

// KeySize is the required AES-256-GCM key length in bytes.
const KeySize = 32

// NonceSize is the GCM standard nonce (IV) length in bytes.
const NonceSize = 12

// TagSize is the GCM authentication tag length in bytes.
const TagSize = 16

// RandomBytes draws n cryptographically secure random bytes from the OS CSPRNG.
// It must never be backed by a pseudorandom stream.
func RandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	return buf, nil
}

// SealAESGCM encrypts plaintext under key with a freshly drawn 12-byte IV.
// It returns the IV, the ciphertext and the 16-byte authentication tag
// separately so callers can lay them out per their own wire format.
//
// Every call draws its own IV immediately before sealing; callers must never
// cache or reuse an IV across calls with the same key.
func SealAESGCM(key, plaintext []byte) (iv, ciphertext, tag []byte, err error) {
	if len(key) != KeySize {
		return nil, nil, nil, fmt.Errorf("aes-gcm key must be %d bytes, got %d", KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("new cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("new gcm: %w", err)
	}

	iv, err = RandomBytes(aead.NonceSize())
	if err != nil {
		return nil, nil, nil, err
	}

	sealed := aead.Seal(nil, iv, plaintext, nil)
	ctLen := len(sealed) - aead.Overhead()
	ciphertext = sealed[:ctLen]
	tag = sealed[ctLen:]
	return iv, ciphertext, tag, nil
}

// OpenAESGCM decrypts ciphertext||tag under key and iv. A verification
// failure (tampered ciphertext, tag, or key) always surfaces as
// DecryptionFailure — it never falls back to returning unauthenticated
// plaintext.
func OpenAESGCM(key, iv, ciphertext, tag []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, platerrors.DecryptionFailed(fmt.Errorf("aes-gcm key must be %d bytes, got %d", KeySize, len(key)))
	}
	if len(iv) != NonceSize {
		return nil, platerrors.DecryptionFailed(fmt.Errorf("aes-gcm iv must be %d bytes, got %d", NonceSize, len(iv)))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, platerrors.DecryptionFailed(err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, platerrors.DecryptionFailed(err)
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := aead.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, platerrors.DecryptionFailed(err)
	}
	return plaintext, nil
}

// OpenAESGCMBlob decrypts a blob laid out as IV(12B)||ciphertext||tag(16B),
// the shape the AA FI-fetch response uses.
func OpenAESGCMBlob(key, blob []byte) ([]byte, error) {
	if len(blob) < NonceSize+TagSize {
		return nil, platerrors.DecryptionFailed(fmt.Errorf("encrypted blob too short: %d bytes", len(blob)))
	}
	iv := blob[:NonceSize]
	tag := blob[len(blob)-TagSize:]
	ciphertext := blob[NonceSize : len(blob)-TagSize]
	return OpenAESGCM(key, iv, ciphertext, tag)
}

// SealAESGCMBlob is the inverse of OpenAESGCMBlob: IV(12B)||ciphertext||tag(16B).
func SealAESGCMBlob(key, plaintext []byte) ([]byte, error) {
	iv, ciphertext, tag, err := SealAESGCM(key, plaintext)
	if err != nil {
		return nil, err
	}
	blob := make([]byte, 0, len(iv)+len(ciphertext)+len(tag))
	blob = append(blob, iv...)
	blob = append(blob, ciphertext...)
	blob = append(blob, tag...)
	return blob, nil
}

// WrapRSAOAEPSHA256 wraps bytes (typically a session key) under the RSA
// public key found in publicKeyPEM using RSA-OAEP with SHA-256. If the PEM
// cannot be parsed the error is KeyUnavailable (soft) — callers
// may substitute a documented dev-only sentinel and continue in degraded mode.
func WrapRSAOAEPSHA256(publicKeyPEM []byte, data []byte) ([]byte, error) {
	pub, err := parseRSAPublicKey(publicKeyPEM)
	if err != nil {
		return nil, platerrors.KeyUnavailable(err)
	}
	ciphertext, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, data, nil)
	if err != nil {
		return nil, platerrors.KeyUnavailable(fmt.Errorf("rsa-oaep wrap: %w", err))
	}
	return ciphertext, nil
}

// UnwrapRSAOAEPSHA256 reverses WrapRSAOAEPSHA256 for test/verification use.
func UnwrapRSAOAEPSHA256(privateKeyPEM []byte, ciphertext []byte) ([]byte, error) {
	priv, err := parseRSAPrivateKey(privateKeyPEM)
	if err != nil {
		return nil, platerrors.KeyUnavailable(err)
	}
	plaintext, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, priv, ciphertext, nil)
	if err != nil {
		return nil, platerrors.DecryptionFailed(err)
	}
	return plaintext, nil
}

func parseRSAPublicKey(pemBytes []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("invalid PEM block")
	}
	if pub, err := x509.ParsePKIXPublicKey(block.Bytes); err == nil {
		if rsaPub, ok := pub.(*rsa.PublicKey); ok {
			return rsaPub, nil
		}
		return nil, fmt.Errorf("PEM does not contain an RSA public key")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err == nil {
		if rsaPub, ok := cert.PublicKey.(*rsa.PublicKey); ok {
			return rsaPub, nil
		}
	}
	return nil, fmt.Errorf("unable to parse RSA public key")
}

func parseRSAPrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("invalid PEM block")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("PEM does not contain an RSA private key")
	}
	return rsaKey, nil
}

// HMACSHA256 computes the HMAC-SHA256 MAC of data under a 32-byte key.
func HMACSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	_, _ = mac.Write(data)
	return mac.Sum(nil)
}

// SHA256Hex returns the lowercase 64-character hex SHA-256 digest of data.
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
