// Package cryptox implements the symmetric cipher protecting credential
// passwords at rest. Ciphertexts are AES-256-GCM with a fresh random nonce
// per call, encoded as base64 so they can live in text columns.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/safedrive/safedrive/internal/common"
)

// Cipher encrypts and decrypts single opaque strings with one pre-shared
// secret. The secret is normalized to a 32-byte AES-256 key via SHA-256,
// so any non-empty string works as configuration input.
type Cipher struct {
	key []byte
}

// NewCipher builds a Cipher from the configured secret.
func NewCipher(secret string) (*Cipher, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: empty secret", common.ErrCipher)
	}
	key := sha256.Sum256([]byte(secret))
	return &Cipher{key: key[:]}, nil
}

func (c *Cipher) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCipher, err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCipher, err)
	}
	return aesgcm, nil
}

// Encrypt seals plaintext and returns base64(nonce || ciphertext).
// The nonce is random per call, so encrypting the same plaintext twice
// yields different ciphertexts.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	aesgcm, err := c.aead()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrCipher, err)
	}

	sealed := aesgcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt is the exact inverse of Encrypt. Corrupt, truncated, or
// foreign-key ciphertexts fail with an error matching common.ErrCipher;
// the underlying cause is for logs, not for end users.
func (c *Cipher) Decrypt(encoded string) (string, error) {
	aesgcm, err := c.aead()
	if err != nil {
		return "", err
	}

	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrCipher, err)
	}
	if len(sealed) < aesgcm.NonceSize() {
		return "", fmt.Errorf("%w: ciphertext too short", common.ErrCipher)
	}

	nonce, ciphertext := sealed[:aesgcm.NonceSize()], sealed[aesgcm.NonceSize():]
	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrCipher, err)
	}

	return string(plaintext), nil
}
