package cryptox

import (
	"errors"
	"testing"

	"github.com/safedrive/safedrive/internal/common"
)

func TestCipher_RoundTrip(t *testing.T) {
	c, err := NewCipher("test-secret")
	if err != nil {
		t.Fatalf("NewCipher error: %v", err)
	}

	for _, plaintext := range []string{"", "p@ss1", "кирилица", "a longer value with spaces"} {
		ct, err := c.Encrypt(plaintext)
		if err != nil {
			t.Fatalf("Encrypt(%q) error: %v", plaintext, err)
		}
		got, err := c.Decrypt(ct)
		if err != nil {
			t.Fatalf("Decrypt error: %v", err)
		}
		if got != plaintext {
			t.Fatalf("round trip mismatch: %q != %q", got, plaintext)
		}
	}
}

func TestCipher_NonDeterministic(t *testing.T) {
	c, _ := NewCipher("test-secret")

	a, err := c.Encrypt("same-plaintext")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}
	b, err := c.Encrypt("same-plaintext")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}
	if a == b {
		t.Fatal("two encryptions of the same plaintext produced identical ciphertext")
	}
}

func TestCipher_EmptySecret(t *testing.T) {
	_, err := NewCipher("")
	if !errors.Is(err, common.ErrCipher) {
		t.Fatalf("expected ErrCipher, got %v", err)
	}
}

func TestCipher_CorruptCiphertext(t *testing.T) {
	c, _ := NewCipher("test-secret")

	ct, err := c.Encrypt("value")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	cases := map[string]string{
		"not base64":      "%%%not-base64%%%",
		"truncated":       ct[:8],
		"tampered suffix": ct[:len(ct)-4] + "AAAA",
	}
	for name, bad := range cases {
		if _, err := c.Decrypt(bad); !errors.Is(err, common.ErrCipher) {
			t.Fatalf("%s: expected ErrCipher, got %v", name, err)
		}
	}
}

func TestCipher_WrongKey(t *testing.T) {
	c1, _ := NewCipher("secret-one")
	c2, _ := NewCipher("secret-two")

	ct, err := c1.Encrypt("value")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}
	if _, err := c2.Decrypt(ct); !errors.Is(err, common.ErrCipher) {
		t.Fatalf("expected ErrCipher for wrong key, got %v", err)
	}
}
