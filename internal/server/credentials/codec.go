// Package credentials derives and verifies salted password hashes.
//
// Hashes are PBKDF2-HMAC-SHA512 over the UTF-8 password and the salt's hex
// text, 210000 iterations, 64-byte output, stored as lowercase hex. Salts are
// 16 bytes from crypto/rand, stored as hex. These parameters are part of the
// stored data format: a hash written with one set can only be verified with
// the same set, so changing them requires a rehash-on-login migration.
package credentials

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize   = 16
	Iterations = 210_000
	KeyLen     = 64
)

// Codec is safe for concurrent use; it holds no mutable state.
type Codec struct {
	iterations int
}

func NewCodec() *Codec {
	return &Codec{iterations: Iterations}
}

// GenerateSalt returns SaltSize random bytes, hex encoded.
func (c *Codec) GenerateSalt() (string, error) {
	b := make([]byte, SaltSize)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("error generating salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// DeriveHash is deterministic in (password, salt).
func (c *Codec) DeriveHash(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), c.iterations, KeyLen, sha512.New)
	return hex.EncodeToString(key)
}

// Verify recomputes the hash and compares it in constant time.
func (c *Codec) Verify(password, salt, expectedHash string) bool {
	expected, err := hex.DecodeString(expectedHash)
	if err != nil || len(expected) != KeyLen {
		return false
	}
	candidate := pbkdf2.Key([]byte(password), []byte(salt), c.iterations, KeyLen, sha512.New)
	return subtle.ConstantTimeCompare(candidate, expected) == 1
}
