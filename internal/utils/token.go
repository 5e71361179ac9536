package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/rand"   // secure random number generation
	"crypto/sha256" // SHA-256 hashing for session tokens
	"encoding/hex"  // hex encoding for token strings
	"time"          // expiration calculation

	"github.com/google/uuid" // opaque cart identifiers
)

// SessionToken is a raw session token returned to the client in a
// cookie together with its expiry. The database stores only its
// SHA-256 hash.
type SessionToken struct {
	Raw string    // raw token string placed in the cookie
	Exp time.Time // UTC expiration time
}

// NewSessionToken returns a cryptographically secure random session
// token valid for ttl.
func NewSessionToken(ttl time.Duration) (SessionToken, error) {
	raw, err := randomHex(32) // 32 bytes -> 64 hex chars
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Raw: raw, Exp: time.Now().UTC().Add(ttl)}, nil
}

// HashSessionToken returns the SHA-256 hex digest stored in the
// sessions table in place of the raw token.
func HashSessionToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// NewOrderNumber generates a customer-facing order number of the form
// ORD-XXXXXXXXXX. The suffix is 10 random digits; uniqueness is
// enforced by the orders.order_number unique index.
func NewOrderNumber() (string, error) {
	const digits = "0123456789"
	b := make([]byte, 10)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = digits[int(b[i])%len(digits)]
	}
	return "ORD-" + string(b), nil
}

// NewCartToken returns a fresh opaque cart identifier.
func NewCartToken() string {
	return uuid.NewString()
}

// randomHex generates n random bytes and hex encodes them.
func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
