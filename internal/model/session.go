package model

import "time"

// Session models a row in the `sessions` table. The token is the opaque
// value stored in the customer's cookie; only its SHA-256 hash is kept
// server side. A session is valid iff the current time is before
// ExpiresAt. Sessions are created at login, extended on validated
// access when close to expiry, and deleted on logout or sweep.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the session.
//  TokenHash – SHA-256 hex digest of the cookie token.
//  ExpiresAt – absolute expiry timestamp (UTC).
//  CreatedAt – timestamp of creation.
type Session struct {
	ID        uint64    // sessions.id
	UserID    uint64    // sessions.user_id
	TokenHash string    // sessions.token_hash
	ExpiresAt time.Time // sessions.expires_at
	CreatedAt time.Time // sessions.created_at
}

// Fresh reports whether the session is still valid but close enough to
// expiry that it should be renewed. within is the renewal window.
func (s *Session) Fresh(now time.Time, within time.Duration) bool {
	if !now.Before(s.ExpiresAt) {
		return false
	}
	return s.ExpiresAt.Sub(now) < within
}

// Expired reports whether the session is no longer valid.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
