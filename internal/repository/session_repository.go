package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/plantrungnampl/project-store-sub002/internal/model"
)

// SessionRepo persists customer sessions (single 'token_hash' column).
// Lookups join the owning user so callers resolve both in one round
// trip. Expired rows are treated as absent and swept opportunistically.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Create inserts a session row for the user.
func (r *SessionRepo) Create(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return err
}

// Lookup resolves a session and its user by token hash. A missing row
// yields (nil, nil, nil); expiry is not checked here so the caller can
// distinguish "expired" from "unknown" and clear accordingly.
func (r *SessionRepo) Lookup(ctx context.Context, tokenHash string) (*model.Session, *model.User, error) {
	const q = `SELECT s.id, s.user_id, s.token_hash, s.expires_at, s.created_at,
	                  u.id, u.email, u.password_hash, u.role, u.is_active, u.created_at, u.updated_at
	           FROM sessions s
	           JOIN users u ON u.id = s.user_id
	           WHERE s.token_hash = ? LIMIT 1`
	var s model.Session
	var u model.User
	err := r.DB.QueryRowContext(ctx, q, tokenHash).Scan(
		&s.ID, &s.UserID, &s.TokenHash, &s.ExpiresAt, &s.CreatedAt,
		&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return &s, &u, nil
}

// Extend moves the session expiry forward. Used for "fresh" renewals.
func (r *SessionRepo) Extend(ctx context.Context, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET expires_at=? WHERE token_hash=?",
		exp, tokenHash)
	return err
}

// Delete removes a session (logout, or cleanup of an expired row).
func (r *SessionRepo) Delete(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM sessions WHERE token_hash=?", tokenHash)
	return err
}

// DeleteExpired sweeps all expired sessions. Intended for a periodic
// background call; correctness never depends on it running.
func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM sessions WHERE expires_at <= UTC_TIMESTAMP()")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
