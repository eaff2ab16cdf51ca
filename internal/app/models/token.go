package models

import "time"

// RefreshToken is a persisted, single-use refresh token
type RefreshToken struct {
	ID         int64      `db:"id"`
	UserID     int64      `db:"user_id"`
	Token      string     `db:"token"`
	ExpiresAt  time.Time  `db:"expires_at"`
	IsRevoked  bool       `db:"is_revoked"`
	CreatedAt  time.Time  `db:"created_at"`
	LastUsedAt *time.Time `db:"last_used_at"`
}

// IsExpired reports whether the token is past its expiry
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
