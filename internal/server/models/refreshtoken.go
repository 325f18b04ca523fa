package models

import "time"

// RefreshToken is an opaque server-stored token exchanged for a new token pair.
type RefreshToken struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
}

func (t *RefreshToken) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
