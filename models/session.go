package models

import "time"

// Session is an issued bearer credential bound to an account.
type Session struct {
	ID        int64     `json:"-"`
	AccountID int64     `json:"-"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// TableName returns the name of the database table associated with Session.
func (s Session) TableName() string {
	return "sessions"
}
