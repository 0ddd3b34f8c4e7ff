package domain

import "time"

// Session is the identity carried by a verified session token. It is derived from
// the token on every request and never stored.
type Session struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) IsExpired(reference time.Time) bool {
	if s == nil {
		return true
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return !s.ExpiresAt.After(reference)
}

// TTL returns how long the session remains valid after reference.
func (s *Session) TTL(reference time.Time) time.Duration {
	if reference.IsZero() {
		reference = time.Now()
	}
	if s.IsExpired(reference) {
		return 0
	}
	return s.ExpiresAt.Sub(reference)
}
