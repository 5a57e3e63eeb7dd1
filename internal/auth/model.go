package auth

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash string
	GoogleSub    string
	Staff        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is one issued refresh token, tracked by its JWT ID.
type Session struct {
	JTI       string
	UserID    string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

func (s Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
