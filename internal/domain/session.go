package domain

import "time"

// Session binds a bearer token to the Telegram chat that logged in.
type Session struct {
	ChatID    int64
	Username  string
	Token     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
