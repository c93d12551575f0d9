package models

import "time"

// Player represents an anonymous device profile identified by a cookie
type Player struct {
	ID         string
	CreatedAt  time.Time
	LastSeenAt time.Time
}
