package models

import (
	"time"

	"github.com/google/uuid"
)

// AuthToken is the server-side record backing an issued JWT. Logout
// deletes the row, which revokes the token before its expiry.
type AuthToken struct {
	ID        uuid.UUID `json:"token_id"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
