package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that can own layers. Passwords are stored as bcrypt
// hashes; PasswordHash is never serialized.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
