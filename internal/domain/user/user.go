package user

import (
	"errors"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	CreatedAt    time.Time `json:"createdAt"`
}

var ErrNotFound = errors.New("user not found")

// raised when the store reports a uniqueness violation on email.
var ErrEmailTaken = errors.New("email already exists")
