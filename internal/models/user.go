package models

import "github.com/google/uuid"

// User is an account row. Ephemeral users are created on the fly for guests
// and can later be claimed with real credentials. Coins back the optional
// match wagers.
type User struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Password string    `json:"password,omitempty"`
	Username string    `json:"username"`

	IsEphemeral bool `json:"is_ephemeral"`
	IsAdmin     bool `json:"is_admin"`

	Coins int64 `json:"coins"`
}
