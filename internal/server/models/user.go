package models

import "time"

// User is a registered account. PasswordHash holds a bcrypt digest and is
// never serialized.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
