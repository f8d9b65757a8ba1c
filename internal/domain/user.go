// Package domain contains core domain types for the study companion.
package domain

import (
	"time"
)

// User is an account that can log in and own a mood history.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasPassword returns true if a credential hash has been set.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
