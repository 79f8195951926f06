// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// The ID is an internal string ID (xid) generated by the repository on insert.
// Email is the login identifier; the users table carries a UNIQUE index on it,
// so a duplicate signup fails at the store instead of depending on a lookup
// racing ahead of the write.
//
// PasswordHash holds the bcrypt hash of the user's password. It is opaque to
// every layer except internal/auth and is never serialized to JSON.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
