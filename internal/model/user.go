package model

import "time"

// User represents a registered account as stored in the `users` table.
// Users are created on registration and never modified afterwards.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email (unique, lower-cased)
	PasswordHash string    // users.password_hash (bcrypt)
	PhoneNumber  *string   // users.phone_number (nullable)
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
