package models

import "time"

// Profile is the public chat profile stored in PostgreSQL. IsBanned is a
// convenience flag maintained by the escalation engine and punishment
// revocation; it must always agree with "user has an active, non-expired
// ban punishment".
type Profile struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name,omitempty"`
	IsBanned    bool      `json:"is_banned"`
	CreatedAt   time.Time `json:"created_at"`
}

// Admin is a moderation dashboard account. Admin accounts are created
// directly in the database, never through the API.
type Admin struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}
