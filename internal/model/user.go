package model

import "time"

// UserID uniquely identifies a person (or bot) across the system
type UserID string

// User is someone who can join rooms and take a seat in games
type User struct {
	ID          UserID    `json:"id"`
	DisplayName string    `json:"display_name"`
	IsGuest     bool      `json:"is_guest"`
	IsBot       bool      `json:"is_bot,omitempty"`
	BotStrategy string    `json:"bot_strategy,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// RegisteredUser extends User with login credentials.
// Stored separately so the password hash never travels with a session.
type RegisteredUser struct {
	UserID       UserID    `json:"user_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
