package model

import "time"

// User is one account record. Optional profile fields are pointers so that
// absent and empty are distinguishable, both in the database and in update
// payloads. The password hash and soft-delete bookkeeping never leave the
// server.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Pronoun      *string    `json:"pronoun,omitempty"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Phone        *string    `json:"phone,omitempty"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	NationalID   *string    `json:"national_id,omitempty"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"-"`
	DeletedBy    *string    `json:"-"`
}

// AuthResponse is the payload returned by registration and login.
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
