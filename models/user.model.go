package models

import (
	"time"
)

// Role values stored on User.Role.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Login identity: student number (or any handle) plus optional phone,
	// both usable as the login account.
	Username string  `gorm:"unique;not null;size:50" json:"username"`
	Phone    *string `gorm:"unique;size:20" json:"phone,omitempty"`
	Password string  `gorm:"not null" json:"-"`

	Role    string `gorm:"default:'USER';size:20" json:"role"` // USER / ADMIN
	Enabled bool   `gorm:"default:true" json:"enabled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
