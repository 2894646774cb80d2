package models

import (
	"time"
)

// DefaultCredit is the credit score assigned to every new profile.
const DefaultCredit = 700

// UserProfile holds the public-facing half of an account. Credential data
// stays on User; everything shown to other users lives here.
type UserProfile struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	Nickname  string `gorm:"size:50" json:"nickname"`
	AvatarURL string `json:"avatar_url"`
	Major     string `gorm:"size:100" json:"major"`
	Grade     string `gorm:"size:20" json:"grade"`
	Campus    string `gorm:"size:100" json:"campus"`
	Credit    int    `gorm:"default:700" json:"credit"`
	Bio       string `gorm:"type:text" json:"bio"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
