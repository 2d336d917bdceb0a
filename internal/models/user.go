package models

import "time"

const (
	RoleOwner = "owner"
	RoleGuest = "guest"
)

// GuestOwnerID marks rows that belong to the local profile used
// before an owner account exists.
const GuestOwnerID = "guest"

type User struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"not null;default:owner" json:"role"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}
