package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles: USER, EDITOR, ADMIN, SUPER-ADMIN
type User struct {
	gorm.Model
	ProfileImage       string `gorm:"default:''"`
	Name               string `gorm:"default:''"`
	Email              string `gorm:"unique;not null"`
	Mobile             string `gorm:"default:''"`
	Role               string `gorm:"default:'USER'"`
	Password           string `gorm:"not null" json:"-"`
	Location           string
	BusinessName       string
	IsEmailVerified    bool       `gorm:"default:false"`
	IsVerified         bool       `gorm:"default:false"` // individual identity badge
	IsBusinessVerified bool       `gorm:"default:false"`
	LastLogin          *time.Time `gorm:"default:NULL"`
	IsBlocked          bool       `gorm:"default:false"`
	IsDeleted          bool       `gorm:"default:false"`
}

// IsStaff reports whether the role sits in the moderation hierarchy.
func (u *User) IsStaff() bool {
	switch u.Role {
	case "EDITOR", "ADMIN", "SUPER-ADMIN":
		return true
	}
	return false
}
