// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Role distinguishes regular users from platform administrators.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User represents an account in the Aperture application.
type User struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	FirstName  string      `json:"firstname"`
	LastName   string      `json:"lastname"`
	Username   string      `gorm:"unique;not null" json:"username"`
	Email      string      `gorm:"unique;not null" json:"email"`
	Password   string      `gorm:"not null" json:"-"`
	Role       Role        `gorm:"type:varchar(16);not null;default:USER" json:"role"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Posts      []Post      `gorm:"foreignKey:UserID" json:"posts,omitempty"`
	Comments   []Comment   `gorm:"foreignKey:UserID" json:"comments,omitempty"`
	SavedPosts []SavedPost `gorm:"foreignKey:UserID" json:"savedPosts,omitempty"`
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
