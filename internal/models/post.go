package models

import (
	"time"
)

// PostStatus is the moderation state of a post.
type PostStatus string

const (
	// PostStatusPending is the initial state of every submission.
	PostStatusPending PostStatus = "PENDING"
	// PostStatusApproved and PostStatusRejected are terminal; the moderation
	// engine never transitions a post out of them.
	PostStatusApproved PostStatus = "APPROVED"
	PostStatusRejected PostStatus = "REJECTED"
)

// Post represents an image submission in the Aperture application.
type Post struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Image       string     `gorm:"not null" json:"image"`
	Category    string     `gorm:"index" json:"category"`
	Status      PostStatus `gorm:"type:varchar(16);not null;default:PENDING;index" json:"status"`
	Likes       int        `gorm:"not null;default:0" json:"likes"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	User        *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
