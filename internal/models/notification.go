package models

import (
	"time"
)

// NotificationType identifies the moderation outcome a notification reports.
type NotificationType string

const (
	NotificationMediaApproved NotificationType = "MEDIA_APPROVED"
	NotificationMediaRejected NotificationType = "MEDIA_REJECTED"
)

// Notification informs a post's owner of a moderation outcome. Rows are
// immutable except for Read, which only ever transitions false -> true.
// MediaTitle and MediaURL are snapshots of the post at transition time.
type Notification struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	UserID     uint             `gorm:"not null;index" json:"userId"`
	User       *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Type       NotificationType `gorm:"type:varchar(32);not null" json:"type"`
	Read       bool             `gorm:"not null;default:false" json:"read"`
	Message    string           `json:"message,omitempty"`
	PostID     uint             `gorm:"not null;index" json:"postId"`
	MediaTitle string           `json:"mediaTitle"`
	MediaURL   string           `json:"mediaUrl"`
	CreatedAt  time.Time        `json:"created_at"`
}
