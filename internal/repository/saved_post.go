package repository

import (
	"context"

	"aperture/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SavedPostRepository defines interface for bookmark operations
type SavedPostRepository interface {
	Save(ctx context.Context, userID, postID uint) error
	Unsave(ctx context.Context, userID, postID uint) error
	ListByUser(ctx context.Context, userID uint) ([]*models.SavedPost, error)
}

type savedPostRepository struct {
	db *gorm.DB
}

// NewSavedPostRepository creates a new SavedPostRepository
func NewSavedPostRepository(db *gorm.DB) SavedPostRepository {
	return &savedPostRepository{db: db}
}

// Save bookmarks the post for the user. Saving twice is a no-op: the unique
// (user, post) index plus ON CONFLICT DO NOTHING makes the operation
// race-safe and idempotent.
func (r *savedPostRepository) Save(ctx context.Context, userID, postID uint) error {
	saved := models.SavedPost{UserID: userID, PostID: postID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&saved).Error
}

func (r *savedPostRepository) Unsave(ctx context.Context, userID, postID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.SavedPost{}).Error
}

func (r *savedPostRepository) ListByUser(ctx context.Context, userID uint) ([]*models.SavedPost, error) {
	var saved []*models.SavedPost
	err := r.db.WithContext(ctx).
		Preload("Post").
		Preload("Post.User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&saved).Error
	return saved, err
}
