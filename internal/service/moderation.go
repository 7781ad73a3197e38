// Package service contains the application's business logic.
package service

import (
	"context"
	"errors"
	"log/slog"

	"aperture/internal/cache"
	"aperture/internal/models"

	"gorm.io/gorm"
)

// ModerationService governs the post lifecycle: every post starts PENDING and
// an admin moves it to APPROVED or REJECTED exactly once. Each terminal
// transition inserts the owner's notification in the same transaction, so a
// post that left PENDING always has exactly one matching notification.
type ModerationService struct {
	db *gorm.DB
}

// NewModerationService returns a new ModerationService.
func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{db: db}
}

// Approve transitions the post PENDING -> APPROVED and notifies the owner.
// Returns NOT_FOUND if the post does not exist and CONFLICT if it already
// left PENDING: transitions are restricted to PENDING-only, re-approval is
// not idempotent.
func (s *ModerationService) Approve(ctx context.Context, postID uint) (*models.Post, error) {
	return s.transition(ctx, postID, models.PostStatusApproved, models.NotificationMediaApproved, "")
}

// Reject transitions the post PENDING -> REJECTED and notifies the owner with
// the operator-supplied message. An empty message is accepted.
func (s *ModerationService) Reject(ctx context.Context, postID uint, message string) (*models.Post, error) {
	return s.transition(ctx, postID, models.PostStatusRejected, models.NotificationMediaRejected, message)
}

func (s *ModerationService) transition(
	ctx context.Context,
	postID uint,
	status models.PostStatus,
	notificationType models.NotificationType,
	message string,
) (*models.Post, error) {
	var post models.Post

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", postID)
			}
			return err
		}

		// The conditional update serializes concurrent moderation of the same
		// post: whichever transaction commits first flips the row out of
		// PENDING, and the loser's update matches zero rows.
		res := tx.Model(&models.Post{}).
			Where("id = ? AND status = ?", postID, models.PostStatusPending).
			Update("status", status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewConflictError("Post is not pending moderation")
		}

		notification := models.Notification{
			UserID:     post.UserID,
			Type:       notificationType,
			Message:    message,
			PostID:     post.ID,
			MediaTitle: post.Title,
			MediaURL:   post.Image,
		}
		if err := tx.Create(&notification).Error; err != nil {
			return err
		}

		post.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateUnreadCount(ctx, post.UserID)
	cache.InvalidateApprovedFeed(ctx)

	slog.InfoContext(ctx, "post moderated",
		slog.Any("post_id", post.ID),
		slog.String("status", string(status)),
		slog.Any("owner_id", post.UserID),
	)

	return &post, nil
}

// PendingPosts returns the admin moderation queue: PENDING posts newest first.
func (s *ModerationService) PendingPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Where("status = ?", models.PostStatusPending).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

// DeletePost removes the post in any state, cascading to its comments, saved
// references, and notifications in one transaction so no orphaned rows remain.
// Deletion emits no notification.
func (s *ModerationService) DeletePost(ctx context.Context, postID uint) error {
	var ownerID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", postID)
			}
			return err
		}
		ownerID = post.UserID

		return deletePostCascade(tx, postID)
	})
	if err != nil {
		return err
	}

	cache.InvalidateUnreadCount(ctx, ownerID)
	cache.InvalidateApprovedFeed(ctx)
	return nil
}

// DeleteUser removes the account and everything it owns: authored posts (with
// their comments, saves, and notifications from any user), plus the user's own
// comments, saves, and notification feed.
func (s *ModerationService) DeleteUser(ctx context.Context, userID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", userID)
			}
			return err
		}

		var postIDs []uint
		if err := tx.Model(&models.Post{}).
			Where("user_id = ?", userID).
			Pluck("id", &postIDs).Error; err != nil {
			return err
		}

		for _, postID := range postIDs {
			if err := deletePostCascade(tx, postID); err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.SavedPost{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, userID).Error
	})
	if err != nil {
		return err
	}

	cache.InvalidateUnreadCount(ctx, userID)
	cache.InvalidateApprovedFeed(ctx)
	return nil
}

func deletePostCascade(tx *gorm.DB, postID uint) error {
	if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id = ?", postID).Delete(&models.SavedPost{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id = ?", postID).Delete(&models.Notification{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Post{}, postID).Error
}
