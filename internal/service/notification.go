package service

import (
	"context"
	"errors"

	"aperture/internal/cache"
	"aperture/internal/models"
	"aperture/internal/repository"

	"gorm.io/gorm"
)

// maxFeedLength caps a single feed read.
const maxFeedLength = 200

// NotificationService exposes the per-user notification feed.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService returns a new NotificationService.
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// ListForUser returns the caller's notifications newest first, each carrying
// the recipient username.
func (s *NotificationService) ListForUser(ctx context.Context, userID uint) ([]*models.Notification, error) {
	return s.notificationRepo.ListByUser(ctx, userID, maxFeedLength)
}

// UnreadCount returns the number of unread notifications for the caller.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.notificationRepo.UnreadCount(ctx, userID)
}

// MarkRead flips the notification's read flag to true. The flag never goes
// back: marking an already-read notification is a no-op success. A caller who
// does not own the notification gets FORBIDDEN and the row is never touched.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID uint) error {
	notification, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Notification", notificationID)
		}
		return err
	}

	if notification.UserID != userID {
		return models.NewForbiddenError("Notification does not belong to you")
	}

	if notification.Read {
		return nil
	}

	if err := s.notificationRepo.MarkRead(ctx, notificationID); err != nil {
		return err
	}

	cache.InvalidateUnreadCount(ctx, userID)
	return nil
}
