package server

import (
	"aperture/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /notifications: the caller's feed newest first.
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	notifications, err := s.notificationService.ListForUser(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(notifications)
}

// GetUnreadNotificationCount handles GET /notifications/count
func (s *Server) GetUnreadNotificationCount(c *fiber.Ctx) error {
	count, err := s.notificationService.UnreadCount(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(fiber.Map{
		"count": count,
	})
}

// MarkNotificationRead handles PATCH /notifications/:id/read
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.notificationService.MarkRead(c.UserContext(), id, currentUserID(c)); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Notification marked as read",
	})
}
