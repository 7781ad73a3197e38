package server

import (
	"errors"

	"aperture/internal/middleware"
	"aperture/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetPendingApprovals handles GET /admin/pending-approvals: the moderation
// queue, newest submissions first.
func (s *Server) GetPendingApprovals(c *fiber.Ctx) error {
	posts, err := s.moderationService.PendingPosts(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(posts)
}

// ApprovePost handles PUT /admin/posts/:id/approve
func (s *Server) ApprovePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.moderationService.Approve(c.UserContext(), id)
	if err != nil {
		middleware.ModerationTransitions.WithLabelValues(transitionOutcome(err)).Inc()
		return respondServiceError(c, err)
	}
	middleware.ModerationTransitions.WithLabelValues("approved").Inc()

	return c.JSON(fiber.Map{
		"message": "Media approved successfully",
		"post":    post,
	})
}

// RejectPost handles PUT /admin/posts/:id/reject. The optional message is
// forwarded to the owner's notification; an empty body rejects silently.
func (s *Server) RejectPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Message string `json:"message"`
	}
	// Body is optional; an unparsable body just means no message.
	_ = c.BodyParser(&req)

	post, err := s.moderationService.Reject(c.UserContext(), id, req.Message)
	if err != nil {
		middleware.ModerationTransitions.WithLabelValues(transitionOutcome(err)).Inc()
		return respondServiceError(c, err)
	}
	middleware.ModerationTransitions.WithLabelValues("rejected").Inc()

	return c.JSON(fiber.Map{
		"message": "Media rejected successfully",
		"post":    post,
	})
}

// AdminDeletePost handles DELETE /admin/posts/:id
func (s *Server) AdminDeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.moderationService.DeletePost(c.UserContext(), id); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Media deleted successfully",
	})
}

// AdminDeleteUser handles DELETE /admin/users/:id
func (s *Server) AdminDeleteUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.moderationService.DeleteUser(c.UserContext(), id); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "User deleted successfully",
	})
}

// GetAdminOverview handles GET /admin/overview: dashboard totals plus the
// most recent submissions.
func (s *Server) GetAdminOverview(c *fiber.Ctx) error {
	report, err := s.listingService.Overview(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(report)
}

// GetUserAnalytics handles GET /admin/users: the account population
// aggregate (totals, admin split, active users).
func (s *Server) GetUserAnalytics(c *fiber.Ctx) error {
	analytics, err := s.listingService.UserAnalytics(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(analytics)
}

// GetMediaAnalytics handles GET /admin/media: library totals, engagement,
// category breakdown, and top posts by likes.
func (s *Server) GetMediaAnalytics(c *fiber.Ctx) error {
	analytics, err := s.listingService.MediaAnalytics(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(analytics)
}

// GetAdminUserDetail handles GET /admin/users/:id: one account with recent
// posts, comments, bookmarks, and activity totals.
func (s *Server) GetAdminUserDetail(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	detail, err := s.listingService.UserDetail(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(detail)
}

// ListUsers handles GET /admin/users/list with page, limit, role, and search
// query parameters.
func (s *Server) ListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	search := c.Query("search")

	role := models.Role(c.Query("role"))
	switch role {
	case "", models.RoleUser, models.RoleAdmin:
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid role filter"))
	}

	result, err := s.listingService.ListUsers(c.UserContext(), page, limit, role, search)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(result)
}

// ListMedia handles GET /admin/media/list with page, limit, status, category,
// and search query parameters.
func (s *Server) ListMedia(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	category := c.Query("category")
	search := c.Query("search")

	status := models.PostStatus(c.Query("status"))
	switch status {
	case "", models.PostStatusPending, models.PostStatusApproved, models.PostStatusRejected:
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid status filter"))
	}

	result, err := s.listingService.ListPosts(c.UserContext(), page, limit, status, category, search)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(result)
}

// transitionOutcome labels failed moderation attempts for the transitions
// counter.
func transitionOutcome(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "CONFLICT":
			return "conflict"
		case "NOT_FOUND":
			return "not_found"
		}
	}
	return "error"
}
