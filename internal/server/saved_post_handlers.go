package server

import (
	"errors"

	"aperture/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetSavedPosts handles GET /saved-posts
func (s *Server) GetSavedPosts(c *fiber.Ctx) error {
	saved, err := s.savedPostRepo.ListByUser(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(saved)
}

// SavePost handles POST /saved-posts/:postId. Saving an already-saved post
// is a no-op success.
func (s *Server) SavePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	post, err := s.postRepo.GetByID(c.Context(), postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Post", postID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if post.Status != models.PostStatusApproved {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", postID))
	}

	if err := s.savedPostRepo.Save(c.Context(), currentUserID(c), postID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Post saved successfully",
	})
}

// UnsavePost handles DELETE /saved-posts/:postId
func (s *Server) UnsavePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	if err := s.savedPostRepo.Unsave(c.Context(), currentUserID(c), postID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{
		"message": "Post unsaved successfully",
	})
}
