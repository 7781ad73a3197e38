package server

import (
	"testing"

	"aperture/internal/config"
	"aperture/internal/middleware"
	"aperture/internal/models"
	"aperture/internal/repository"
	"aperture/internal/service"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer builds a Server over an in-memory sqlite database with real
// verifiers but no Redis and no Prometheus middleware.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.SavedPost{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	cfg := &config.Config{
		Port:           "0",
		UserJWTSecret:  "user-test-secret",
		AdminJWTSecret: "admin-test-secret",
		Env:            "test",
	}

	notificationRepo := repository.NewNotificationRepository(db)
	s := &Server{
		config:              cfg,
		db:                  db,
		userVerifier:        middleware.NewUserVerifier(cfg),
		adminVerifier:       middleware.NewAdminVerifier(cfg),
		userRepo:            repository.NewUserRepository(db),
		postRepo:            repository.NewPostRepository(db),
		commentRepo:         repository.NewCommentRepository(db),
		savedPostRepo:       repository.NewSavedPostRepository(db),
		notificationRepo:    notificationRepo,
		moderationService:   service.NewModerationService(db),
		notificationService: service.NewNotificationService(notificationRepo),
		listingService:      service.NewListingService(db),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return models.RespondWithError(c, models.StatusForError(err), err)
		},
	})
	s.SetupRoutes(app)

	return s, app
}

func seedUser(t *testing.T, s *Server, username string, role models.Role) (*models.User, string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("SeededPass12!"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
		Role:     role,
	}
	if err := s.db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return user, token
}

func seedPost(t *testing.T, s *Server, userID uint, status models.PostStatus) *models.Post {
	t.Helper()

	post := &models.Post{
		Title:  "test shot",
		Image:  "https://cdn.example.com/test.jpg",
		Status: status,
		UserID: userID,
	}
	if err := s.db.Create(post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}
