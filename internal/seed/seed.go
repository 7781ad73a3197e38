// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"aperture/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options controls how much demo data gets created.
type Options struct {
	Users        int
	PostsPerUser int
	// MaxDays spreads created_at timestamps over this many days back.
	MaxDays int
	// DefaultPassword is assigned to every seeded account.
	DefaultPassword string
}

// DefaultOptions returns a small but representative data set.
func DefaultOptions() Options {
	return Options{
		Users:           10,
		PostsPerUser:    5,
		MaxDays:         90,
		DefaultPassword: "SeededPass12!",
	}
}

var categories = []string{
	"landscape", "portrait", "street", "wildlife",
	"architecture", "macro", "travel", "abstract",
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser persists a fake user. The first created admin should come from
// CreateAdmin so the demo data always has a moderator.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(f.opts.DefaultPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Username:  fmt.Sprintf("%s%d", gofakeit.Username(), f.rng.Intn(10000)),
		Email:     gofakeit.Email(),
		Password:  string(hashed),
		Role:      models.RoleUser,
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateAdmin persists an admin account with a stable username.
func (f *Factory) CreateAdmin() (*models.User, error) {
	return f.CreateUser(func(u *models.User) {
		u.Username = "admin"
		u.Email = "admin@aperture.local"
		u.Role = models.RoleAdmin
	})
}

// BuildPost constructs a post for the user without persisting it.
func (f *Factory) BuildPost(user *models.User, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		Title:       gofakeit.Sentence(4),
		Description: gofakeit.Paragraph(1, 2, 8, "\n"),
		Image:       fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
		Category:    categories[f.rng.Intn(len(categories))],
		Status:      models.PostStatusPending,
		UserID:      user.ID,
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rng.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute
	post.CreatedAt = time.Now().Add(-back)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// Run seeds a full demo data set: one admin, regular users with posts, and a
// moderated spread of approvals and rejections (with notifications matching
// what the moderation flow would have produced).
func Run(db *gorm.DB, opts Options) error {
	f := NewFactory(db, opts)

	admin, err := f.CreateAdmin()
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	log.Printf("seeded admin %q (id=%d)", admin.Username, admin.ID)

	for i := 0; i < opts.Users; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("seed user: %w", err)
		}

		for j := 0; j < opts.PostsPerUser; j++ {
			post := f.BuildPost(user)
			if err := db.Create(post).Error; err != nil {
				return fmt.Errorf("seed post: %w", err)
			}

			// Roughly 60% approved, 20% rejected, 20% left pending.
			switch roll := f.rng.Intn(10); {
			case roll < 6:
				if err := f.moderate(post, models.PostStatusApproved, ""); err != nil {
					return err
				}
			case roll < 8:
				if err := f.moderate(post, models.PostStatusRejected, "Low quality image"); err != nil {
					return err
				}
			}
		}
	}

	log.Printf("seeded %d users with up to %d posts each", opts.Users, opts.PostsPerUser)
	return nil
}

// moderate mimics a moderation transition on seeded data, including the
// notification the real flow inserts.
func (f *Factory) moderate(post *models.Post, status models.PostStatus, message string) error {
	if err := f.db.Model(post).Update("status", status).Error; err != nil {
		return err
	}

	notificationType := models.NotificationMediaApproved
	if status == models.PostStatusRejected {
		notificationType = models.NotificationMediaRejected
	}

	notification := models.Notification{
		UserID:     post.UserID,
		Type:       notificationType,
		Message:    message,
		Read:       f.rng.Intn(2) == 0,
		PostID:     post.ID,
		MediaTitle: post.Title,
		MediaURL:   post.Image,
	}
	return f.db.Create(&notification).Error
}
