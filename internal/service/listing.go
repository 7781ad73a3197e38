package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"aperture/internal/models"

	"gorm.io/gorm"
)

const (
	// recentActivityLimit bounds the recent-post and recent-comment slices on
	// dashboard and detail views.
	recentActivityLimit = 10
	// activeUserWindow is how far back a post counts as recent activity.
	activeUserWindow = 30 * 24 * time.Hour
)

// Pagination describes one page of a listing.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// UserPage is one page of the admin user listing.
type UserPage struct {
	Items      []models.User `json:"items"`
	Pagination Pagination    `json:"pagination"`
}

// PostPage is one page of the admin media listing.
type PostPage struct {
	Items      []models.Post `json:"items"`
	Pagination Pagination    `json:"pagination"`
}

// Overview aggregates headline counts for the admin dashboard.
type Overview struct {
	TotalUsers    int64 `json:"totalUsers"`
	TotalPosts    int64 `json:"totalPosts"`
	TotalComments int64 `json:"totalComments"`
	TotalLikes    int64 `json:"totalLikes"`
	ApprovedPosts int64 `json:"approvedPosts"`
	PendingPosts  int64 `json:"pendingPosts"`
	RejectedPosts int64 `json:"rejectedPosts"`
}

// OverviewReport is the dashboard payload: headline counts plus the most
// recent submissions with their owners.
type OverviewReport struct {
	Overview    Overview      `json:"overview"`
	RecentPosts []models.Post `json:"recentPosts"`
}

// UserAnalytics summarizes the account population. An active user is one who
// posted within the last 30 days.
type UserAnalytics struct {
	TotalUsers   int64 `json:"totalUsers"`
	AdminCount   int64 `json:"adminCount"`
	RegularUsers int64 `json:"regularUsers"`
	ActiveUsers  int64 `json:"activeUsers"`
}

// CategoryCount is one slice of the posts-per-category breakdown.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// MediaAnalytics summarizes the media library: totals by moderation status,
// engagement totals, the category breakdown, and the most liked posts.
type MediaAnalytics struct {
	TotalPosts      int64           `json:"totalPosts"`
	ApprovedPosts   int64           `json:"approvedPosts"`
	PendingPosts    int64           `json:"pendingPosts"`
	RejectedPosts   int64           `json:"rejectedPosts"`
	TotalLikes      int64           `json:"totalLikes"`
	TotalComments   int64           `json:"totalComments"`
	PostsByCategory []CategoryCount `json:"postsByCategory"`
	TopPosts        []models.Post   `json:"topPosts"`
}

// AccountCounts totals a user's activity for the admin detail view.
type AccountCounts struct {
	Posts      int64 `json:"posts"`
	Comments   int64 `json:"comments"`
	SavedPosts int64 `json:"savedPosts"`
}

// UserDetail is the admin view of one account: profile fields, recent
// activity, and lifetime totals.
type UserDetail struct {
	models.User
	Counts AccountCounts `json:"counts"`
}

// ListingService serves the admin browse and analytics surfaces.
type ListingService struct {
	db *gorm.DB
}

// NewListingService returns a new ListingService.
func NewListingService(db *gorm.DB) *ListingService {
	return &ListingService{db: db}
}

// ListUsers returns one page of users, newest first. An empty role means all
// roles; search is a case-insensitive substring match on username or email.
func (s *ListingService) ListUsers(ctx context.Context, page, limit int, role models.Role, search string) (*UserPage, error) {
	page, limit = normalizePage(page, limit)

	q := s.db.WithContext(ctx).Model(&models.User{})
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if search != "" {
		// LOWER + LIKE instead of ILIKE so the query also runs on sqlite.
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var users []models.User
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	return &UserPage{
		Items:      users,
		Pagination: paginationFor(total, page, limit),
	}, nil
}

// ListPosts returns one page of posts newest first with owners preloaded.
// Empty status/category mean no filter; search is a case-insensitive
// substring match on title or description.
func (s *ListingService) ListPosts(ctx context.Context, page, limit int, status models.PostStatus, category, search string) (*PostPage, error) {
	page, limit = normalizePage(page, limit)

	q := s.db.WithContext(ctx).Model(&models.Post{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var posts []models.Post
	err := q.Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	return &PostPage{
		Items:      posts,
		Pagination: paginationFor(total, page, limit),
	}, nil
}

// Overview returns the dashboard report: headline totals and the 10 most
// recent submissions.
func (s *ListingService) Overview(ctx context.Context) (*OverviewReport, error) {
	db := s.db.WithContext(ctx)
	var report OverviewReport
	o := &report.Overview

	if err := db.Model(&models.User{}).Count(&o.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Post{}).Count(&o.TotalPosts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Comment{}).Count(&o.TotalComments).Error; err != nil {
		return nil, err
	}
	var err error
	if o.TotalLikes, err = s.totalLikes(ctx); err != nil {
		return nil, err
	}

	byStatus, err := s.countByStatus(ctx)
	if err != nil {
		return nil, err
	}
	o.ApprovedPosts = byStatus[models.PostStatusApproved]
	o.PendingPosts = byStatus[models.PostStatusPending]
	o.RejectedPosts = byStatus[models.PostStatusRejected]

	err = db.Preload("User").
		Order("created_at DESC").
		Limit(recentActivityLimit).
		Find(&report.RecentPosts).Error
	if err != nil {
		return nil, err
	}

	return &report, nil
}

// UserAnalytics returns the account population aggregate.
func (s *ListingService) UserAnalytics(ctx context.Context) (*UserAnalytics, error) {
	db := s.db.WithContext(ctx)
	var a UserAnalytics

	if err := db.Model(&models.User{}).Count(&a.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&a.AdminCount).Error; err != nil {
		return nil, err
	}
	a.RegularUsers = a.TotalUsers - a.AdminCount

	cutoff := time.Now().Add(-activeUserWindow)
	err := db.Model(&models.Post{}).
		Where("created_at >= ?", cutoff).
		Distinct("user_id").
		Count(&a.ActiveUsers).Error
	if err != nil {
		return nil, err
	}

	return &a, nil
}

// MediaAnalytics returns the media library aggregate.
func (s *ListingService) MediaAnalytics(ctx context.Context) (*MediaAnalytics, error) {
	db := s.db.WithContext(ctx)
	var m MediaAnalytics

	if err := db.Model(&models.Post{}).Count(&m.TotalPosts).Error; err != nil {
		return nil, err
	}
	byStatus, err := s.countByStatus(ctx)
	if err != nil {
		return nil, err
	}
	m.ApprovedPosts = byStatus[models.PostStatusApproved]
	m.PendingPosts = byStatus[models.PostStatusPending]
	m.RejectedPosts = byStatus[models.PostStatusRejected]

	if m.TotalLikes, err = s.totalLikes(ctx); err != nil {
		return nil, err
	}
	if err := db.Model(&models.Comment{}).Count(&m.TotalComments).Error; err != nil {
		return nil, err
	}

	err = db.Model(&models.Post{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("count DESC").
		Scan(&m.PostsByCategory).Error
	if err != nil {
		return nil, err
	}

	err = db.Preload("User").
		Order("likes DESC").
		Limit(recentActivityLimit).
		Find(&m.TopPosts).Error
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// UserDetail returns one account with its 10 most recent posts and comments,
// every bookmark with the post attached, and lifetime activity totals.
func (s *ListingService) UserDetail(ctx context.Context, userID uint) (*UserDetail, error) {
	db := s.db.WithContext(ctx)
	var detail UserDetail

	err := db.
		Preload("Posts", func(q *gorm.DB) *gorm.DB {
			return q.Order("created_at DESC").Limit(recentActivityLimit)
		}).
		Preload("Comments", func(q *gorm.DB) *gorm.DB {
			return q.Order("created_at DESC").Limit(recentActivityLimit)
		}).
		Preload("SavedPosts.Post").
		First(&detail.User, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", userID)
		}
		return nil, err
	}

	if err := db.Model(&models.Post{}).
		Where("user_id = ?", userID).
		Count(&detail.Counts.Posts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Comment{}).
		Where("user_id = ?", userID).
		Count(&detail.Counts.Comments).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.SavedPost{}).
		Where("user_id = ?", userID).
		Count(&detail.Counts.SavedPosts).Error; err != nil {
		return nil, err
	}

	return &detail, nil
}

func (s *ListingService) countByStatus(ctx context.Context) (map[models.PostStatus]int64, error) {
	var rows []struct {
		Status models.PostStatus
		Count  int64
	}
	err := s.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byStatus := make(map[models.PostStatus]int64, len(rows))
	for _, r := range rows {
		byStatus[r.Status] = r.Count
	}
	return byStatus, nil
}

func (s *ListingService) totalLikes(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("COALESCE(SUM(likes), 0)").
		Scan(&total).Error
	return total, err
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func paginationFor(total int64, page, limit int) Pagination {
	return Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}
}
