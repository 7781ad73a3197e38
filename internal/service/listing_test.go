package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"aperture/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createPost(t *testing.T, db *gorm.DB, post *models.Post) *models.Post {
	t.Helper()
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestListUsersPagination(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := NewListingService(db)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		createUser(t, db, fmt.Sprintf("user%02d", i))
	}

	page, err := svc.ListUsers(ctx, 1, 10, "", "")
	require.NoError(t, err)
	assert.Len(t, page.Items, 10)
	assert.EqualValues(t, 25, page.Pagination.Total)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, 3, page.Pagination.TotalPages)

	last, err := svc.ListUsers(ctx, 3, 10, "", "")
	require.NoError(t, err)
	assert.Len(t, last.Items, 5)
}

func TestListUsersSearch(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := NewListingService(db)

	createUser(t, db, "Alice_Photo")
	createUser(t, db, "bob")

	page, err := svc.ListUsers(context.Background(), 1, 10, "", "alice")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Alice_Photo", page.Items[0].Username)
}

func TestListUsersRoleFilter(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := NewListingService(db)
	ctx := context.Background()

	createUser(t, db, "member")
	moderator := createUser(t, db, "moderator")
	require.NoError(t, db.Model(moderator).Update("role", models.RoleAdmin).Error)

	admins, err := svc.ListUsers(ctx, 1, 10, models.RoleAdmin, "")
	require.NoError(t, err)
	require.Len(t, admins.Items, 1)
	assert.Equal(t, "moderator", admins.Items[0].Username)

	regulars, err := svc.ListUsers(ctx, 1, 10, models.RoleUser, "")
	require.NoError(t, err)
	require.Len(t, regulars.Items, 1)
	assert.Equal(t, "member", regulars.Items[0].Username)
}

func TestListUsersNormalizesBadInput(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := NewListingService(db)

	createUser(t, db, "solo")

	page, err := svc.ListUsers(context.Background(), -3, 0, "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, 20, page.Pagination.Limit)
	assert.Len(t, page.Items, 1)
}

func TestListPostsStatusFilter(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := NewListingService(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	pending := createPendingPost(t, db, owner.ID, "waiting")
	approved := createPendingPost(t, db, owner.ID, "shipped")
	require.NoError(t, db.Model(approved).Update("status", models.PostStatusApproved).Error)

	page, err := svc.ListPosts(ctx, 1, 10, models.PostStatusPending, "", "")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, pending.ID, page.Items[0].ID)

	all, err := svc.ListPosts(ctx, 1, 10, "", "", "")
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
}

func TestListPostsCategoryFilter(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := NewListingService(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	wildlife := createPost(t, db, &models.Post{
		Title: "heron", Image: "https://cdn.example.com/heron.jpg",
		Category: "wildlife", Status: models.PostStatusApproved, UserID: owner.ID,
	})
	createPost(t, db, &models.Post{
		Title: "skyline", Image: "https://cdn.example.com/skyline.jpg",
		Category: "urban", Status: models.PostStatusApproved, UserID: owner.ID,
	})

	page, err := svc.ListPosts(ctx, 1, 10, "", "wildlife", "")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, wildlife.ID, page.Items[0].ID)
}

func TestListPostsSearchesTitleAndDescription(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := NewListingService(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	createPost(t, db, &models.Post{
		Title: "Golden Gate at dusk", Image: "https://cdn.example.com/gg.jpg",
		Description: "long exposure from the headlands",
		Status:      models.PostStatusPending, UserID: owner.ID,
	})
	createPost(t, db, &models.Post{
		Title: "backyard macro", Image: "https://cdn.example.com/macro.jpg",
		Description: "a jumping spider on a fence post",
		Status:      models.PostStatusPending, UserID: owner.ID,
	})

	byTitle, err := svc.ListPosts(ctx, 1, 10, "", "", "golden")
	require.NoError(t, err)
	require.Len(t, byTitle.Items, 1)
	assert.Equal(t, "Golden Gate at dusk", byTitle.Items[0].Title)

	byDescription, err := svc.ListPosts(ctx, 1, 10, "", "", "spider")
	require.NoError(t, err)
	require.Len(t, byDescription.Items, 1)
	assert.Equal(t, "backyard macro", byDescription.Items[0].Title)
}

func TestOverview(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := NewListingService(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	fan := createUser(t, db, "fan")
	base := time.Now().Add(-time.Hour)

	pending := createPost(t, db, &models.Post{
		Title: "one", Image: "https://cdn.example.com/one.jpg",
		Status: models.PostStatusPending, UserID: owner.ID, CreatedAt: base,
	})
	approved := createPost(t, db, &models.Post{
		Title: "two", Image: "https://cdn.example.com/two.jpg", Likes: 3,
		Status: models.PostStatusApproved, UserID: owner.ID, CreatedAt: base.Add(10 * time.Minute),
	})
	newest := createPost(t, db, &models.Post{
		Title: "three", Image: "https://cdn.example.com/three.jpg", Likes: 2,
		Status: models.PostStatusRejected, UserID: owner.ID, CreatedAt: base.Add(20 * time.Minute),
	})
	require.NoError(t, db.Create(&models.Comment{Text: "nice", UserID: fan.ID, PostID: approved.ID}).Error)

	report, err := svc.Overview(ctx)
	require.NoError(t, err)

	o := report.Overview
	assert.EqualValues(t, 2, o.TotalUsers)
	assert.EqualValues(t, 3, o.TotalPosts)
	assert.EqualValues(t, 1, o.TotalComments)
	assert.EqualValues(t, 5, o.TotalLikes)
	assert.EqualValues(t, 1, o.PendingPosts)
	assert.EqualValues(t, 1, o.ApprovedPosts)
	assert.EqualValues(t, 1, o.RejectedPosts)

	require.Len(t, report.RecentPosts, 3)
	assert.Equal(t, newest.ID, report.RecentPosts[0].ID)
	assert.Equal(t, approved.ID, report.RecentPosts[1].ID)
	assert.Equal(t, pending.ID, report.RecentPosts[2].ID)
}

func TestUserAnalytics(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := NewListingService(db)

	active := createUser(t, db, "active")
	dormant := createUser(t, db, "dormant")
	moderator := createUser(t, db, "moderator")
	require.NoError(t, db.Model(moderator).Update("role", models.RoleAdmin).Error)

	// Two recent posts from the same user count once; a post from three
	// months ago does not count at all.
	createPendingPost(t, db, active.ID, "fresh one")
	createPendingPost(t, db, active.ID, "fresh two")
	createPost(t, db, &models.Post{
		Title: "archive", Image: "https://cdn.example.com/archive.jpg",
		Status: models.PostStatusApproved, UserID: dormant.ID,
		CreatedAt: time.Now().Add(-90 * 24 * time.Hour),
	})

	a, err := svc.UserAnalytics(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, a.TotalUsers)
	assert.EqualValues(t, 1, a.AdminCount)
	assert.EqualValues(t, 2, a.RegularUsers)
	assert.EqualValues(t, 1, a.ActiveUsers)
}

func TestMediaAnalytics(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := NewListingService(db)

	owner := createUser(t, db, "owner")
	fan := createUser(t, db, "fan")

	popular := createPost(t, db, &models.Post{
		Title: "popular", Image: "https://cdn.example.com/popular.jpg",
		Category: "wildlife", Likes: 9,
		Status: models.PostStatusApproved, UserID: owner.ID,
	})
	createPost(t, db, &models.Post{
		Title: "quiet", Image: "https://cdn.example.com/quiet.jpg",
		Category: "wildlife", Likes: 1,
		Status: models.PostStatusPending, UserID: owner.ID,
	})
	createPost(t, db, &models.Post{
		Title: "skyline", Image: "https://cdn.example.com/skyline.jpg",
		Category: "urban",
		Status:   models.PostStatusPending, UserID: owner.ID,
	})
	require.NoError(t, db.Create(&models.Comment{Text: "wow", UserID: fan.ID, PostID: popular.ID}).Error)

	m, err := svc.MediaAnalytics(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, m.TotalPosts)
	assert.EqualValues(t, 1, m.ApprovedPosts)
	assert.EqualValues(t, 2, m.PendingPosts)
	assert.EqualValues(t, 0, m.RejectedPosts)
	assert.EqualValues(t, 10, m.TotalLikes)
	assert.EqualValues(t, 1, m.TotalComments)

	byCategory := map[string]int64{}
	for _, c := range m.PostsByCategory {
		byCategory[c.Category] = c.Count
	}
	assert.EqualValues(t, 2, byCategory["wildlife"])
	assert.EqualValues(t, 1, byCategory["urban"])

	require.NotEmpty(t, m.TopPosts)
	assert.Equal(t, popular.ID, m.TopPosts[0].ID)
}

func TestUserDetail(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := NewListingService(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	fan := createUser(t, db, "fan")

	post := createPendingPost(t, db, owner.ID, "gallery")
	other := createPendingPost(t, db, fan.ID, "elsewhere")
	require.NoError(t, db.Create(&models.Comment{Text: "mine", UserID: owner.ID, PostID: other.ID}).Error)
	require.NoError(t, db.Create(&models.SavedPost{UserID: owner.ID, PostID: other.ID}).Error)
	require.NoError(t, db.Create(&models.Comment{Text: "theirs", UserID: fan.ID, PostID: post.ID}).Error)

	detail, err := svc.UserDetail(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner", detail.Username)

	require.Len(t, detail.Posts, 1)
	assert.Equal(t, post.ID, detail.Posts[0].ID)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "mine", detail.Comments[0].Text)
	require.Len(t, detail.SavedPosts, 1)
	require.NotNil(t, detail.SavedPosts[0].Post)
	assert.Equal(t, other.ID, detail.SavedPosts[0].Post.ID)

	assert.EqualValues(t, 1, detail.Counts.Posts)
	assert.EqualValues(t, 1, detail.Counts.Comments)
	assert.EqualValues(t, 1, detail.Counts.SavedPosts)
}

func TestUserDetailNotFound(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := NewListingService(db)

	_, err := svc.UserDetail(context.Background(), 4242)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
