package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestNotificationRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	tests := []struct {
		name          string
		id            uint
		mockBehavior  func()
		expectedError bool
	}{
		{
			name: "Success",
			id:   1,
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "user_id", "type", "read", "post_id", "media_title", "media_url"}).
					AddRow(1, 5, "MEDIA_APPROVED", false, 9, "sunset", "https://cdn.example.com/sunset.jpg")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "notifications" WHERE "notifications"."id" = $1 ORDER BY "notifications"."id" LIMIT $2`)).
					WithArgs(1, 1).
					WillReturnRows(rows)
			},
		},
		{
			name: "Not Found",
			id:   99,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "notifications" WHERE "notifications"."id" = $1 ORDER BY "notifications"."id" LIMIT $2`)).
					WithArgs(99, 1).
					WillReturnError(gorm.ErrRecordNotFound)
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()

			notification, err := repo.GetByID(ctx, tt.id)
			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, notification)
			} else {
				require.NoError(t, err)
				require.NotNil(t, notification)
				assert.Equal(t, tt.id, notification.ID)
				assert.EqualValues(t, 5, notification.UserID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNotificationRepository_UnreadCount(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository(db)

	rows := sqlmock.NewRows([]string{"count"}).AddRow(3)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "notifications" WHERE user_id = $1 AND read = $2`)).
		WithArgs(7, false).
		WillReturnRows(rows)

	count, err := repo.UnreadCount(context.Background(), 7)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkRead(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "notifications" SET "read"=$1 WHERE id = $2`)).
		WithArgs(true, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.MarkRead(context.Background(), 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}
