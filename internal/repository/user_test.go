package repository

import (
	"context"
	"regexp"
	"testing"

	"ideahub/internal/models"
	"ideahub/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
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

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	query := regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)

	tests := []struct {
		name         string
		userID       uint
		mockBehavior func()
		expectedName string
		expectedCode string
	}{
		{
			name:   "Success",
			userID: 1,
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "name", "email", "role", "is_public"}).
					AddRow(1, "Alice", "alice@example.com", "DEVELOPER", true)
				mock.ExpectQuery(query).WithArgs(1, 1).WillReturnRows(rows)
			},
			expectedName: "Alice",
		},
		{
			name:   "Not Found",
			userID: 99,
			mockBehavior: func() {
				mock.ExpectQuery(query).WithArgs(99, 1).WillReturnError(gorm.ErrRecordNotFound)
			},
			expectedCode: models.CodeNotFound,
		},
		{
			name:   "Storage Failure",
			userID: 2,
			mockBehavior: func() {
				mock.ExpectQuery(query).WithArgs(2, 1).WillReturnError(assert.AnError)
			},
			expectedCode: models.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByID(ctx, tt.userID)

			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, models.ErrorCode(err))
			} else if assert.NotNil(t, user) {
				assert.Equal(t, tt.expectedName, user.Name)
				assert.Equal(t, models.RoleDeveloper, user.Role)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Create_DuplicateEmailIsConflict(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.User{Name: "A", Email: "a@example.com", Role: models.RoleRegular})
	assert.Equal(t, models.CodeConflict, models.ErrorCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice", models.RoleDeveloper)
	bob := testutil.CreateUser(t, db, "bob", models.RoleRegular)

	bio := "Builds things"
	alice.Name = "Alice Doe"
	alice.Bio = &bio
	alice.IsPublic = false
	require.NoError(t, repo.UpdateProfile(ctx, alice))

	got, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Doe", got.Name)
	require.NotNil(t, got.Bio)
	assert.Equal(t, "Builds things", *got.Bio)
	assert.False(t, got.IsPublic)
	assert.NotEmpty(t, got.Password, "profile updates must not touch the password hash")

	// Clearing an optional field stores NULL.
	got.Bio = nil
	require.NoError(t, repo.UpdateProfile(ctx, got))
	got, err = repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Bio)

	got.Email = bob.Email
	err = repo.UpdateProfile(ctx, got)
	assert.Equal(t, models.CodeConflict, models.ErrorCode(err))

	missing := &models.User{ID: 9999, Name: "x", Email: "x@example.com"}
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(repo.UpdateProfile(ctx, missing)))
}

func TestUserRepository_GetByEmailAndSetRole(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := testutil.CreateUser(t, db, "carol", models.RoleRegular)

	got, err := repo.GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	none, err := repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, repo.SetRole(ctx, u.ID, models.RoleDeveloper))
	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleDeveloper, got.Role)

	assert.Equal(t, models.CodeNotFound, models.ErrorCode(repo.SetRole(ctx, 4242, models.RoleDeveloper)))

	users, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
