package service

import (
	"context"
	"strings"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	listFn          func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		listFn:          func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Parallel()

	t.Run("updates bio and picture", func(t *testing.T) {
		t.Parallel()

		repo := noopUserRepo()
		var saved *models.User
		repo.updateFn = func(_ context.Context, user *models.User) error {
			saved = user
			return nil
		}

		svc := NewUserService(repo)
		user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID:         1,
			Bio:            "Writer of things",
			ProfilePicture: "/uploads/abc123.png",
		})
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, "Writer of things", user.Bio)
		assert.Equal(t, "/uploads/abc123.png", user.ProfilePicture)
	})

	t.Run("empty fields keep existing values", func(t *testing.T) {
		t.Parallel()

		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Bio: "old bio", ProfilePicture: "old.png"}, nil
		}

		svc := NewUserService(repo)
		user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1})
		require.NoError(t, err)
		assert.Equal(t, "old bio", user.Bio)
		assert.Equal(t, "old.png", user.ProfilePicture)
	})

	t.Run("bio too long", func(t *testing.T) {
		t.Parallel()

		svc := NewUserService(noopUserRepo())
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID: 1,
			Bio:    strings.Repeat("x", 501),
		})
		assertValidationError(t, err)
	})

	t.Run("missing user", func(t *testing.T) {
		t.Parallel()

		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return nil, models.NewNotFoundError("User", id)
		}

		svc := NewUserService(repo)
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 99, Bio: "x"})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})
}

func TestUserService_ListUsers(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.listFn = func(_ context.Context, limit, offset int) ([]models.User, error) {
		return []models.User{{ID: 1, Username: "alice"}, {ID: 2, Username: "bob"}}, nil
	}

	svc := NewUserService(repo)
	users, err := svc.ListUsers(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
