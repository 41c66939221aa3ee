package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) IncrementLikes(ctx context.Context, id uint) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

// newPostTestServer wires a Server with the mock repo behind the real service.
func newPostTestServer(mockRepo *MockPostRepository) *Server {
	return &Server{
		postRepo:    mockRepo,
		postService: service.NewPostService(mockRepo),
	}
}

func withTestUser(app *fiber.App, userID uint) {
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	})
}

func TestCreatePost(t *testing.T) {
	app := fiber.New()
	mockRepo := new(MockPostRepository)
	s := newPostTestServer(mockRepo)

	withTestUser(app, 1)
	app.Post("/posts", s.CreatePost)

	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func()
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{
				"title":    "New Post",
				"content":  "Hello world",
				"category": "Technology",
				"tags":     "go, fiber",
			},
			mockSetup: func() {
				mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
				mockRepo.On("GetByID", mock.Anything, mock.Anything).
					Return(&models.Post{ID: 1, Title: "New Post"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Missing Fields",
			body: map[string]string{
				"title": "",
			},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestGetPosts(t *testing.T) {
	app := fiber.New()
	mockRepo := new(MockPostRepository)
	s := newPostTestServer(mockRepo)

	app.Get("/posts", s.GetPosts)

	mockRepo.On("List", mock.Anything, 20, 0).
		Return([]*models.Post{{ID: 2, Title: "Newest"}, {ID: 1, Title: "Older"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var posts []models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
	require.Len(t, posts, 2)
	assert.Equal(t, "Newest", posts[0].Title)
}

func TestGetPost(t *testing.T) {
	app := fiber.New()
	mockRepo := new(MockPostRepository)
	s := newPostTestServer(mockRepo)

	app.Get("/posts/:id", s.GetPost)

	t.Run("Success", func(t *testing.T) {
		mockRepo.On("GetByID", mock.Anything, uint(1)).
			Return(&models.Post{ID: 1, Title: "Hello", CommentsCount: 2}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/posts/1", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockRepo.On("GetByID", mock.Anything, uint(99)).
			Return(nil, models.NewNotFoundError("Post", uint(99))).Once()

		req := httptest.NewRequest(http.MethodGet, "/posts/99", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Invalid ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/posts/banana", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestDeletePost(t *testing.T) {
	tests := []struct {
		name           string
		postID         string
		mockSetup      func(m *MockPostRepository)
		expectedStatus int
	}{
		{
			name:   "Owner Deletes",
			postID: "1",
			mockSetup: func(m *MockPostRepository) {
				m.On("GetByID", mock.Anything, uint(1)).
					Return(&models.Post{ID: 1, UserID: 1}, nil)
				m.On("Delete", mock.Anything, uint(1)).Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:   "Not Owner",
			postID: "2",
			mockSetup: func(m *MockPostRepository) {
				m.On("GetByID", mock.Anything, uint(2)).
					Return(&models.Post{ID: 2, UserID: 99}, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "Already Gone",
			postID: "3",
			mockSetup: func(m *MockPostRepository) {
				m.On("GetByID", mock.Anything, uint(3)).
					Return(nil, models.NewNotFoundError("Post", uint(3)))
			},
			expectedStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			mockRepo := new(MockPostRepository)
			s := newPostTestServer(mockRepo)

			withTestUser(app, 1)
			app.Delete("/posts/:id", s.DeletePost)
			tt.mockSetup(mockRepo)

			req := httptest.NewRequest(http.MethodDelete, "/posts/"+tt.postID, nil)
			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestLikePost(t *testing.T) {
	app := fiber.New()
	mockRepo := new(MockPostRepository)
	s := newPostTestServer(mockRepo)

	app.Post("/posts/:id/like", s.LikePost)

	t.Run("Success", func(t *testing.T) {
		mockRepo.On("IncrementLikes", mock.Anything, uint(1)).Return(4, nil).Once()
		mockRepo.On("GetByID", mock.Anything, uint(1)).
			Return(&models.Post{ID: 1, Likes: 4}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/posts/1/like", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var post models.Post
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&post))
		assert.Equal(t, 4, post.Likes)
	})

	t.Run("Missing Post", func(t *testing.T) {
		mockRepo.On("IncrementLikes", mock.Anything, uint(99)).
			Return(0, models.NewNotFoundError("Post", uint(99))).Once()

		req := httptest.NewRequest(http.MethodPost, "/posts/99/like", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
