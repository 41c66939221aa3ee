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

// MockCommentRepository is a mock of the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func newCommentTestServer(commentRepo *MockCommentRepository, postRepo *MockPostRepository) *Server {
	return &Server{
		commentRepo:    commentRepo,
		postRepo:       postRepo,
		commentService: service.NewCommentService(commentRepo, postRepo),
	}
}

func TestCreateComment(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]interface{}
		mockSetup      func(comments *MockCommentRepository, posts *MockPostRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]interface{}{"content": "Nice post"},
			mockSetup: func(comments *MockCommentRepository, posts *MockPostRepository) {
				posts.On("GetByID", mock.Anything, uint(1)).
					Return(&models.Post{ID: 1}, nil)
				comments.On("Create", mock.Anything, mock.Anything).Return(nil)
				comments.On("GetByID", mock.Anything, mock.Anything).
					Return(&models.Comment{ID: 5, PostID: 1, Content: "Nice post"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Missing Post",
			body: map[string]interface{}{"content": "Nice post"},
			mockSetup: func(comments *MockCommentRepository, posts *MockPostRepository) {
				posts.On("GetByID", mock.Anything, uint(1)).
					Return(nil, models.NewNotFoundError("Post", uint(1)))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "Empty Content",
			body: map[string]interface{}{"content": ""},
			mockSetup: func(comments *MockCommentRepository, posts *MockPostRepository) {
				posts.On("GetByID", mock.Anything, uint(1)).
					Return(&models.Post{ID: 1}, nil)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Reply To Other Post",
			body: map[string]interface{}{"content": "reply", "parent_id": 7},
			mockSetup: func(comments *MockCommentRepository, posts *MockPostRepository) {
				posts.On("GetByID", mock.Anything, uint(1)).
					Return(&models.Post{ID: 1}, nil)
				comments.On("GetByID", mock.Anything, uint(7)).
					Return(&models.Comment{ID: 7, PostID: 2}, nil)
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			commentRepo := new(MockCommentRepository)
			postRepo := new(MockPostRepository)
			s := newCommentTestServer(commentRepo, postRepo)

			withTestUser(app, 1)
			app.Post("/posts/:id/comments", s.CreateComment)
			tt.mockSetup(commentRepo, postRepo)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/posts/1/comments", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestGetComments(t *testing.T) {
	app := fiber.New()
	commentRepo := new(MockCommentRepository)
	postRepo := new(MockPostRepository)
	s := newCommentTestServer(commentRepo, postRepo)

	app.Get("/posts/:id/comments", s.GetComments)

	t.Run("Success", func(t *testing.T) {
		parentID := uint(1)
		postRepo.On("GetByID", mock.Anything, uint(1)).
			Return(&models.Post{ID: 1}, nil).Once()
		commentRepo.On("ListByPost", mock.Anything, uint(1)).
			Return([]*models.Comment{
				{ID: 1, PostID: 1, Content: "First"},
				{ID: 2, PostID: 1, Content: "A reply", ParentID: &parentID},
			}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/posts/1/comments", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var comments []models.Comment
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&comments))
		require.Len(t, comments, 2)
		assert.Equal(t, "First", comments[0].Content)
		require.NotNil(t, comments[1].ParentID)
		assert.Equal(t, uint(1), *comments[1].ParentID)
	})

	t.Run("Missing Post", func(t *testing.T) {
		postRepo.On("GetByID", mock.Anything, uint(99)).
			Return(nil, models.NewNotFoundError("Post", uint(99))).Once()

		req := httptest.NewRequest(http.MethodGet, "/posts/99/comments", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
