package http

import (
	"context"
	"io"

	"blog-api/pkg/middleware"
	"blog-api/services/blog/internal/entity"
	"blog-api/services/blog/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

// MockVoteLedger is a mock implementation of VoteLedger
type MockVoteLedger struct {
	mock.Mock
}

func (m *MockVoteLedger) CastVote(ctx context.Context, userID, postID uint, isLike bool) (bool, error) {
	args := m.Called(userID, postID, isLike)
	return args.Bool(0), args.Error(1)
}

func (m *MockVoteLedger) Counts(ctx context.Context, postID uint) (entity.VoteCounts, error) {
	args := m.Called(postID)
	return args.Get(0).(entity.VoteCounts), args.Error(1)
}

var _ usecase.VoteLedger = (*MockVoteLedger)(nil)

// MockPostUseCase is a mock implementation of PostUseCase
type MockPostUseCase struct {
	mock.Mock
}

func (m *MockPostUseCase) GetPostDetail(ctx context.Context, id uint) (entity.PostDetail, error) {
	args := m.Called(id)
	return args.Get(0).(entity.PostDetail), args.Error(1)
}

func (m *MockPostUseCase) GetRating(ctx context.Context, id uint) (*entity.PostRating, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PostRating), args.Error(1)
}

func (m *MockPostUseCase) ListPosts(ctx context.Context, filter entity.PostFilter) ([]entity.PostDetail, int64, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.PostDetail), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostUseCase) CreatePost(ctx context.Context, actor entity.Actor, input entity.PostInput) (entity.PostDetail, error) {
	args := m.Called(actor, input)
	return args.Get(0).(entity.PostDetail), args.Error(1)
}

func (m *MockPostUseCase) GetEditablePost(ctx context.Context, actor entity.Actor, id uint) (entity.PostDetail, error) {
	args := m.Called(actor, id)
	return args.Get(0).(entity.PostDetail), args.Error(1)
}

func (m *MockPostUseCase) UpdatePost(ctx context.Context, actor entity.Actor, id uint, input entity.PostInput, partial bool) (entity.PostDetail, error) {
	args := m.Called(actor, id, input, partial)
	return args.Get(0).(entity.PostDetail), args.Error(1)
}

func (m *MockPostUseCase) DeletePost(ctx context.Context, actor entity.Actor, id uint) error {
	args := m.Called(actor, id)
	return args.Error(0)
}

func (m *MockPostUseCase) UploadCover(ctx context.Context, actor entity.Actor, id uint, filename, contentType string, body io.ReadSeeker) (entity.PostDetail, error) {
	args := m.Called(actor, id, filename, contentType)
	return args.Get(0).(entity.PostDetail), args.Error(1)
}

var _ usecase.PostUseCase = (*MockPostUseCase)(nil)

// MockAuthUseCase is a mock implementation of AuthUseCase
type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Register(ctx context.Context, username, email, password string) (*entity.User, *entity.TokenPair, error) {
	args := m.Called(username, email, password)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*entity.User), args.Get(1).(*entity.TokenPair), args.Error(2)
}

func (m *MockAuthUseCase) Login(ctx context.Context, username, password string) (*entity.TokenPair, error) {
	args := m.Called(username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TokenPair), args.Error(1)
}

func (m *MockAuthUseCase) Refresh(ctx context.Context, refreshToken string) (*entity.TokenPair, error) {
	args := m.Called(refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TokenPair), args.Error(1)
}

func (m *MockAuthUseCase) GetUser(ctx context.Context, userID uint) (*entity.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAuthUseCase) DeleteAccount(ctx context.Context, userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

var _ usecase.AuthUseCase = (*MockAuthUseCase)(nil)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// asUser stands in for AuthMiddleware.
func asUser(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextRole, role)
		c.Next()
	}
}
