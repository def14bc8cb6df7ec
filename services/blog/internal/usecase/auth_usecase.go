package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"blog-api/pkg/cache"
	"blog-api/pkg/jwt"
	"blog-api/pkg/logger"
	"blog-api/services/blog/internal/entity"
	"blog-api/services/blog/internal/repo/persistent"

	"golang.org/x/crypto/bcrypt"
)

type AuthUseCase interface {
	Register(ctx context.Context, username, email, password string) (*entity.User, *entity.TokenPair, error)
	Login(ctx context.Context, username, password string) (*entity.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*entity.TokenPair, error)
	GetUser(ctx context.Context, userID uint) (*entity.User, error)
	// DeleteAccount removes the user's votes and comments and drops the
	// cached detail of every post that changed as a result.
	DeleteAccount(ctx context.Context, userID uint) error
}

type authUseCase struct {
	users      persistent.UserRepository
	posts      persistent.PostRepository
	votes      persistent.VoteRepository
	jwtService *jwt.Service
	cache      *cache.ReadThrough
	logger     *logger.Logger
}

func NewAuthUseCase(
	users persistent.UserRepository,
	posts persistent.PostRepository,
	votes persistent.VoteRepository,
	jwtService *jwt.Service,
	readThrough *cache.ReadThrough,
	logger *logger.Logger,
) AuthUseCase {
	return &authUseCase{
		users:      users,
		posts:      posts,
		votes:      votes,
		jwtService: jwtService,
		cache:      readThrough,
		logger:     logger,
	}
}

func (uc *authUseCase) Register(ctx context.Context, username, email, password string) (*entity.User, *entity.TokenPair, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	// Whitespace-only usernames pass the binding's required rule.
	if username == "" {
		return nil, nil, entity.NewValidationError("username", "this field may not be blank")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("Failed to hash password: %v", err)
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
		Role:     entity.RoleUser,
		IsActive: true,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	tokens, err := uc.issue(user)
	if err != nil {
		return nil, nil, err
	}

	user.Password = ""
	return user, tokens, nil
}

func (uc *authUseCase) Login(ctx context.Context, username, password string) (*entity.TokenPair, error) {
	user, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, entity.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, entity.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, entity.ErrInvalidCredentials
	}

	return uc.issue(user)
}

func (uc *authUseCase) Refresh(ctx context.Context, refreshToken string) (*entity.TokenPair, error) {
	claims, err := uc.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("token is invalid or expired: %w", entity.ErrUnauthenticated)
	}

	// The account may have been deleted or deactivated since the refresh
	// token was issued.
	user, err := uc.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, entity.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, entity.ErrInvalidCredentials
	}

	access, err := uc.jwtService.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &entity.TokenPair{Access: access}, nil
}

func (uc *authUseCase) GetUser(ctx context.Context, userID uint) (*entity.User, error) {
	if userID == 0 {
		return nil, entity.ErrUnauthenticated
	}

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

func (uc *authUseCase) DeleteAccount(ctx context.Context, userID uint) error {
	if userID == 0 {
		return entity.ErrUnauthenticated
	}

	authored, err := uc.posts.IDsByAuthor(ctx, userID)
	if err != nil {
		return fmt.Errorf("list posts of user %d: %w", userID, err)
	}
	voted, err := uc.votes.PostIDsByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list votes of user %d: %w", userID, err)
	}

	if err := uc.users.Delete(ctx, userID); err != nil {
		return err
	}

	uc.cache.InvalidatePosts(ctx, authored...)
	uc.cache.InvalidatePosts(ctx, voted...)
	uc.logger.Info("User %d deleted, invalidated %d authored and %d voted posts", userID, len(authored), len(voted))
	return nil
}

func (uc *authUseCase) issue(user *entity.User) (*entity.TokenPair, error) {
	access, err := uc.jwtService.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, fmt.Errorf("generate token: %w", err)
	}
	refresh, err := uc.jwtService.GenerateRefreshToken(user.ID, string(user.Role))
	if err != nil {
		uc.logger.Error("Failed to generate refresh token: %v", err)
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	return &entity.TokenPair{Access: access, Refresh: refresh}, nil
}
