package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"

	"blog-api/pkg/cache"
	"blog-api/pkg/logger"
	"blog-api/pkg/s3"
	"blog-api/services/blog/internal/entity"
	"blog-api/services/blog/internal/repo/persistent"
)

type PostUseCase interface {
	// GetPostDetail counts a view and returns the cached detail.
	GetPostDetail(ctx context.Context, id uint) (entity.PostDetail, error)
	GetRating(ctx context.Context, id uint) (*entity.PostRating, error)
	ListPosts(ctx context.Context, filter entity.PostFilter) ([]entity.PostDetail, int64, error)
	CreatePost(ctx context.Context, actor entity.Actor, input entity.PostInput) (entity.PostDetail, error)
	GetEditablePost(ctx context.Context, actor entity.Actor, id uint) (entity.PostDetail, error)
	UpdatePost(ctx context.Context, actor entity.Actor, id uint, input entity.PostInput, partial bool) (entity.PostDetail, error)
	DeletePost(ctx context.Context, actor entity.Actor, id uint) error
	UploadCover(ctx context.Context, actor entity.Actor, id uint, filename, contentType string, body io.ReadSeeker) (entity.PostDetail, error)
}

type postUseCase struct {
	posts    persistent.PostRepository
	ledger   VoteLedger
	cache    *cache.ReadThrough
	uploader CoverUploader
	logger   *logger.Logger
}

// NewPostUseCase wires post operations. uploader may be nil, in which case
// cover uploads report ErrUnavailable.
func NewPostUseCase(
	posts persistent.PostRepository,
	ledger VoteLedger,
	readThrough *cache.ReadThrough,
	uploader CoverUploader,
	logger *logger.Logger,
) PostUseCase {
	return &postUseCase{
		posts:    posts,
		ledger:   ledger,
		cache:    readThrough,
		uploader: uploader,
		logger:   logger,
	}
}

func (uc *postUseCase) GetPostDetail(ctx context.Context, id uint) (entity.PostDetail, error) {
	if err := uc.posts.IncrementViews(ctx, id); err != nil {
		return entity.PostDetail{}, err
	}

	return cache.GetOrCompute(ctx, uc.cache, cache.PostKey(id), func(ctx context.Context) (entity.PostDetail, error) {
		return uc.compose(ctx, id)
	})
}

// compose builds the detail straight from the database.
func (uc *postUseCase) compose(ctx context.Context, id uint) (entity.PostDetail, error) {
	post, err := uc.posts.GetByID(ctx, id)
	if err != nil {
		return entity.PostDetail{}, err
	}

	counts, err := uc.ledger.Counts(ctx, id)
	if err != nil {
		return entity.PostDetail{}, err
	}

	return entity.NewPostDetail(post, counts), nil
}

func (uc *postUseCase) GetRating(ctx context.Context, id uint) (*entity.PostRating, error) {
	post, err := uc.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	counts, err := uc.ledger.Counts(ctx, id)
	if err != nil {
		return nil, err
	}

	return &entity.PostRating{ID: post.ID, Title: post.Title, VoteCounts: counts}, nil
}

func (uc *postUseCase) ListPosts(ctx context.Context, filter entity.PostFilter) ([]entity.PostDetail, int64, error) {
	if filter.Ordering != "" {
		if _, ok := entity.PostOrderings[filter.Ordering]; !ok {
			return nil, 0, entity.NewValidationError("ordering", fmt.Sprintf("unsupported ordering %q", filter.Ordering))
		}
	}
	return uc.posts.List(ctx, filter)
}

func (uc *postUseCase) CreatePost(ctx context.Context, actor entity.Actor, input entity.PostInput) (entity.PostDetail, error) {
	if !actor.Authenticated() {
		return entity.PostDetail{}, entity.ErrUnauthenticated
	}
	if err := input.Validate(false); err != nil {
		return entity.PostDetail{}, err
	}

	authorID := actor.UserID
	post := &entity.Post{AuthorID: &authorID}
	input.Apply(post)

	if err := uc.posts.Create(ctx, post); err != nil {
		return entity.PostDetail{}, err
	}
	uc.logger.Info("Post %d created by user %d", post.ID, actor.UserID)

	return uc.compose(ctx, post.ID)
}

// editable loads the post and checks the actor may change it.
func (uc *postUseCase) editable(ctx context.Context, actor entity.Actor, id uint) (*entity.Post, error) {
	if !actor.Authenticated() {
		return nil, entity.ErrUnauthenticated
	}

	post, err := uc.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(post.AuthorID) {
		return nil, entity.ErrForbidden
	}
	return post, nil
}

func (uc *postUseCase) GetEditablePost(ctx context.Context, actor entity.Actor, id uint) (entity.PostDetail, error) {
	if _, err := uc.editable(ctx, actor, id); err != nil {
		return entity.PostDetail{}, err
	}
	return uc.compose(ctx, id)
}

func (uc *postUseCase) UpdatePost(ctx context.Context, actor entity.Actor, id uint, input entity.PostInput, partial bool) (entity.PostDetail, error) {
	post, err := uc.editable(ctx, actor, id)
	if err != nil {
		return entity.PostDetail{}, err
	}
	if err := input.Validate(partial); err != nil {
		return entity.PostDetail{}, err
	}

	input.Apply(post)
	if err := uc.posts.Update(ctx, post); err != nil {
		return entity.PostDetail{}, err
	}
	uc.cache.Invalidate(ctx, cache.PostKey(id))

	return uc.compose(ctx, id)
}

func (uc *postUseCase) DeletePost(ctx context.Context, actor entity.Actor, id uint) error {
	if _, err := uc.editable(ctx, actor, id); err != nil {
		return err
	}

	if err := uc.posts.Delete(ctx, id); err != nil {
		return err
	}
	uc.cache.Invalidate(ctx, cache.PostKey(id))
	uc.logger.Info("Post %d deleted by user %d", id, actor.UserID)
	return nil
}

func (uc *postUseCase) UploadCover(ctx context.Context, actor entity.Actor, id uint, filename, contentType string, body io.ReadSeeker) (entity.PostDetail, error) {
	if uc.uploader == nil {
		return entity.PostDetail{}, entity.ErrUnavailable
	}
	if _, err := uc.editable(ctx, actor, id); err != nil {
		return entity.PostDetail{}, err
	}
	if !strings.HasPrefix(contentType, "image/") {
		return entity.PostDetail{}, entity.NewValidationError("cover", "upload a valid image")
	}

	url, err := uc.uploader.UploadFile(ctx, s3.CoverKey(id, filename), body, contentType)
	if err != nil {
		uc.logger.Error("Failed to upload cover for post %d: %v", id, err)
		return entity.PostDetail{}, fmt.Errorf("upload cover: %w", err)
	}

	if err := uc.posts.SetCover(ctx, id, url); err != nil {
		return entity.PostDetail{}, err
	}
	uc.cache.Invalidate(ctx, cache.PostKey(id))

	return uc.compose(ctx, id)
}
