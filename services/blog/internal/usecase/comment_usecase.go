package usecase

import (
	"context"

	"blog-api/pkg/logger"
	"blog-api/pkg/queue"
	"blog-api/services/blog/internal/entity"
	"blog-api/services/blog/internal/repo/persistent"
)

type CommentUseCase interface {
	ListComments(ctx context.Context, postID uint) ([]entity.Comment, error)
	CreateComment(ctx context.Context, actor entity.Actor, postID uint, content string) (*entity.Comment, error)
	GetComment(ctx context.Context, postID, commentID uint) (*entity.Comment, error)
	UpdateComment(ctx context.Context, actor entity.Actor, postID, commentID uint, content string) (*entity.Comment, error)
	DeleteComment(ctx context.Context, actor entity.Actor, postID, commentID uint) error
}

type commentUseCase struct {
	comments persistent.CommentRepository
	posts    persistent.PostRepository
	notifier Notifier
	logger   *logger.Logger
}

func NewCommentUseCase(
	comments persistent.CommentRepository,
	posts persistent.PostRepository,
	notifier Notifier,
	logger *logger.Logger,
) CommentUseCase {
	return &commentUseCase{
		comments: comments,
		posts:    posts,
		notifier: notifier,
		logger:   logger,
	}
}

func (uc *commentUseCase) ListComments(ctx context.Context, postID uint) ([]entity.Comment, error) {
	exists, err := uc.posts.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, entity.ErrPostNotFound
	}
	return uc.comments.ListByPost(ctx, postID)
}

func (uc *commentUseCase) CreateComment(ctx context.Context, actor entity.Actor, postID uint, content string) (*entity.Comment, error) {
	if !actor.Authenticated() {
		return nil, entity.ErrUnauthenticated
	}
	if err := entity.ValidateCommentContent(content); err != nil {
		return nil, err
	}

	post, err := uc.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &entity.Comment{PostID: postID, AuthorID: actor.UserID, Content: content}
	if err := uc.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	if uc.notifier != nil && post.AuthorID != nil && *post.AuthorID != actor.UserID {
		go publish(uc.notifier, uc.logger, queue.NotificationTask{
			Type:     queue.TaskTypeComment,
			UserID:   *post.AuthorID,
			ActorID:  actor.UserID,
			PostID:   postID,
			Priority: 5,
		})
	}

	return uc.comments.GetByID(ctx, postID, comment.ID)
}

func (uc *commentUseCase) GetComment(ctx context.Context, postID, commentID uint) (*entity.Comment, error) {
	return uc.comments.GetByID(ctx, postID, commentID)
}

func (uc *commentUseCase) editable(ctx context.Context, actor entity.Actor, postID, commentID uint) (*entity.Comment, error) {
	if !actor.Authenticated() {
		return nil, entity.ErrUnauthenticated
	}

	comment, err := uc.comments.GetByID(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(&comment.AuthorID) {
		return nil, entity.ErrForbidden
	}
	return comment, nil
}

func (uc *commentUseCase) UpdateComment(ctx context.Context, actor entity.Actor, postID, commentID uint, content string) (*entity.Comment, error) {
	comment, err := uc.editable(ctx, actor, postID, commentID)
	if err != nil {
		return nil, err
	}
	if err := entity.ValidateCommentContent(content); err != nil {
		return nil, err
	}

	if err := uc.comments.UpdateContent(ctx, comment.ID, content); err != nil {
		return nil, err
	}
	comment.Content = content
	return comment, nil
}

func (uc *commentUseCase) DeleteComment(ctx context.Context, actor entity.Actor, postID, commentID uint) error {
	comment, err := uc.editable(ctx, actor, postID, commentID)
	if err != nil {
		return err
	}
	return uc.comments.Delete(ctx, comment.ID)
}
