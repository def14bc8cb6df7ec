package usecase

import (
	"context"
	"errors"
	"fmt"

	"blog-api/pkg/logger"
	"blog-api/pkg/queue"
	"blog-api/services/notification/internal/entity"
	"blog-api/services/notification/internal/repo/persistent"
)

const maxMessageLen = 255

type NotificationUseCase interface {
	// HandleTask turns a queued task into a stored notification. Tasks that
	// can never succeed are reported with queue.ErrDropTask.
	HandleTask(ctx context.Context, task queue.NotificationTask) error
	ListNotifications(ctx context.Context, userID uint, limit, offset int) (*entity.Page, error)
	MarkRead(ctx context.Context, userID, id uint) error
	MarkAllRead(ctx context.Context, userID uint) (int64, error)
}

type notificationUseCase struct {
	notificationRepo persistent.NotificationRepository
	logger           *logger.Logger
}

func NewNotificationUseCase(notificationRepo persistent.NotificationRepository, logger *logger.Logger) NotificationUseCase {
	return &notificationUseCase{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

func (uc *notificationUseCase) HandleTask(ctx context.Context, task queue.NotificationTask) error {
	if task.Type != queue.TaskTypeVote && task.Type != queue.TaskTypeComment {
		return fmt.Errorf("%w %q: %w", entity.ErrUnknownTask, task.Type, queue.ErrDropTask)
	}
	if task.UserID == 0 || task.UserID == task.ActorID {
		return nil
	}

	post, err := uc.notificationRepo.GetPost(ctx, task.PostID)
	if errors.Is(err, entity.ErrNotFound) {
		return fmt.Errorf("post %d is gone: %w", task.PostID, queue.ErrDropTask)
	}
	if err != nil {
		return err
	}
	// The author may have deleted their account since the task was queued.
	if post.AuthorID == nil || *post.AuthorID != task.UserID {
		return fmt.Errorf("user %d no longer owns post %d: %w", task.UserID, task.PostID, queue.ErrDropTask)
	}

	actor, err := uc.notificationRepo.GetUsername(ctx, task.ActorID)
	if errors.Is(err, entity.ErrNotFound) {
		return fmt.Errorf("actor %d is gone: %w", task.ActorID, queue.ErrDropTask)
	}
	if err != nil {
		return err
	}

	n := &entity.Notification{
		Type:    task.Type,
		PostID:  task.PostID,
		ActorID: task.ActorID,
		Message: message(task, actor, post.Title),
	}
	if err := uc.notificationRepo.Create(ctx, task.UserID, n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}

	uc.logger.Info("[NOTIFICATION HANDLER] Stored %s notification %d for user %d", task.Type, n.ID, task.UserID)
	return nil
}

func message(task queue.NotificationTask, actor, title string) string {
	var msg string
	switch {
	case task.Type == queue.TaskTypeComment:
		msg = fmt.Sprintf("%s commented on your post %q", actor, title)
	case task.IsLike != nil && !*task.IsLike:
		msg = fmt.Sprintf("%s disliked your post %q", actor, title)
	default:
		msg = fmt.Sprintf("%s liked your post %q", actor, title)
	}
	if r := []rune(msg); len(r) > maxMessageLen {
		msg = string(r[:maxMessageLen-3]) + "..."
	}
	return msg
}

func (uc *notificationUseCase) ListNotifications(ctx context.Context, userID uint, limit, offset int) (*entity.Page, error) {
	items, total, err := uc.notificationRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	unread, err := uc.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count unread: %w", err)
	}
	return &entity.Page{Count: total, Unread: unread, Results: items}, nil
}

func (uc *notificationUseCase) MarkRead(ctx context.Context, userID, id uint) error {
	return uc.notificationRepo.MarkRead(ctx, userID, id)
}

func (uc *notificationUseCase) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	return uc.notificationRepo.MarkAllRead(ctx, userID)
}
