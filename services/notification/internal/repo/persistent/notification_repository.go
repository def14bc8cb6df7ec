package persistent

import (
	"context"
	"errors"

	"blog-api/pkg/models"
	"blog-api/services/notification/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostSummary is the slice of a post a notification message needs.
type PostSummary struct {
	Title    string
	AuthorID *uint
}

type NotificationRepository interface {
	Create(ctx context.Context, userID uint, n *entity.Notification) error
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]entity.Notification, int64, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, userID, id uint) error
	MarkAllRead(ctx context.Context, userID uint) (int64, error)
	GetUsername(ctx context.Context, userID uint) (string, error)
	GetPost(ctx context.Context, postID uint) (*PostSummary, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, userID uint, n *entity.Notification) error {
	m := ToNotificationModel(userID, n)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		return err
	}
	n.ID = m.ID
	n.CreatedAt = m.CreatedAt
	return nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]entity.Notification, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Notification
	if err := query.Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]entity.Notification, 0, len(rows))
	for i := range rows {
		out = append(out, ToNotificationEntity(&rows[i]))
	}
	return out, total, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).Count(&n).Error
	return n, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		UpdateColumn("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Matched rows count even when already read.
		return entity.ErrNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		UpdateColumn("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) GetUsername(ctx context.Context, userID uint) (string, error) {
	var user models.User
	err := r.db.WithContext(ctx).Select("username").Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", entity.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

func (r *notificationRepository) GetPost(ctx context.Context, postID uint) (*PostSummary, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Select("title", "author_id").Where("id = ?", postID).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &PostSummary{Title: post.Title, AuthorID: post.AuthorID}, nil
}
