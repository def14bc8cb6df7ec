package persistent

import (
	"context"

	"blog-api/pkg/models"
	"blog-api/services/blog/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	GetByID(ctx context.Context, postID, id uint) (*entity.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]entity.Comment, error)
	UpdateContent(ctx context.Context, id uint, content string) error
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	m := &models.Comment{
		PostID:   comment.PostID,
		AuthorID: comment.AuthorID,
		Content:  comment.Content,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		if isForeignKeyViolation(err) {
			return entity.ErrPostNotFound
		}
		return err
	}

	comment.ID = m.ID
	comment.CreatedAt = m.CreatedAt
	return nil
}

// GetByID only finds the comment under the post it belongs to.
func (r *commentRepository) GetByID(ctx context.Context, postID, id uint) (*entity.Comment, error) {
	var m models.Comment
	err := r.db.WithContext(ctx).Preload("Author").
		Where("id = ? AND post_id = ?", id, postID).
		First(&m).Error
	if err != nil {
		return nil, notFound(err, entity.ErrCommentNotFound)
	}
	return ToCommentEntity(&m), nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]entity.Comment, error) {
	var rows []models.Comment
	err := r.db.WithContext(ctx).Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	comments := make([]entity.Comment, 0, len(rows))
	for i := range rows {
		comments = append(comments, *ToCommentEntity(&rows[i]))
	}
	return comments, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, id uint, content string) error {
	res := r.db.WithContext(ctx).Model(&models.Comment{ID: id}).Update("content", content)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrCommentNotFound
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrCommentNotFound
	}
	return nil
}
