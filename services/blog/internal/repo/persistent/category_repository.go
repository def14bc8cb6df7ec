package persistent

import (
	"context"

	"blog-api/pkg/models"
	"blog-api/services/blog/internal/entity"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]entity.Category, error)
	Create(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]entity.Category, error) {
	var rows []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	categories := make([]entity.Category, 0, len(rows))
	for i := range rows {
		categories = append(categories, *ToCategoryEntity(&rows[i]))
	}
	return categories, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	m := &models.Category{Name: category.Name}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	category.ID = m.ID
	return nil
}

// Delete refuses to remove a category that posts still point at.
func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inUse int64
		if err := tx.Model(&models.Post{}).Where("category_id = ?", id).Count(&inUse).Error; err != nil {
			return err
		}
		if inUse > 0 {
			return entity.ErrCategoryInUse
		}

		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return entity.ErrCategoryNotFound
		}
		return nil
	})
	if isForeignKeyViolation(err) {
		return entity.ErrCategoryInUse
	}
	return err
}
