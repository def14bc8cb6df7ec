package usecase

import (
	"context"
	"strings"

	"blog-api/pkg/logger"
	"blog-api/services/blog/internal/entity"
	"blog-api/services/blog/internal/repo/persistent"
)

type CategoryUseCase interface {
	ListCategories(ctx context.Context) ([]entity.Category, error)
	CreateCategory(ctx context.Context, name string) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
}

type categoryUseCase struct {
	categories persistent.CategoryRepository
	logger     *logger.Logger
}

func NewCategoryUseCase(categories persistent.CategoryRepository, logger *logger.Logger) CategoryUseCase {
	return &categoryUseCase{categories: categories, logger: logger}
}

func (uc *categoryUseCase) ListCategories(ctx context.Context) ([]entity.Category, error) {
	return uc.categories.List(ctx)
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, name string) (*entity.Category, error) {
	if err := entity.ValidateCategoryName(name); err != nil {
		return nil, err
	}

	category := &entity.Category{Name: strings.TrimSpace(name)}
	if err := uc.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, id uint) error {
	if err := uc.categories.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("Category %d deleted", id)
	return nil
}
