package persistent

import (
	"blog-api/pkg/models"
	"blog-api/services/blog/internal/entity"
)

func ToPostEntity(m *models.Post) *entity.Post {
	if m == nil {
		return nil
	}

	p := &entity.Post{
		ID:         m.ID,
		Title:      m.Title,
		Content:    m.Content,
		CategoryID: m.CategoryID,
		AuthorID:   m.AuthorID,
		Views:      m.Views,
		CoverURL:   m.CoverURL,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.Author != nil {
		name := m.Author.Username
		p.AuthorName = &name
	}
	return p
}

func ToPostModel(e *entity.Post) *models.Post {
	if e == nil {
		return nil
	}

	return &models.Post{
		ID:         e.ID,
		Title:      e.Title,
		Content:    e.Content,
		CategoryID: e.CategoryID,
		AuthorID:   e.AuthorID,
		Views:      e.Views,
		CoverURL:   e.CoverURL,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func ToVoteEntity(m *models.Vote) *entity.Vote {
	if m == nil {
		return nil
	}

	return &entity.Vote{
		ID:        m.ID,
		UserID:    m.UserID,
		PostID:    m.PostID,
		IsLike:    m.IsLike,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToCommentEntity(m *models.Comment) *entity.Comment {
	if m == nil {
		return nil
	}

	return &entity.Comment{
		ID:        m.ID,
		PostID:    m.PostID,
		AuthorID:  m.AuthorID,
		Author:    m.Author.Username,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func ToCategoryEntity(m *models.Category) *entity.Category {
	if m == nil {
		return nil
	}

	return &entity.Category{ID: m.ID, Name: m.Name}
}

func ToUserEntity(m *models.User) *entity.User {
	if m == nil {
		return nil
	}

	return &entity.User{
		ID:        m.ID,
		Username:  m.Username,
		Email:     m.Email,
		Password:  m.Password,
		Role:      entity.UserRole(m.Role),
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}

func ToUserModel(e *entity.User) *models.User {
	if e == nil {
		return nil
	}

	return &models.User{
		ID:       e.ID,
		Username: e.Username,
		Email:    e.Email,
		Password: e.Password,
		Role:     models.UserRole(e.Role),
		IsActive: e.IsActive,
	}
}
