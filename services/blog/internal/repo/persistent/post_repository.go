package persistent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"blog-api/pkg/models"
	"blog-api/services/blog/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	GetByID(ctx context.Context, id uint) (*entity.Post, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Update(ctx context.Context, post *entity.Post) error
	Delete(ctx context.Context, id uint) error
	IncrementViews(ctx context.Context, id uint) error
	SetCover(ctx context.Context, id uint, url string) error
	List(ctx context.Context, filter entity.PostFilter) ([]entity.PostDetail, int64, error)
	IDsByAuthor(ctx context.Context, authorID uint) ([]uint, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	m := ToPostModel(post)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		return invalidCategory(err)
	}

	post.ID = m.ID
	post.CreatedAt = m.CreatedAt
	post.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*entity.Post, error) {
	var m models.Post
	if err := r.db.WithContext(ctx).Preload("Author").First(&m, id).Error; err != nil {
		return nil, notFound(err, entity.ErrPostNotFound)
	}
	return ToPostEntity(&m), nil
}

func (r *postRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *postRepository) Update(ctx context.Context, post *entity.Post) error {
	res := r.db.WithContext(ctx).Model(&models.Post{ID: post.ID}).
		Select("title", "content", "category_id").
		Updates(&models.Post{Title: post.Title, Content: post.Content, CategoryID: post.CategoryID})
	if res.Error != nil {
		return invalidCategory(res.Error)
	}
	if res.RowsAffected == 0 {
		return entity.ErrPostNotFound
	}
	return nil
}

// Delete removes the post together with its votes and comments.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return entity.ErrPostNotFound
		}
		return nil
	})
}

// IncrementViews bumps the counter in SQL so concurrent readers never lose
// an increment. updated_at is left alone.
func (r *postRepository) IncrementViews(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("views", clause.Expr{SQL: "views + ?", Vars: []interface{}{1}})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrPostNotFound
	}
	return nil
}

func (r *postRepository) SetCover(ctx context.Context, id uint, url string) error {
	res := r.db.WithContext(ctx).Model(&models.Post{ID: id}).Update("cover_url", url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrPostNotFound
	}
	return nil
}

type postListRow struct {
	ID           uint
	Title        string
	Content      string
	CategoryID   uint
	AuthorName   *string
	Views        uint
	CoverURL     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LikeCount    int64
	DislikeCount int64
}

const ratingExpr = "(COALESCE(v.like_count, 0) - COALESCE(v.dislike_count, 0))"

// List returns one page of posts with their vote aggregates and the total
// number of posts matching the filter.
func (r *postRepository) List(ctx context.Context, filter entity.PostFilter) ([]entity.PostDetail, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	ordering, ok := entity.PostOrderings[filter.Ordering]
	if !ok {
		ordering = entity.PostOrderings[entity.DefaultPostOrdering]
	}

	query := r.filtered(ctx, filter).
		Select("posts.id, posts.title, posts.content, posts.category_id, users.username AS author_name, " +
			"posts.views, posts.cover_url, posts.created_at, posts.updated_at, " +
			"COALESCE(v.like_count, 0) AS like_count, COALESCE(v.dislike_count, 0) AS dislike_count, " +
			ratingExpr + " AS rating").
		Order(ordering).
		Order("posts.id DESC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var rows []postListRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}

	results := make([]entity.PostDetail, 0, len(rows))
	for _, row := range rows {
		counts := entity.NewVoteCounts(row.LikeCount, row.DislikeCount)
		results = append(results, entity.PostDetail{
			ID:           row.ID,
			Title:        row.Title,
			Content:      row.Content,
			Category:     row.CategoryID,
			Author:       row.AuthorName,
			Views:        row.Views,
			CoverURL:     row.CoverURL,
			TimeCreate:   row.CreatedAt,
			TimeUpdate:   row.UpdatedAt,
			LikeCount:    counts.LikeCount,
			DislikeCount: counts.DislikeCount,
			Rating:       counts.Rating,
		})
	}

	return results, total, nil
}

func (r *postRepository) filtered(ctx context.Context, filter entity.PostFilter) *gorm.DB {
	votes := r.db.Model(&models.Vote{}).
		Select("post_id, SUM(CASE WHEN is_like THEN 1 ELSE 0 END) AS like_count, " +
			"SUM(CASE WHEN is_like THEN 0 ELSE 1 END) AS dislike_count").
		Group("post_id")

	query := r.db.WithContext(ctx).Table("posts").
		Joins("LEFT JOIN users ON users.id = posts.author_id").
		Joins("LEFT JOIN categories ON categories.id = posts.category_id").
		Joins("LEFT JOIN (?) AS v ON v.post_id = posts.id", votes)

	if filter.CreatedFrom != nil {
		query = query.Where("posts.created_at >= ?", *filter.CreatedFrom)
	}
	if filter.Category != "" {
		query = query.Where("LOWER(categories.name) LIKE ? ESCAPE '\\'", likePattern(filter.Category))
	}
	if filter.Rating != nil {
		query = query.Where(ratingExpr+" = ?", *filter.Rating)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(posts.title) LIKE ? ESCAPE '\\' OR LOWER(posts.content) LIKE ? ESCAPE '\\'", pattern, pattern)
	}

	return query
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a case-insensitive substring pattern. Wildcards in the
// input match literally; callers pair it with ESCAPE '\'.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}

func (r *postRepository) IDsByAuthor(ctx context.Context, authorID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("author_id = ?", authorID).
		Pluck("id", &ids).Error
	return ids, err
}
