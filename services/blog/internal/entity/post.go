package entity

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxTitleLength   = 100
	MaxContentLength = 255
)

type Post struct {
	ID         uint
	Title      string
	Content    string
	CategoryID uint
	AuthorID   *uint
	AuthorName *string
	Views      uint
	CoverURL   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsAuthor reports whether userID wrote the post. Posts whose author was
// deleted have no author.
func (p *Post) IsAuthor(userID uint) bool {
	return p.AuthorID != nil && *p.AuthorID == userID
}

// PostDetail is the representation served by the detail endpoint and stored
// in the cache.
type PostDetail struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Category     uint      `json:"category"`
	Author       *string   `json:"author"`
	Views        uint      `json:"views"`
	CoverURL     string    `json:"cover_url,omitempty"`
	TimeCreate   time.Time `json:"time_create"`
	TimeUpdate   time.Time `json:"time_update"`
	LikeCount    int64     `json:"like_count"`
	DislikeCount int64     `json:"dislike_count"`
	Rating       int64     `json:"rating"`
}

func NewPostDetail(p *Post, counts VoteCounts) PostDetail {
	return PostDetail{
		ID:           p.ID,
		Title:        p.Title,
		Content:      p.Content,
		Category:     p.CategoryID,
		Author:       p.AuthorName,
		Views:        p.Views,
		CoverURL:     p.CoverURL,
		TimeCreate:   p.CreatedAt,
		TimeUpdate:   p.UpdatedAt,
		LikeCount:    counts.LikeCount,
		DislikeCount: counts.DislikeCount,
		Rating:       counts.Rating,
	}
}

// PostInput carries writable post fields. Nil means "not supplied".
type PostInput struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	CategoryID *uint   `json:"category"`
}

// Validate checks the input; partial allows omitted fields (PATCH).
func (in PostInput) Validate(partial bool) error {
	if in.Title == nil {
		if !partial {
			return NewValidationError("title", "this field is required")
		}
	} else {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return NewValidationError("title", "this field may not be blank")
		}
		if utf8.RuneCountInString(title) > MaxTitleLength {
			return NewValidationError("title", "ensure this field has no more than 100 characters")
		}
	}

	if in.Content != nil && utf8.RuneCountInString(*in.Content) > MaxContentLength {
		return NewValidationError("content", "ensure this field has no more than 255 characters")
	}

	if in.CategoryID == nil {
		if !partial {
			return NewValidationError("category", "this field is required")
		}
	} else if *in.CategoryID == 0 {
		return NewValidationError("category", "invalid pk")
	}

	return nil
}

// Apply copies the supplied fields onto the post.
func (in PostInput) Apply(p *Post) {
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		p.Content = *in.Content
	}
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
}

// PostFilter holds list query options.
type PostFilter struct {
	CreatedFrom *time.Time
	Category    string
	Rating      *int64
	Search      string
	Ordering    string
	Limit       int
	Offset      int
}

// PostOrderings maps accepted ordering parameters to SQL.
var PostOrderings = map[string]string{
	"time_create":  "posts.created_at ASC",
	"-time_create": "posts.created_at DESC",
	"title":        "posts.title ASC",
	"-title":       "posts.title DESC",
	"rating":       "rating ASC",
	"-rating":      "rating DESC",
}

const DefaultPostOrdering = "-time_create"
