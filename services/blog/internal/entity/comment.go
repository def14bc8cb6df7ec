package entity

import (
	"strings"
	"time"
)

type Comment struct {
	ID        uint      `json:"id"`
	PostID    uint      `json:"post"`
	AuthorID  uint      `json:"-"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func ValidateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return NewValidationError("content", "this field may not be blank")
	}
	return nil
}
