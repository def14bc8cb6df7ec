package models

import (
	"time"
)

// Post has no like/dislike columns; totals are always derived from votes.
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"type:varchar(100);not null" json:"title"`
	Content    string    `gorm:"type:varchar(255)" json:"content"`
	CategoryID uint      `gorm:"not null;index" json:"category_id"`
	Category   Category  `gorm:"constraint:OnDelete:RESTRICT;" json:"-"`
	AuthorID   *uint     `gorm:"index" json:"author_id"`
	Author     *User     `gorm:"constraint:OnDelete:SET NULL;" json:"-"`
	Views      uint      `gorm:"not null;default:0" json:"views"`
	CoverURL   string    `gorm:"type:varchar(500)" json:"cover_url"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Post      Post      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
