package models

import "time"

// Vote is one user's like (IsLike=true) or dislike on one post. The composite
// unique index is what makes the ledger's upsert safe under concurrency.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_votes_user_post" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_votes_user_post;index:idx_votes_post" json:"post_id"`
	Post      Post      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	IsLike    bool      `gorm:"not null" json:"is_like"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Vote) TableName() string {
	return "votes"
}

// All lists every model in dependency order for AutoMigrate.
func All() []interface{} {
	return []interface{}{&User{}, &Category{}, &Post{}, &Comment{}, &Vote{}, &Notification{}}
}
