package entity

import (
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("notification not found")
	ErrUnknownTask = errors.New("unknown notification type")
)

// Notification is what a post author sees about activity on their posts.
type Notification struct {
	ID        uint      `json:"id"`
	Type      string    `json:"type"`
	PostID    uint      `json:"post"`
	ActorID   uint      `json:"-"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// Page is one slice of a user's notifications plus totals for the badge.
type Page struct {
	Count   int64          `json:"count"`
	Unread  int64          `json:"unread"`
	Results []Notification `json:"results"`
}
