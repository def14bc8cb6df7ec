package entity

import (
	"bytes"
	"encoding/json"
	"time"
)

type Vote struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	PostID    uint      `json:"post_id"`
	IsLike    bool      `json:"is_like"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VoteCounts is derived from the vote rows of one post at read time.
type VoteCounts struct {
	LikeCount    int64 `json:"like_count"`
	DislikeCount int64 `json:"dislike_count"`
	Rating       int64 `json:"rating"`
}

func NewVoteCounts(likes, dislikes int64) VoteCounts {
	return VoteCounts{
		LikeCount:    likes,
		DislikeCount: dislikes,
		Rating:       likes - dislikes,
	}
}

// ParseDecision accepts only a JSON boolean. Strings, numbers and null are
// rejected so that "yes", 1 or "true" never count as a vote.
func ParseDecision(raw json.RawMessage) (bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false, NewValidationError("is_like", "this field is required")
	}

	switch string(trimmed) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, NewValidationError("is_like", "must be a boolean")
	}
}

// PostRating is the body of the likes_count endpoint.
type PostRating struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	VoteCounts
}
