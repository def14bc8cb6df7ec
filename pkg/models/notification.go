package models

import "time"

// Notification is stored by the notification worker for the post author.
// PostID and ActorID are kept as plain values so a notification outlives the
// post or the user it mentions.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_notifications_user_read" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Type      string    `gorm:"type:varchar(20);not null" json:"type"`
	ActorID   uint      `gorm:"not null" json:"actor_id"`
	PostID    uint      `gorm:"not null" json:"post_id"`
	Message   string    `gorm:"type:varchar(255);not null" json:"message"`
	IsRead    bool      `gorm:"not null;default:false;index:idx_notifications_user_read" json:"is_read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
