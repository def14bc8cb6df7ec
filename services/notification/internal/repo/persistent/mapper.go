package persistent

import (
	"blog-api/pkg/models"
	"blog-api/services/notification/internal/entity"
)

func ToNotificationEntity(m *models.Notification) entity.Notification {
	return entity.Notification{
		ID:        m.ID,
		Type:      m.Type,
		PostID:    m.PostID,
		ActorID:   m.ActorID,
		Message:   m.Message,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

func ToNotificationModel(userID uint, n *entity.Notification) *models.Notification {
	return &models.Notification{
		ID:      n.ID,
		UserID:  userID,
		Type:    n.Type,
		ActorID: n.ActorID,
		PostID:  n.PostID,
		Message: n.Message,
		IsRead:  n.IsRead,
	}
}
