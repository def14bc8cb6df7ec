package usecase

import (
	"context"
	"io"

	"blog-api/pkg/queue"
)

// Notifier publishes interaction events for post authors. *queue.Client
// satisfies it.
type Notifier interface {
	PublishNotificationTask(ctx context.Context, task queue.NotificationTask) error
}

// CoverUploader stores a cover image and returns its public URL. *s3.Client
// satisfies it.
type CoverUploader interface {
	UploadFile(ctx context.Context, key string, body io.ReadSeeker, contentType string) (string, error)
}
