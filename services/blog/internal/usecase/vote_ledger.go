package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blog-api/pkg/cache"
	"blog-api/pkg/logger"
	"blog-api/pkg/queue"
	"blog-api/services/blog/internal/entity"
	"blog-api/services/blog/internal/repo/persistent"
)

const notifyTimeout = 5 * time.Second

// VoteLedger keeps at most one vote per user and post and derives the
// like/dislike totals from those votes.
type VoteLedger interface {
	CastVote(ctx context.Context, userID, postID uint, isLike bool) (created bool, err error)
	Counts(ctx context.Context, postID uint) (entity.VoteCounts, error)
}

type voteLedger struct {
	votes    persistent.VoteRepository
	posts    persistent.PostRepository
	cache    *cache.ReadThrough
	notifier Notifier
	logger   *logger.Logger
}

// NewVoteLedger wires the ledger. notifier may be nil.
func NewVoteLedger(
	votes persistent.VoteRepository,
	posts persistent.PostRepository,
	readThrough *cache.ReadThrough,
	notifier Notifier,
	logger *logger.Logger,
) VoteLedger {
	return &voteLedger{
		votes:    votes,
		posts:    posts,
		cache:    readThrough,
		notifier: notifier,
		logger:   logger,
	}
}

func (l *voteLedger) CastVote(ctx context.Context, userID, postID uint, isLike bool) (bool, error) {
	if userID == 0 {
		return false, entity.ErrUnauthenticated
	}

	exists, err := l.posts.Exists(ctx, postID)
	if err != nil {
		return false, fmt.Errorf("check post %d: %w", postID, err)
	}
	if !exists {
		return false, entity.ErrPostNotFound
	}

	created, err := l.votes.Upsert(ctx, userID, postID, isLike)
	if errors.Is(err, entity.ErrConflict) {
		l.logger.Warn("Vote upsert conflict for user %d on post %d, retrying: %v", userID, postID, err)
		created, err = l.votes.Upsert(ctx, userID, postID, isLike)
		if errors.Is(err, entity.ErrConflict) {
			l.logger.Error("Vote upsert conflict persisted for user %d on post %d: %v", userID, postID, err)
			return false, entity.ErrVoteConflict
		}
	}
	if err != nil {
		return false, err
	}

	l.cache.Invalidate(ctx, cache.PostKey(postID))
	l.notifyAuthor(ctx, userID, postID, isLike)

	return created, nil
}

func (l *voteLedger) Counts(ctx context.Context, postID uint) (entity.VoteCounts, error) {
	exists, err := l.posts.Exists(ctx, postID)
	if err != nil {
		return entity.VoteCounts{}, fmt.Errorf("check post %d: %w", postID, err)
	}
	if !exists {
		return entity.VoteCounts{}, entity.ErrPostNotFound
	}
	return l.votes.Counts(ctx, postID)
}

func (l *voteLedger) notifyAuthor(ctx context.Context, voterID, postID uint, isLike bool) {
	if l.notifier == nil {
		return
	}

	post, err := l.posts.GetByID(ctx, postID)
	if err != nil || post.AuthorID == nil || *post.AuthorID == voterID {
		return
	}

	task := queue.NotificationTask{
		Type:     queue.TaskTypeVote,
		UserID:   *post.AuthorID,
		ActorID:  voterID,
		PostID:   postID,
		IsLike:   &isLike,
		Priority: 3,
	}
	go publish(l.notifier, l.logger, task)
}

func publish(notifier Notifier, log *logger.Logger, task queue.NotificationTask) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	log.Info("[NOTIFICATION QUEUE] Publishing %s notification: actor_id=%d, user_id=%d, post_id=%d", task.Type, task.ActorID, task.UserID, task.PostID)
	if err := notifier.PublishNotificationTask(ctx, task); err != nil {
		log.Error("[NOTIFICATION QUEUE] Failed to publish %s notification: %v", task.Type, err)
	}
}
