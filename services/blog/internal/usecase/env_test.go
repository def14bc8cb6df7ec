package usecase

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"blog-api/pkg/cache"
	"blog-api/pkg/database"
	"blog-api/pkg/jwt"
	"blog-api/pkg/logger"
	"blog-api/pkg/models"
	"blog-api/pkg/queue"
	"blog-api/services/blog/internal/entity"
	"blog-api/services/blog/internal/repo/persistent"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	store    *cache.MemoryStore
	cache    *cache.ReadThrough
	postRepo persistent.PostRepository
	voteRepo persistent.VoteRepository
	notifier *recordingNotifier
	uploader *fakeUploader
	ledger   VoteLedger
	posts    PostUseCase
	comments CommentUseCase
	auth     AuthUseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.NewSQLiteDB("file::memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	log := logger.New()
	env := &testEnv{
		db:       db,
		store:    cache.NewMemoryStore(),
		postRepo: persistent.NewPostRepository(db),
		voteRepo: persistent.NewVoteRepository(db),
		notifier: newRecordingNotifier(),
		uploader: &fakeUploader{baseURL: "http://covers.local/"},
	}
	env.cache = cache.NewReadThrough(env.store, cache.DefaultTTL, log)
	env.ledger = NewVoteLedger(env.voteRepo, env.postRepo, env.cache, env.notifier, log)
	env.posts = NewPostUseCase(env.postRepo, env.ledger, env.cache, env.uploader, log)
	env.comments = NewCommentUseCase(persistent.NewCommentRepository(db), env.postRepo, env.notifier, log)
	env.auth = NewAuthUseCase(
		persistent.NewUserRepository(db),
		env.postRepo,
		env.voteRepo,
		jwt.NewService("test-secret"),
		env.cache,
		log,
	)
	return env
}

func (e *testEnv) user(t *testing.T, username string) entity.Actor {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Password: "hash"}
	require.NoError(t, e.db.Create(u).Error)
	return entity.Actor{UserID: u.ID, Role: string(u.Role)}
}

func (e *testEnv) admin(t *testing.T) entity.Actor {
	t.Helper()
	u := &models.User{Username: "root", Email: "root@example.com", Password: "hash", Role: models.RoleAdmin}
	require.NoError(t, e.db.Create(u).Error)
	return entity.Actor{UserID: u.ID, Role: string(u.Role)}
}

func (e *testEnv) category(t *testing.T, name string) uint {
	t.Helper()
	c := &models.Category{Name: name}
	require.NoError(t, e.db.Create(c).Error)
	return c.ID
}

func (e *testEnv) post(t *testing.T, author entity.Actor, title string) uint {
	t.Helper()
	category := e.category(t, "cat-"+title)
	detail, err := e.posts.CreatePost(context.Background(), author, entity.PostInput{Title: &title, CategoryID: &category})
	require.NoError(t, err)
	return detail.ID
}

func (e *testEnv) cached(t *testing.T, postID uint) bool {
	t.Helper()
	_, err := e.store.Get(context.Background(), cache.PostKey(postID))
	return err == nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	tasks []queue.NotificationTask
	sent  chan struct{}
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{sent: make(chan struct{}, 16)}
}

func (n *recordingNotifier) PublishNotificationTask(_ context.Context, task queue.NotificationTask) error {
	n.mu.Lock()
	n.tasks = append(n.tasks, task)
	n.mu.Unlock()
	n.sent <- struct{}{}
	return nil
}

// wait blocks until count tasks were published or the timeout hits.
func (n *recordingNotifier) wait(t *testing.T, count int) []queue.NotificationTask {
	t.Helper()
	for i := 0; i < count; i++ {
		select {
		case <-n.sent:
		case <-time.After(2 * time.Second):
			t.Fatalf("expected %d notifications, got %d", count, i)
		}
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]queue.NotificationTask(nil), n.tasks...)
}

type fakeUploader struct {
	baseURL string
	keys    []string
	err     error
}

func (u *fakeUploader) UploadFile(_ context.Context, key string, body io.ReadSeeker, _ string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	u.keys = append(u.keys, key)
	return u.baseURL + key, nil
}
