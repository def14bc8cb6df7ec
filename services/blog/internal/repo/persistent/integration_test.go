//go:build integration

package persistent

import (
	"context"
	"sync"
	"testing"
	"time"

	"blog-api/pkg/database"
	"blog-api/pkg/models"
	"blog-api/services/blog/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("blog"),
		postgres.WithUsername("blog"),
		postgres.WithPassword("blog"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.OpenPostgres(connStr)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func TestPostgres_ConcurrentFirstVotesMerge(t *testing.T) {
	db := newPostgresDB(t)
	repo := NewVoteRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "racer")
	post := seedPost(t, db, "contended", seedCategory(t, db, "go").ID, nil)

	const workers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(isLike bool) {
			defer wg.Done()
			<-start
			ok, err := repo.Upsert(ctx, user.ID, post.ID, isLike)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}(i%2 == 0)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, created)

	var rows int64
	require.NoError(t, db.Model(&models.Vote{}).Where("user_id = ? AND post_id = ?", user.ID, post.ID).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	counts, err := repo.Counts(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.LikeCount+counts.DislikeCount)
}

func TestPostgres_ListAggregates(t *testing.T) {
	db := newPostgresDB(t)
	repo := NewPostRepository(db)
	seedListFixture(t, repo, NewVoteRepository(db))

	posts, total, err := repo.List(context.Background(), entity.PostFilter{Ordering: "-rating"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, posts, 3)
	assert.Equal(t, int64(3), posts[0].Rating)
	assert.Equal(t, int64(-1), posts[2].Rating)
}
