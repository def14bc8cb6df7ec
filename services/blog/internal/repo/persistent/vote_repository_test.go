package persistent

import (
	"context"
	"testing"

	"blog-api/pkg/models"
	"blog-api/services/blog/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoteRepository_UpsertCreatesThenUpdates(t *testing.T) {
	db := newTestDB(t)
	repo := NewVoteRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "u1")
	cat := seedCategory(t, db, "go")
	post := seedPost(t, db, "hello", cat.ID, user)

	created, err := repo.Upsert(ctx, user.ID, post.ID, true)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Upsert(ctx, user.ID, post.ID, false)
	require.NoError(t, err)
	assert.False(t, created)

	var count int64
	require.NoError(t, db.Model(&models.Vote{}).Where("user_id = ? AND post_id = ?", user.ID, post.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	vote, err := repo.Get(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, vote.IsLike)
}

func TestVoteRepository_UpsertSameDecisionIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewVoteRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "u1")
	post := seedPost(t, db, "hello", seedCategory(t, db, "go").ID, user)

	for i := 0; i < 3; i++ {
		_, err := repo.Upsert(ctx, user.ID, post.ID, true)
		require.NoError(t, err)
	}

	counts, err := repo.Counts(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.VoteCounts{LikeCount: 1, DislikeCount: 0, Rating: 1}, counts)
}

func TestVoteRepository_UpsertMissingPost(t *testing.T) {
	db := newTestDB(t)
	repo := NewVoteRepository(db)
	user := seedUser(t, db, "u1")

	_, err := repo.Upsert(context.Background(), user.ID, 999, true)
	assert.ErrorIs(t, err, entity.ErrPostNotFound)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestVoteRepository_UpsertMissingUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewVoteRepository(db)
	category := seedCategory(t, db, "go")
	post := seedPost(t, db, "hello", category.ID, nil)

	_, err := repo.Upsert(context.Background(), 999, post.ID, true)
	assert.ErrorIs(t, err, entity.ErrUnauthenticated)
	assert.NotErrorIs(t, err, entity.ErrNotFound)
}

func TestVoteRepository_CountsAcrossUsers(t *testing.T) {
	db := newTestDB(t)
	repo := NewVoteRepository(db)
	ctx := context.Background()

	cat := seedCategory(t, db, "go")
	author := seedUser(t, db, "author")
	post := seedPost(t, db, "p", cat.ID, author)
	other := seedPost(t, db, "other", cat.ID, author)

	decisions := map[string]bool{"a": true, "b": true, "c": false}
	for name, isLike := range decisions {
		u := seedUser(t, db, name)
		_, err := repo.Upsert(ctx, u.ID, post.ID, isLike)
		require.NoError(t, err)
		_, err = repo.Upsert(ctx, u.ID, other.ID, false)
		require.NoError(t, err)
	}

	counts, err := repo.Counts(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.LikeCount)
	assert.Equal(t, int64(1), counts.DislikeCount)
	assert.Equal(t, int64(1), counts.Rating)

	counts, err = repo.Counts(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(-3), counts.Rating)
}

func TestVoteRepository_CountsNoVotes(t *testing.T) {
	db := newTestDB(t)
	repo := NewVoteRepository(db)
	post := seedPost(t, db, "quiet", seedCategory(t, db, "go").ID, nil)

	counts, err := repo.Counts(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.VoteCounts{}, counts)
}

func TestVoteRepository_GetMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewVoteRepository(db)

	_, err := repo.Get(context.Background(), 1, 1)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestVoteRepository_PostIDsByUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewVoteRepository(db)
	ctx := context.Background()

	cat := seedCategory(t, db, "go")
	user := seedUser(t, db, "u1")
	p1 := seedPost(t, db, "p1", cat.ID, nil)
	p2 := seedPost(t, db, "p2", cat.ID, nil)
	seedPost(t, db, "p3", cat.ID, nil)

	_, err := repo.Upsert(ctx, user.ID, p1.ID, true)
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, user.ID, p2.ID, false)
	require.NoError(t, err)

	ids, err := repo.PostIDsByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{p1.ID, p2.ID}, ids)
}
