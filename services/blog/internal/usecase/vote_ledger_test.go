package usecase

import (
	"context"
	"fmt"
	"testing"

	"blog-api/pkg/cache"
	"blog-api/pkg/logger"
	"blog-api/pkg/models"
	"blog-api/pkg/queue"
	"blog-api/services/blog/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestVoteLedger_LikeThenDislike(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	postID := env.post(t, env.user(t, "author"), "seven")

	created, err := env.ledger.CastVote(ctx, alice.UserID, postID, true)
	require.NoError(t, err)
	assert.True(t, created)

	counts, err := env.ledger.Counts(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, entity.NewVoteCounts(1, 0), counts)

	created, err = env.ledger.CastVote(ctx, alice.UserID, postID, false)
	require.NoError(t, err)
	assert.False(t, created)

	counts, err = env.ledger.Counts(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, entity.NewVoteCounts(0, 1), counts)

	var rows int64
	require.NoError(t, env.db.Model(&models.Vote{}).Where("user_id = ? AND post_id = ?", alice.UserID, postID).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestVoteLedger_LastDecisionWins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	voter := env.user(t, "voter")
	postID := env.post(t, env.user(t, "author"), "p")

	decisions := []bool{true, true, false, true, false, false}
	for _, d := range decisions {
		_, err := env.ledger.CastVote(ctx, voter.UserID, postID, d)
		require.NoError(t, err)
	}

	vote, err := env.voteRepo.Get(ctx, voter.UserID, postID)
	require.NoError(t, err)
	assert.Equal(t, decisions[len(decisions)-1], vote.IsLike)

	counts, err := env.ledger.Counts(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.LikeCount+counts.DislikeCount)
}

func TestVoteLedger_OpposingVotesCancel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	postID := env.post(t, env.user(t, "author"), "three")

	_, err := env.ledger.CastVote(ctx, env.user(t, "a").UserID, postID, true)
	require.NoError(t, err)
	_, err = env.ledger.CastVote(ctx, env.user(t, "b").UserID, postID, false)
	require.NoError(t, err)

	counts, err := env.ledger.Counts(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts.Rating)
}

func TestVoteLedger_MissingPost(t *testing.T) {
	env := newTestEnv(t)
	voter := env.user(t, "voter")

	_, err := env.ledger.CastVote(context.Background(), voter.UserID, 9999, true)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	_, err = env.ledger.Counts(context.Background(), 9999)
	assert.ErrorIs(t, err, entity.ErrPostNotFound)
}

func TestVoteLedger_Anonymous(t *testing.T) {
	env := newTestEnv(t)
	postID := env.post(t, env.user(t, "author"), "p")

	_, err := env.ledger.CastVote(context.Background(), 0, postID, true)
	assert.ErrorIs(t, err, entity.ErrUnauthenticated)
}

func TestVoteLedger_InvalidatesDetail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	postID := env.post(t, env.user(t, "author"), "p")

	before, err := env.posts.GetPostDetail(ctx, postID)
	require.NoError(t, err)
	assert.Zero(t, before.LikeCount)
	require.True(t, env.cached(t, postID))

	_, err = env.ledger.CastVote(ctx, env.user(t, "fan").UserID, postID, true)
	require.NoError(t, err)
	assert.False(t, env.cached(t, postID))

	after, err := env.posts.GetPostDetail(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), after.LikeCount)
	assert.Equal(t, int64(1), after.Rating)
}

func TestVoteLedger_NotifiesAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.user(t, "author")
	fan := env.user(t, "fan")
	postID := env.post(t, author, "p")

	_, err := env.ledger.CastVote(ctx, author.UserID, postID, true)
	require.NoError(t, err)
	_, err = env.ledger.CastVote(ctx, fan.UserID, postID, false)
	require.NoError(t, err)

	tasks := env.notifier.wait(t, 1)
	require.Len(t, tasks, 1)
	assert.Equal(t, queue.TaskTypeVote, tasks[0].Type)
	assert.Equal(t, author.UserID, tasks[0].UserID)
	assert.Equal(t, fan.UserID, tasks[0].ActorID)
	require.NotNil(t, tasks[0].IsLike)
	assert.False(t, *tasks[0].IsLike)
}

type MockVoteRepository struct {
	mock.Mock
}

func (m *MockVoteRepository) Upsert(ctx context.Context, userID, postID uint, isLike bool) (bool, error) {
	args := m.Called(ctx, userID, postID, isLike)
	return args.Bool(0), args.Error(1)
}

func (m *MockVoteRepository) Counts(ctx context.Context, postID uint) (entity.VoteCounts, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(entity.VoteCounts), args.Error(1)
}

func (m *MockVoteRepository) Get(ctx context.Context, userID, postID uint) (*entity.Vote, error) {
	args := m.Called(ctx, userID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Vote), args.Error(1)
}

func (m *MockVoteRepository) PostIDsByUser(ctx context.Context, userID uint) ([]uint, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]uint), args.Error(1)
}

func TestVoteLedger_RetriesConflictOnce(t *testing.T) {
	env := newTestEnv(t)
	postID := env.post(t, env.user(t, "author"), "p")

	votes := new(MockVoteRepository)
	conflict := fmt.Errorf("upsert: %w", entity.ErrVoteConflict)
	votes.On("Upsert", mock.Anything, uint(5), postID, true).Return(false, conflict).Once()
	votes.On("Upsert", mock.Anything, uint(5), postID, true).Return(false, nil).Once()

	ledger := NewVoteLedger(votes, env.postRepo, env.cache, nil, logger.New())
	created, err := ledger.CastVote(context.Background(), 5, postID, true)
	require.NoError(t, err)
	assert.False(t, created)
	votes.AssertNumberOfCalls(t, "Upsert", 2)
}

func TestVoteLedger_ConflictSurfacesAfterRetry(t *testing.T) {
	env := newTestEnv(t)
	postID := env.post(t, env.user(t, "author"), "p")
	require.NoError(t, env.store.Set(context.Background(), cache.PostKey(postID), []byte("{}"), cache.DefaultTTL))

	votes := new(MockVoteRepository)
	votes.On("Upsert", mock.Anything, uint(5), postID, false).Return(false, entity.ErrVoteConflict).Twice()

	ledger := NewVoteLedger(votes, env.postRepo, env.cache, nil, logger.New())
	_, err := ledger.CastVote(context.Background(), 5, postID, false)
	assert.ErrorIs(t, err, entity.ErrConflict)
	votes.AssertNumberOfCalls(t, "Upsert", 2)
	assert.True(t, env.cached(t, postID), "failed vote must not touch the cache")
}
