package persistent

import (
	"context"
	"testing"

	"blog-api/services/blog/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "commenter")
	post := seedPost(t, db, "p", seedCategory(t, db, "go").ID, nil)

	first := &entity.Comment{PostID: post.ID, AuthorID: user.ID, Content: "first"}
	require.NoError(t, repo.Create(ctx, first))
	second := &entity.Comment{PostID: post.ID, AuthorID: user.ID, Content: "second"}
	require.NoError(t, repo.Create(ctx, second))

	comments, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Content)
	assert.Equal(t, "commenter", comments[0].Author)

	require.NoError(t, repo.UpdateContent(ctx, first.ID, "edited"))
	got, err := repo.GetByID(ctx, post.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Content)

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.GetByID(ctx, post.ID, first.ID)
	assert.ErrorIs(t, err, entity.ErrCommentNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), entity.ErrCommentNotFound)
}

func TestCommentRepository_GetScopedToPost(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "u")
	cat := seedCategory(t, db, "go")
	p1 := seedPost(t, db, "p1", cat.ID, nil)
	p2 := seedPost(t, db, "p2", cat.ID, nil)

	c := &entity.Comment{PostID: p1.ID, AuthorID: user.ID, Content: "on p1"}
	require.NoError(t, repo.Create(ctx, c))

	_, err := repo.GetByID(ctx, p2.ID, c.ID)
	assert.ErrorIs(t, err, entity.ErrCommentNotFound)
}

func TestCommentRepository_CreateOnMissingPost(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	user := seedUser(t, db, "u")

	err := repo.Create(context.Background(), &entity.Comment{PostID: 77, AuthorID: user.ID, Content: "x"})
	assert.ErrorIs(t, err, entity.ErrPostNotFound)
}
