package persistent

import (
	"context"
	"testing"
	"time"

	"blog-api/pkg/models"
	"blog-api/services/blog/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "writer")
	cat := seedCategory(t, db, "go")

	post := &entity.Post{Title: "Hello", Content: "World", CategoryID: cat.ID, AuthorID: &author.ID}
	require.NoError(t, repo.Create(ctx, post))
	assert.NotZero(t, post.ID)
	assert.False(t, post.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)
	assert.Equal(t, cat.ID, got.CategoryID)
	require.NotNil(t, got.AuthorName)
	assert.Equal(t, "writer", *got.AuthorName)
	assert.True(t, got.IsAuthor(author.ID))
}

func TestPostRepository_CreateUnknownCategory(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)

	err := repo.Create(context.Background(), &entity.Post{Title: "x", CategoryID: 42})

	var verr *entity.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "category", verr.Field)
}

func TestPostRepository_GetMissing(t *testing.T) {
	repo := NewPostRepository(newTestDB(t))

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, entity.ErrPostNotFound)

	exists, err := repo.Exists(context.Background(), 404)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPostRepository_IncrementViewsKeepsUpdatedAt(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	post := seedPost(t, db, "p", seedCategory(t, db, "go").ID, nil)

	before, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.IncrementViews(ctx, post.ID))
	}

	after, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(3), after.Views)
	assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt))

	assert.ErrorIs(t, repo.IncrementViews(ctx, 999), entity.ErrPostNotFound)
}

func TestPostRepository_Update(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	cat := seedCategory(t, db, "go")
	other := seedCategory(t, db, "rust")
	post := seedPost(t, db, "old", cat.ID, nil)

	p, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	p.Title = "new"
	p.CategoryID = other.ID
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, other.ID, got.CategoryID)

	p.ID = 999
	assert.ErrorIs(t, repo.Update(ctx, p), entity.ErrPostNotFound)
}

func TestPostRepository_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	votes := NewVoteRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "u")
	post := seedPost(t, db, "p", seedCategory(t, db, "go").ID, user)
	_, err := votes.Upsert(ctx, user.ID, post.ID, true)
	require.NoError(t, err)
	require.NoError(t, db.Omit("Post", "Author").Create(&models.Comment{PostID: post.ID, AuthorID: user.ID, Content: "hi"}).Error)

	require.NoError(t, repo.Delete(ctx, post.ID))

	var n int64
	db.Model(&models.Vote{}).Count(&n)
	assert.Zero(t, n)
	db.Model(&models.Comment{}).Count(&n)
	assert.Zero(t, n)

	assert.ErrorIs(t, repo.Delete(ctx, post.ID), entity.ErrPostNotFound)
}

func TestPostRepository_SetCover(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	post := seedPost(t, db, "p", seedCategory(t, db, "go").ID, nil)

	require.NoError(t, repo.SetCover(ctx, post.ID, "http://cdn/covers/1.png"))
	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "http://cdn/covers/1.png", got.CoverURL)

	assert.ErrorIs(t, repo.SetCover(ctx, 999, "x"), entity.ErrPostNotFound)
}

func seedListFixture(t *testing.T, repo PostRepository, votes VoteRepository) (titles map[string]uint) {
	t.Helper()
	db := repo.(*postRepository).db
	ctx := context.Background()

	golang := seedCategory(t, db, "Golang")
	cooking := seedCategory(t, db, "Cooking")
	author := seedUser(t, db, "author")
	voters := []*models.User{seedUser(t, db, "v1"), seedUser(t, db, "v2"), seedUser(t, db, "v3")}

	titles = map[string]uint{}
	titles["Concurrency in Go"] = seedPost(t, db, "Concurrency in Go", golang.ID, author).ID
	titles["Bread"] = seedPost(t, db, "Bread", cooking.ID, author).ID
	titles["Generics"] = seedPost(t, db, "Generics", golang.ID, nil).ID

	// Concurrency: +3, Bread: -1, Generics: 0
	for _, v := range voters {
		_, err := votes.Upsert(ctx, v.ID, titles["Concurrency in Go"], true)
		require.NoError(t, err)
	}
	_, err := votes.Upsert(ctx, voters[0].ID, titles["Bread"], false)
	require.NoError(t, err)
	return titles
}

func TestPostRepository_ListAggregatesAndOrdering(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	votes := NewVoteRepository(db)
	seedListFixture(t, repo, votes)

	posts, total, err := repo.List(context.Background(), entity.PostFilter{Ordering: "-rating"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, posts, 3)

	assert.Equal(t, "Concurrency in Go", posts[0].Title)
	assert.Equal(t, int64(3), posts[0].LikeCount)
	assert.Equal(t, int64(3), posts[0].Rating)
	require.NotNil(t, posts[0].Author)
	assert.Equal(t, "author", *posts[0].Author)

	assert.Equal(t, "Generics", posts[1].Title)
	assert.Nil(t, posts[1].Author)
	assert.Equal(t, "Bread", posts[2].Title)
	assert.Equal(t, int64(1), posts[2].DislikeCount)
	assert.Equal(t, int64(-1), posts[2].Rating)

	posts, _, err = repo.List(context.Background(), entity.PostFilter{Ordering: "title"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bread", "Concurrency in Go", "Generics"}, []string{posts[0].Title, posts[1].Title, posts[2].Title})
}

func TestPostRepository_ListFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	votes := NewVoteRepository(db)
	seedListFixture(t, repo, votes)
	ctx := context.Background()

	posts, total, err := repo.List(ctx, entity.PostFilter{Category: "golang"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, posts, 2)

	rating := int64(-1)
	posts, _, err = repo.List(ctx, entity.PostFilter{Rating: &rating})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Bread", posts[0].Title)

	posts, _, err = repo.List(ctx, entity.PostFilter{Search: "CONCURRENCY"})
	require.NoError(t, err)
	require.Len(t, posts, 1)

	future := time.Now().Add(24 * time.Hour)
	posts, total, err = repo.List(ctx, entity.PostFilter{CreatedFrom: &future})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, posts)
}

func TestPostRepository_ListWildcardsMatchLiterally(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	category := seedCategory(t, db, "misc")
	underscored := seedCategory(t, db, "go_lang")
	seedPost(t, db, "1000 ways to bake", category.ID, nil)
	seedPost(t, db, "100% coverage", category.ID, nil)
	seedPost(t, db, "snake_case names", underscored.ID, nil)
	seedPost(t, db, "snakeXcase names", category.ID, nil)

	posts, total, err := repo.List(ctx, entity.PostFilter{Search: "100%"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, posts, 1)
	assert.Equal(t, "100% coverage", posts[0].Title)

	posts, _, err = repo.List(ctx, entity.PostFilter{Search: "snake_case"})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "snake_case names", posts[0].Title)

	_, total, err = repo.List(ctx, entity.PostFilter{Category: "go%"})
	require.NoError(t, err)
	assert.Zero(t, total)

	_, total, err = repo.List(ctx, entity.PostFilter{Category: "o_l"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestPostRepository_ListPagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	seedListFixture(t, repo, NewVoteRepository(db))

	posts, total, err := repo.List(context.Background(), entity.PostFilter{Ordering: "title", Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, posts, 2)
	assert.Equal(t, "Concurrency in Go", posts[0].Title)
}

func TestPostRepository_IDsByAuthor(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	titles := seedListFixture(t, repo, NewVoteRepository(db))

	var author models.User
	require.NoError(t, db.Where("username = ?", "author").First(&author).Error)

	ids, err := repo.IDsByAuthor(context.Background(), author.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{titles["Concurrency in Go"], titles["Bread"]}, ids)
}
