package persistent

import (
	"testing"

	"blog-api/pkg/database"
	"blog-api/pkg/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewSQLiteDB("file::memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Password: "hash"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name}
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedPost(t *testing.T, db *gorm.DB, title string, categoryID uint, author *models.User) *models.Post {
	t.Helper()
	p := &models.Post{Title: title, Content: title + " body", CategoryID: categoryID}
	if author != nil {
		p.AuthorID = &author.ID
	}
	require.NoError(t, db.Omit("Category", "Author").Create(p).Error)
	return p
}
