package main

import (
	"fmt"
	"math/rand"
	"os"

	"blog-api/pkg/config"
	"blog-api/pkg/database"
	"blog-api/pkg/logger"
	"blog-api/pkg/models"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	driver       string
	dbPath       string
	postsPerUser int
	demoPassword string
	randomSeed   int64
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the blog database with demo data",
	Long: `Fill the blog database with demo categories, users, posts and votes.

Running it twice is safe: existing users and categories are reused and
votes are only added where the user has not voted yet.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if driver != "" {
			cfg.DBDriver = driver
		}
		if dbPath != "" {
			cfg.DBPath = dbPath
		}

		log := logger.New()
		db, err := database.Open(cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.AutoMigrate(db); err != nil {
			return err
		}

		if err := seedDatabase(db, log); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
		log.Info("Database seeded successfully!")
		return nil
	},
}

var demoCategories = []string{"Golang", "Databases", "Caching", "Cooking", "Travel"}

var demoUsers = []struct {
	username string
	email    string
	role     models.UserRole
}{
	{"admin", "admin@test.com", models.RoleAdmin},
	{"alice", "alice@test.com", models.RoleUser},
	{"bob", "bob@test.com", models.RoleUser},
	{"charlie", "charlie@test.com", models.RoleUser},
	{"diana", "diana@test.com", models.RoleUser},
}

func seedDatabase(db *gorm.DB, log *logger.Logger) error {
	rng := rand.New(rand.NewSource(randomSeed))

	categoryIDs := make([]uint, 0, len(demoCategories))
	for _, name := range demoCategories {
		category := models.Category{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&category).Error; err != nil {
			return fmt.Errorf("category %s: %w", name, err)
		}
		categoryIDs = append(categoryIDs, category.ID)
	}
	log.Info("Seeded %d categories", len(categoryIDs))

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	users := make([]models.User, 0, len(demoUsers))
	for _, u := range demoUsers {
		user := models.User{Username: u.username, Email: u.email, Password: string(hash), Role: u.role, IsActive: true}
		if err := db.Where("username = ?", u.username).FirstOrCreate(&user).Error; err != nil {
			return fmt.Errorf("user %s: %w", u.username, err)
		}
		users = append(users, user)
	}
	log.Info("Seeded %d users (password %q)", len(users), demoPassword)

	var posts []models.Post
	for _, author := range users {
		var existing int64
		if err := db.Model(&models.Post{}).Where("author_id = ?", author.ID).Count(&existing).Error; err != nil {
			return err
		}
		for i := int(existing); i < postsPerUser; i++ {
			authorID := author.ID
			post := models.Post{
				Title:      fmt.Sprintf("%s's post #%d", author.Username, i+1),
				Content:    fmt.Sprintf("Demo content %d written by %s.", i+1, author.Username),
				CategoryID: categoryIDs[rng.Intn(len(categoryIDs))],
				AuthorID:   &authorID,
				Views:      uint(rng.Intn(500)),
			}
			if err := db.Omit(clause.Associations).Create(&post).Error; err != nil {
				return fmt.Errorf("post for %s: %w", author.Username, err)
			}
			posts = append(posts, post)
		}
	}
	log.Info("Created %d posts", len(posts))

	created := 0
	for _, post := range posts {
		for _, voter := range users {
			// Roughly two thirds of users vote on each post, mostly likes.
			if rng.Intn(3) == 0 {
				continue
			}
			vote := models.Vote{UserID: voter.ID, PostID: post.ID, IsLike: rng.Intn(4) != 0}
			res := db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
				DoNothing: true,
			}).Omit(clause.Associations).Create(&vote)
			if res.Error != nil {
				return fmt.Errorf("vote: %w", res.Error)
			}
			created += int(res.RowsAffected)
		}
	}
	log.Info("Created %d votes", created)

	return nil
}

func init() {
	rootCmd.Flags().StringVar(&driver, "driver", "", "Database driver, overrides DB_DRIVER (postgres or sqlite)")
	rootCmd.Flags().StringVar(&dbPath, "db-path", "", "SQLite file, overrides DB_PATH")
	rootCmd.Flags().IntVar(&postsPerUser, "posts", 3, "Posts to create per demo user")
	rootCmd.Flags().StringVar(&demoPassword, "password", "password123", "Password given to every demo user")
	rootCmd.Flags().Int64Var(&randomSeed, "rand-seed", 1, "Seed for picking categories and votes")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
