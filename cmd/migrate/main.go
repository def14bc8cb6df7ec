package main

import (
	"fmt"
	"os"
	"reflect"
	"text/tabwriter"

	"blog-api/pkg/config"
	"blog-api/pkg/database"
	"blog-api/pkg/logger"
	"blog-api/pkg/models"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	driver  string
	dbPath  string
	confirm bool
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the blog database schema",
	Long: `Manage the blog database schema.

Subcommands:
  up      - Create or update tables, indexes and constraints
  status  - Show which tables exist
  down    - Drop every blog table (requires --yes)`,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Create or update the schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		if err := database.AutoMigrate(db); err != nil {
			return err
		}
		logger.New().Info("Schema is up to date")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which tables exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "MODEL\tTABLE\tEXISTS")
		for _, m := range models.All() {
			stmt := &gorm.Statement{DB: db}
			if err := stmt.Parse(m); err != nil {
				return fmt.Errorf("parse %T: %w", m, err)
			}
			fmt.Fprintf(w, "%s\t%s\t%v\n", reflect.TypeOf(m).Elem().Name(), stmt.Table, db.Migrator().HasTable(m))
		}
		return w.Flush()
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Drop every blog table",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm {
			return fmt.Errorf("refusing to drop tables without --yes")
		}
		db, err := connect()
		if err != nil {
			return err
		}

		all := models.All()
		// Dependents first.
		for i := len(all) - 1; i >= 0; i-- {
			if err := db.Migrator().DropTable(all[i]); err != nil {
				return fmt.Errorf("drop %T: %w", all[i], err)
			}
		}
		logger.New().Warn("Dropped %d tables", len(all))
		return nil
	},
}

func connect() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if driver != "" {
		cfg.DBDriver = driver
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "", "Database driver, overrides DB_DRIVER (postgres or sqlite)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db-path", "", "SQLite file, overrides DB_PATH")
	downCmd.Flags().BoolVar(&confirm, "yes", false, "Confirm dropping all tables")

	rootCmd.AddCommand(upCmd, statusCmd, downCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
