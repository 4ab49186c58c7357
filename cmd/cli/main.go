// Command cli runs maintenance tasks against the site database.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/alextreichler/webstudio/internal/config"
	"github.com/alextreichler/webstudio/internal/seed"
	"github.com/alextreichler/webstudio/internal/store"
	"github.com/alextreichler/webstudio/internal/translate"
	"github.com/alextreichler/webstudio/web"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	// Ctrl-C cancels a long translate run between requests.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:           "cli",
		Short:         "Maintenance tasks for the studio site",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", envOr("DB_PATH", "./webstudio.db"), "Path to the SQLite database")

	cmd.AddCommand(addUserCmd(&dbPath), seedCmd(&dbPath), translateMissingCmd(&dbPath))
	return cmd
}

func addUserCmd(dbPath *string) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "add-user",
		Short: "Create an admin user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return fmt.Errorf("username and password are required")
			}
			db, err := openStore(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			if err := db.CreateUser(cmd.Context(), username, string(hash)); err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			fmt.Printf("User '%s' created successfully.\n", username)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Username for the new user")
	cmd.Flags().StringVar(&password, "password", "", "Password for the new user")
	return cmd
}

func seedCmd(dbPath *string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load articles, projects and contact info from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			doc, err := seed.Parse(f)
			if err != nil {
				return err
			}
			db, err := openStore(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			sum, err := seed.Apply(cmd.Context(), db, doc)
			if err != nil {
				return err
			}
			fmt.Printf("Seeded %d articles, %d projects (contact: %t).\n", sum.Articles, sum.Projects, sum.Contact)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "seed.yaml", "Seed file")
	return cmd
}

func translateMissingCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "translate-missing",
		Short: "Translate articles and projects that lack a Romanian or English version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if cfg.OpenAIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY is not set")
			}
			db, err := openStore(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := translate.NewOpenAI(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
			sum, err := svc.Backfill(cmd.Context(), db)
			if err != nil {
				return err
			}
			fmt.Printf("Translated %d articles and %d projects, %d failed.\n", sum.Articles, sum.Projects, sum.Failed)
			if sum.Failed > 0 {
				return fmt.Errorf("%d records could not be translated", sum.Failed)
			}
			return nil
		},
	}
}

// openStore opens the database and applies pending migrations, so the CLI
// works before the server has ever run.
func openStore(path string) (*store.Store, error) {
	db, err := store.NewStore(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(web.Migrations, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
