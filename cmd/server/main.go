package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"hreval/internal/app/server"
	"hreval/internal/platform/config"
	"hreval/internal/platform/db"
)

var (
	rootCmd = &cobra.Command{
		Use:   "hreval",
		Short: "Employee evaluation lifecycle service",
		RunE:  runServe,
	}
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations and exit",
		RunE:  runMigrate,
	}
	migrationsDir string
)

func init() {
	migrateCmd.Flags().StringVar(&migrationsDir, "dir", "", "migrations directory (defaults to MIGRATIONS_DIR)")
	rootCmd.AddCommand(serveCmd, migrateCmd)
	rootCmd.SilenceUsage = true
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() config.Config {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	return cfg
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	app, err := server.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.Run(cmd.Context())
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	if migrationsDir != "" {
		cfg.MigrationsDir = migrationsDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx := cmd.Context()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	return db.Migrate(ctx, pool, cfg.MigrationsDir)
}
