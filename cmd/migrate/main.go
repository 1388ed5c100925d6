// Command migrate applies, inspects and rolls back the IdeaHub schema.
//
//	migrate up              apply pending SQL migrations
//	migrate auto            run GORM AutoMigrate for every model
//	migrate status          show applied and pending versions
//	migrate down <version>  roll back one migration
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"ideahub/internal/config"
	"ideahub/internal/database"
	"ideahub/internal/middleware"

	"gorm.io/gorm"
)

var errUsage = errors.New("usage: migrate <up|auto|status|down> [version]")

func main() {
	if err := run(); err != nil {
		middleware.Logger.Error("migrate failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return errUsage
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	ctx := context.Background()
	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if cfg.UsesSQLite() {
			return errors.New("sql migrations target postgres; use `migrate auto` with sqlite")
		}
		n, err := database.NewMigrator(db).Up(ctx)
		if err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		middleware.Logger.Info("sql migrations applied", slog.Int("count", n))
	case "auto":
		cfg.DBSchemaMode = database.SchemaModeAuto
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return fmt.Errorf("auto schema apply failed: %w", err)
		}
		middleware.Logger.Info("automigrations applied")
	case "status":
		return printStatus(ctx, db, cfg)
	case "down":
		if flag.NArg() < 2 {
			return errors.New("usage: migrate down <version>")
		}
		version, err := strconv.Atoi(flag.Arg(1))
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", flag.Arg(1), err)
		}
		if err := database.NewMigrator(db).Down(ctx, version); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		middleware.Logger.Info("migration rolled back", slog.Int("version", version))
	default:
		return errUsage
	}
	return nil
}

func printStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	status, err := database.GetSchemaStatus(ctx, db, cfg)
	if err != nil {
		return fmt.Errorf("schema status failed: %w", err)
	}

	fmt.Printf("driver:   %s\nmode:     %s\nenv:      %s\nrun sql:  %t\nrun auto: %t\n",
		status.Driver, status.Mode, status.Environment, status.WillRunSQL, status.WillRunAutoMigrate)
	for _, l := range status.Applied {
		fmt.Printf("applied:  %06d_%s at %s\n", l.Version, l.Name, l.AppliedAt.Format(time.RFC3339))
	}
	if len(status.PendingMigrations) == 0 {
		fmt.Println("pending:  none")
		return nil
	}
	for _, m := range status.PendingMigrations {
		fmt.Printf("pending:  %s\n", m.String())
	}
	return nil
}
