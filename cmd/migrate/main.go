package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/purchase-invoice/backend/internal/infrastructure/config"
	"github.com/purchase-invoice/backend/internal/infrastructure/logger"
	"github.com/purchase-invoice/backend/internal/infrastructure/migration"
	"github.com/purchase-invoice/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

const usage = `Purchase invoice schema migrations

Usage:
  migrate [-path dir] [-log-level level] <command> [args]

Commands:
  up                    apply all pending migrations
  down                  roll back every migration
  step <n>              apply n migrations (negative rolls back)
  goto <version>        migrate up or down to version
  version               print the applied version
  force <version>       mark version as applied without running it
  drop -confirm         drop every object in the database
  create <name> [desc]  write an empty up/down pair
  list                  list migrations on disk

The database is configured the same way as the server (config.toml and
PIS_DATABASE_* variables). Versioned migrations target PostgreSQL; the
sqlite driver relies on AutoMigrate instead.
`

// command is one migrate subcommand. Commands without a Migrator work on
// the migrations directory only.
type command struct {
	minArgs int
	offline func(dir string, args []string, log *zap.Logger) error
	online  func(m *migration.Migrator, args []string, log *zap.Logger) error
}

var commands = map[string]command{
	"create": {minArgs: 1, offline: create},
	"list":   {offline: list},
	"up": {online: func(m *migration.Migrator, _ []string, _ *zap.Logger) error {
		return m.Up()
	}},
	"down": {online: func(m *migration.Migrator, _ []string, _ *zap.Logger) error {
		return m.Down()
	}},
	"step": {minArgs: 1, online: func(m *migration.Migrator, args []string, _ *zap.Logger) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		return m.Steps(n)
	}},
	"goto": {minArgs: 1, online: func(m *migration.Migrator, args []string, _ *zap.Logger) error {
		v, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return m.GoTo(uint(v))
	}},
	"force": {minArgs: 1, online: func(m *migration.Migrator, args []string, log *zap.Logger) error {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		log.Warn("Forcing schema version; no migration will run", zap.Int("version", v))
		return m.Force(v)
	}},
	"version": {online: showVersion},
	"drop":    {online: drop},
}

func main() {
	path := flag.String("path", "", "migrations directory (default: nearest ./migrations)")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	name, args := args[0], args[1:]
	cmd, ok := commands[name]
	if !ok || len(args) < cmd.minArgs {
		flag.Usage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{
		Level:      *logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	dir, err := resolveDir(*path)
	if err != nil {
		log.Fatal("Failed to resolve migrations directory", zap.Error(err))
	}
	log = log.With(zap.String("command", name), zap.String("dir", dir))

	if cmd.offline != nil {
		if err := cmd.offline(dir, args, log); err != nil {
			log.Fatal("Migration command failed", zap.Error(err))
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if err := runOnline(cfg.Database, dir, cmd, args, log); err != nil {
		log.Fatal("Migration command failed", zap.Error(err))
	}
}

func runOnline(cfg config.DatabaseConfig, dir string, cmd command, args []string, log *zap.Logger) error {
	if cfg.Driver != "" && cfg.Driver != persistence.DriverPostgres {
		return fmt.Errorf("driver %q is not migrated with versioned scripts", cfg.Driver)
	}

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	m, err := migration.New(db, dir, log)
	if err != nil {
		return err
	}
	defer m.Close()

	return cmd.online(m, args, log)
}

func resolveDir(path string) (string, error) {
	if path == "" {
		found, err := migration.FindMigrationsPath(".")
		if err != nil {
			found = migration.DefaultDir
		}
		path = found
	}
	return filepath.Abs(path)
}

func create(dir string, args []string, log *zap.Logger) error {
	desc := ""
	if len(args) > 1 {
		desc = args[1]
	}
	mf, err := migration.CreateMigration(dir, args[0], desc)
	if err != nil {
		return err
	}
	log.Info("Migration created",
		zap.String("version", mf.Version),
		zap.String("up", mf.UpPath),
		zap.String("down", mf.DownPath),
	)
	return nil
}

func list(dir string, _ []string, log *zap.Logger) error {
	names, err := migration.ListMigrations(dir)
	if err != nil {
		return err
	}
	log.Info("Migrations on disk", zap.Int("count", len(names)))
	for _, n := range names {
		fmt.Println(n)
	}
	return nil
}

func showVersion(m *migration.Migrator, _ []string, log *zap.Logger) error {
	v, dirty, err := m.Version()
	if err != nil {
		return err
	}
	if v == 0 {
		log.Info("No migrations applied")
		return nil
	}
	log.Info("Schema version", zap.Uint("version", v), zap.Bool("dirty", dirty))
	return nil
}

func drop(m *migration.Migrator, args []string, _ *zap.Logger) error {
	for _, a := range args {
		if a == "-confirm" || a == "--confirm" {
			return m.Drop()
		}
	}
	return errors.New("drop removes every table; rerun as 'migrate drop -confirm'")
}
