package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ecommerce/backend/internal/infrastructure/config"
	"github.com/ecommerce/backend/internal/infrastructure/logger"
	"github.com/ecommerce/backend/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// allServices selects every service for up, down and version
const allServices = "all"

func main() {
	var (
		migrationsPath string
		service        string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "migrations", "Root directory holding one migrations directory per service")
	flag.StringVar(&service, "service", "", "Service to migrate, or \"all\" (default: the configured app service)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if service == "" {
		service = cfg.App.Service
	}
	root, err := filepath.Abs(migrationsPath)
	if err != nil {
		log.Fatal("Failed to resolve migrations path", zap.Error(err))
	}

	services := []string{service}
	if service == allServices {
		services = config.ServiceNames()
	}

	log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("migrations_path", root),
		zap.Strings("services", services),
	)

	// create and list only touch the filesystem
	switch command {
	case "create":
		if len(args) < 2 || service == allServices {
			log.Fatal("Usage: migrate -service <service> create <name> [description]")
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		mf, err := migration.Create(root, service, args[1], description)
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created",
			zap.Uint("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return

	case "list":
		for _, svc := range services {
			files, err := migration.List(root, svc)
			if err != nil {
				log.Fatal("Failed to list migrations", zap.String("service", svc), zap.Error(err))
			}
			fmt.Printf("%s (%d)\n", svc, len(files))
			for _, f := range files {
				fmt.Printf("  %06d %s\n", f.Version, f.Name)
			}
		}
		return
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	for _, svc := range services {
		if err := runCommand(db, root, svc, args, log); err != nil {
			log.Fatal("Migration failed", zap.String("service", svc), zap.Error(err))
		}
	}
}

func runCommand(db *sql.DB, root, service string, args []string, log *zap.Logger) error {
	m, err := migration.New(db, root, service, log)
	if err != nil {
		return err
	}
	defer m.Close()

	switch args[0] {
	case "up":
		return m.Up()

	case "down":
		return m.Down()

	case "step":
		if len(args) < 2 {
			return fmt.Errorf("step count required: migrate step <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid step count %q", args[1])
		}
		return m.Steps(n)

	case "goto":
		if len(args) < 2 {
			return fmt.Errorf("version required: migrate goto <version>")
		}
		version, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q", args[1])
		}
		return m.GoTo(uint(version))

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		log.Info("Current migration version",
			zap.String("service", service),
			zap.Uint("version", version),
			zap.Bool("dirty", dirty),
		)
		return nil

	case "force":
		if len(args) < 2 {
			return fmt.Errorf("version required: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[1])
		}
		return m.Force(version)

	default:
		printUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printUsage() {
	fmt.Println(`E-commerce Database Migration Tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  goto <version>        Migrate to a specific version
  version               Show current migration version
  force <version>       Force set migration version (use with caution)
  create <name> [desc]  Create the next migration file pair
  list                  List available migrations

Flags:
  -path string          Migrations root, one directory per service (default: migrations)
  -service string       Service name or "all" (default: ECOMMERCE_APP_SERVICE)
  -log-level string     Log level: debug, info, warn, error (default: info)

Examples:
  migrate -service all up
  migrate -service payment-service step -1
  migrate -service order-service create add_cart_index "Index carts by user"`)
}
