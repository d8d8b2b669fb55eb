package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/farxc/sigecon/internal/db"
	"github.com/farxc/sigecon/internal/env"
	"github.com/farxc/sigecon/internal/logger"
	"github.com/farxc/sigecon/internal/siafi"
	"github.com/farxc/sigecon/internal/store"
)

type config struct {
	db        db.Config
	log       logger.Config
	timeout   time.Duration
	workspace string
	source    string
}

func main() {
	const component = "Main"

	if err := env.Load(); err != nil {
		os.Stderr.WriteString("failed to load .env: " + err.Error() + "\n")
	}

	cfg := config{
		db: db.ConfigFromEnv(5),
		log: logger.Config{
			Level:      env.GetString("LOG_LEVEL", "info"),
			Format:     env.GetString("LOG_FORMAT", "console"),
			Output:     "stdout",
			TimeFormat: logger.DefaultConfig().TimeFormat,
		},
	}

	flag.StringVar(&cfg.workspace, "workspace", "", "Workspace that receives the credit notes")
	flag.StringVar(&cfg.source, "file", "", "SIAFI export to import: local path or http(s) URL")
	flag.StringVar(&cfg.log.Level, "loglevel", cfg.log.Level, "Log level: debug, info, warn, error")
	flag.DurationVar(&cfg.timeout, "timeout", 10*time.Minute, "Maximum duration of the run")
	flag.Parse()

	appLogger, err := logger.New(cfg.log)
	if err != nil {
		os.Stderr.WriteString("failed to create logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer appLogger.Sync()

	if cfg.workspace == "" || cfg.source == "" {
		flag.Usage()
		appLogger.Fatal(component, "Both -workspace and -file are required")
		return
	}

	started := time.Now()
	appLogger.Info(component, "Import starting: workspace=%s source=%s", cfg.workspace, cfg.source)

	database, err := db.New(context.Background(), cfg.db)
	if err != nil {
		appLogger.Fatal(component, "Database connection failed: error=%v", err)
		return
	}
	defer database.Close()
	appLogger.Info(component, "Database connection pool established")

	if cfg.db.AutoMigrate {
		if err := db.Migrate(database, appLogger); err != nil {
			appLogger.Fatal(component, "Migration failed: error=%v", err)
			return
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	src, err := siafi.Open(ctx, &http.Client{Timeout: cfg.timeout}, cfg.source)
	if err != nil {
		appLogger.Fatal(component, "Failed to open source: error=%v", err)
		return
	}
	defer src.Close()

	importer := siafi.NewImporterFromStorage(store.NewStorage(database), appLogger)
	run, err := importer.Import(ctx, cfg.workspace, path.Base(cfg.source), src)
	if err != nil {
		appLogger.Fatal(component, "Import failed: error=%v", err)
		return
	}

	if run.Status != store.StatusSuccess {
		appLogger.Warn(component, "Import finished with errors: %s", run.Message)
	}
	appLogger.Info(component, "Import completed: status=%s imported=%d/%d duration=%.2f seconds",
		run.Status, run.ImportedRows, run.TotalRows, time.Since(started).Seconds())
}
