package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/farxc/sigecon/internal/auth"
	"github.com/farxc/sigecon/internal/db"
	"github.com/farxc/sigecon/internal/env"
	"github.com/farxc/sigecon/internal/events"
	"github.com/farxc/sigecon/internal/ledger"
	"github.com/farxc/sigecon/internal/logger"
	"github.com/farxc/sigecon/internal/objectstore"
	"github.com/farxc/sigecon/internal/siafi"
	"github.com/farxc/sigecon/internal/store"
)

func loadConfig() config {
	return config{
		addr: env.GetString("ADDR", ":8080"),
		env:  env.GetString("ENV", "development"),
		db:   db.ConfigFromEnv(25),
		log: logger.Config{
			Level:      env.GetString("LOG_LEVEL", "info"),
			Format:     env.GetString("LOG_FORMAT", "console"),
			Output:     env.GetString("LOG_OUTPUT", "stdout"),
			TimeFormat: logger.DefaultConfig().TimeFormat,
		},
		auth: authConfig{
			mode:   strings.ToLower(env.GetString("AUTH_MODE", "jwt")),
			secret: env.GetString("JWT_SECRET", ""),
			ttl:    env.GetDuration("JWT_TTL", 12*time.Hour),
		},
		s3: objectstore.Config{
			Endpoint:          env.GetString("S3_ENDPOINT", ""),
			Region:            env.GetString("S3_REGION", "us-east-1"),
			Bucket:            env.GetString("S3_BUCKET", ""),
			AccessKey:         env.GetString("S3_ACCESS_KEY", ""),
			SecretKey:         env.GetString("S3_SECRET_KEY", ""),
			UseSSL:            env.GetBool("S3_USE_SSL", true),
			UsePathStyle:      env.GetBool("S3_USE_PATH_STYLE", false),
			PublicURL:         env.GetString("S3_PUBLIC_URL", ""),
			PresignExpiration: env.GetDuration("S3_PRESIGN_EXPIRATION", 15*time.Minute),
		},
		amqp: amqpConfig{
			url:      env.GetString("AMQP_URL", ""),
			exchange: env.GetString("AMQP_EXCHANGE", "sigecon.events"),
		},
		projectionConcurrency: env.GetInt("PROJECTION_CONCURRENCY", 8),
		maxUploadBytes:        int64(env.GetInt("MAX_UPLOAD_MB", 20)) << 20,
	}
}

func main() {
	const component = "Main"

	if err := env.Load(); err != nil {
		os.Stderr.WriteString("failed to load .env: " + err.Error() + "\n")
	}

	cfg := loadConfig()

	appLogger, err := logger.New(cfg.log)
	if err != nil {
		os.Stderr.WriteString("failed to create logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer appLogger.Sync()

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

	storage := store.NewStorage(database)

	app := &application{
		config:   cfg,
		store:    *storage,
		ledger:   ledger.NewService(storage.CreditNotes, storage.Entries, appLogger, cfg.projectionConcurrency),
		importer: siafi.NewImporterFromStorage(storage, appLogger),
		logger:   appLogger,
	}

	switch cfg.auth.mode {
	case "disabled":
		appLogger.Warn(component, "Authentication is disabled: every request acts as an admin")
		app.identity = auth.NewDevLookup()
	default:
		tokens, err := auth.NewTokenIssuer(cfg.auth.secret, cfg.auth.ttl)
		if err != nil {
			appLogger.Fatal(component, "Invalid auth configuration: error=%v", err)
			return
		}
		app.identity = tokens
		app.login = auth.NewAuthenticator(storage.Users, tokens)
	}

	if cfg.s3.Bucket != "" {
		objects, err := objectstore.NewS3Store(cfg.s3, appLogger)
		if err != nil {
			appLogger.Fatal(component, "Object storage setup failed: error=%v", err)
			return
		}
		app.objects = objects
		appLogger.Info(component, "Attachments stored in bucket %s", cfg.s3.Bucket)
	} else {
		appLogger.Warn(component, "S3_BUCKET not set: attachments are kept in memory")
		app.objects = objectstore.NewMemoryStore("http://localhost" + cfg.addr + "/files")
	}

	if cfg.amqp.url != "" {
		publisher, err := events.NewAMQPPublisher(cfg.amqp.url, cfg.amqp.exchange, appLogger)
		if err != nil {
			appLogger.Fatal(component, "AMQP setup failed: error=%v", err)
			return
		}
		app.events = publisher
	} else {
		app.events = events.NopPublisher{}
	}
	defer app.events.Close()

	mux := app.mount()

	if err := app.run(mux); err != nil {
		appLogger.Fatal(component, "Server failed: error=%v", err)
	}
}
