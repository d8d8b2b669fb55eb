package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/farxc/sigecon/internal/auth"
	"github.com/farxc/sigecon/internal/db"
	"github.com/farxc/sigecon/internal/env"
	"github.com/farxc/sigecon/internal/logger"
	"github.com/farxc/sigecon/internal/store"
)

func main() {
	const component = "CreateUser"

	if err := env.Load(); err != nil {
		os.Stderr.WriteString("failed to load .env: " + err.Error() + "\n")
	}

	username := flag.String("username", "", "Login name")
	password := flag.String("password", "", "Password, read from SIGECON_PASSWORD when empty")
	name := flag.String("name", "", "Display name")
	admin := flag.Bool("admin", false, "Grant the admin role")
	flag.Parse()

	appLogger, err := logger.New(logger.DefaultConfig())
	if err != nil {
		os.Stderr.WriteString("failed to create logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer appLogger.Sync()

	if *password == "" {
		*password = os.Getenv("SIGECON_PASSWORD")
	}
	if *username == "" || *password == "" {
		flag.Usage()
		appLogger.Fatal(component, "username and password are required")
		return
	}

	database, err := db.New(context.Background(), db.ConfigFromEnv(2))
	if err != nil {
		appLogger.Fatal(component, "Database connection failed: error=%v", err)
		return
	}
	defer database.Close()

	if err := db.Migrate(database, appLogger); err != nil {
		appLogger.Fatal(component, "Migration failed: error=%v", err)
		return
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		appLogger.Fatal(component, "%v", err)
		return
	}

	role := store.RoleUser
	if *admin {
		role = store.RoleAdmin
	}

	u := &store.User{Username: *username, PasswordHash: hash, Role: role, Name: *name}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := store.NewStorage(database).Users.Create(ctx, u); err != nil {
		appLogger.Fatal(component, "Failed to create user %s: %v", *username, err)
		return
	}
	appLogger.Info(component, "User created: id=%d username=%s role=%s", u.ID, u.Username, u.Role)
}
