// seed-admin creates or updates the shop operator account.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... \
//	ADMIN_USERNAME=... ADMIN_PASSWORD=... ADMIN_NAME=... go run ./cmd/seed-admin
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mmdatafocus/dailycash_backend/config"
	"github.com/mmdatafocus/dailycash_backend/models"
)

const defaultAdminUsername = "admin"

func main() {
	ctx := context.Background()

	username := strings.TrimSpace(os.Getenv("ADMIN_USERNAME"))
	if username == "" {
		username = defaultAdminUsername
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		fmt.Fprintln(os.Stderr, "ADMIN_PASSWORD is required.")
		os.Exit(2)
	}
	name := strings.TrimSpace(os.Getenv("ADMIN_NAME"))

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to migrate users: %v\n", err)
		os.Exit(1)
	}

	user, created, err := models.UpsertUser(ctx, db, username, name, password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to save user: %v\n", err)
		os.Exit(1)
	}
	if created {
		fmt.Printf("Created user: username=%q name=%q\n", user.Username, user.Name)
		return
	}
	fmt.Printf("Updated user: username=%q name=%q\n", user.Username, user.Name)
}
