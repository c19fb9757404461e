package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"inquirydesk/internal/config"
	"inquirydesk/internal/database"
	"inquirydesk/internal/logging"
	"inquirydesk/internal/services"
	"inquirydesk/internal/session"
	"inquirydesk/internal/util"
)

func main() {
	flagSet := pflag.NewFlagSet("create_admin", pflag.ExitOnError)
	username := flagSet.StringP("username", "u", "admin", "manager username")
	password := flagSet.StringP("password", "p", "admin", "manager password")
	email := flagSet.String("email", "admin@inquirydesk.local", "manager email")
	fullName := flagSet.String("name", "System Administrator", "display name")
	_ = flagSet.Parse(os.Args[1:])

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Log.Level, "console").Named("create_admin")
	defer func() { _ = log.Sync() }()

	// Initialize database
	db, err := database.Open(cfg.Database, log)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	auth := services.NewAuthService(db, util.NewTokenManager(cfg.Auth), session.NewMemoryRevoker(), log)
	user, err := auth.CreateUser(context.Background(), *username, *email, *password, *fullName, true)
	if err != nil {
		if services.ErrorName(err) == services.ErrNameBadRequest {
			fmt.Printf("Could not create %q: %v\n", *username, err)
			return
		}
		log.Fatal("failed to create admin user", zap.Error(err))
	}

	fmt.Println("Admin user created successfully!")
	fmt.Printf("Username: %s\n", user.Username)
	if *password == "admin" {
		fmt.Println("Password: admin")
		fmt.Println("Please change the password after first login!")
	}
}
