package main

import (
	"flag"
	"os"

	"cacc/config"
	authController "cacc/controllers/auth"
	"cacc/database"
	"cacc/models"
	"cacc/utils"
)

// Creates a reviewer account. Pass -staff for an administrator.
//
//	go run ./scripts -username admin -password secret -staff
func main() {
	username := flag.String("username", "", "login name (required)")
	password := flag.String("password", "", "plain-text password (required)")
	firstName := flag.String("first-name", "", "first name")
	lastName := flag.String("last-name", "", "last name")
	email := flag.String("email", "", "email address")
	staff := flag.Bool("staff", false, "grant administrator access")
	flag.Parse()

	if *username == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	// Load config and connect to database
	config.LoadConfig()
	utils.ConfigureLogger(config.AppConfig)
	database.ConnectDb()

	hashed, err := authController.HashPassword(*password)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to hash password")
	}

	reviewer := models.Reviewer{
		Username:  *username,
		FirstName: *firstName,
		LastName:  *lastName,
		Email:     *email,
		Password:  hashed,
		IsStaff:   *staff,
		IsActive:  true,
	}

	if err := database.Database.Db.Create(&reviewer).Error; err != nil {
		utils.Logger.WithError(err).WithField("username", *username).Fatal("Failed to create reviewer")
	}

	utils.Logger.WithFields(map[string]interface{}{
		"id":       reviewer.ID,
		"username": reviewer.Username,
		"staff":    reviewer.IsStaff,
	}).Info("Reviewer created")
}
