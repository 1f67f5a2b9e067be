// Seeds or updates an officer account
// cmd/create-officer/main.go
package main

import (
	"flag"
	"log"

	"kastam-document-api/config"
	"kastam-document-api/models"
	"kastam-document-api/utils"

	"github.com/joho/godotenv"
)

func main() {
	name := flag.String("name", "", "officer name")
	email := flag.String("email", "", "officer email")
	password := flag.String("password", "", "initial password")
	flag.Parse()

	if *name == "" || *email == "" || *password == "" {
		log.Fatal("Usage: create-officer -name NAME -email EMAIL -password PASSWORD")
	}

	if !utils.ValidateEmail(*email) {
		log.Fatal("Invalid email address")
	}
	if ok, reason := utils.ValidatePassword(*password); !ok {
		log.Fatal(reason)
	}

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize database
	db, err := config.InitDB()
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	hash, err := utils.HashPassword(*password)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	var officer models.Officer
	result := db.Where("email = ?", *email).First(&officer)
	if result.Error == nil {
		officer.Name = *name
		officer.Password = hash
		if err := db.Save(&officer).Error; err != nil {
			log.Fatal("Failed to update officer:", err)
		}
		log.Printf("Updated officer %s\n", *email)
		return
	}

	officer = models.Officer{Name: *name, Email: *email, Password: hash}
	if err := db.Create(&officer).Error; err != nil {
		log.Fatal("Failed to create officer:", err)
	}

	log.Printf("Created officer %s\n", *email)
}
