// One-shot backup, for cron or before an upgrade
// cmd/backup/main.go
package main

import (
	"log"
	"os"
	"path/filepath"

	"kastam-document-api/config"
	"kastam-document-api/services"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = config.DefaultDBPath
	}

	backups := services.NewBackupManager(
		filepath.Join(dataDir, "backups"),
		[]string{dbPath},
		[]string{
			filepath.Join(dataDir, "templates"),
			filepath.Join(dataDir, "form_configs"),
			filepath.Join(dataDir, "drafts"),
		},
	)

	path, err := backups.CreateBackup("manual")
	if err != nil {
		log.Fatal("Backup failed:", err)
	}

	log.Printf("Backup created: %s", path)
}
