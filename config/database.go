package config

import (
	"log"
	"os"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kastam-document-api/models"
)

// DefaultDBPath is used when DB_PATH is not set.
const DefaultDBPath = "kastam_documents.db"

// InitDB opens the SQLite database, applies the pragmas the system relies on
// and migrates the schema. The returned handle is passed to whatever needs it;
// there is no package-level instance.
func InitDB() (*gorm.DB, error) {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = DefaultDBPath
	}

	environment := strings.ToLower(os.Getenv("ENVIRONMENT"))
	debugSQL := strings.ToLower(os.Getenv("DEBUG_SQL"))

	// In production, suppress SQL logs unless explicitly re-enabled via DEBUG_SQL=true.
	logLevel := logger.Info
	if environment == "production" && debugSQL != "true" {
		logLevel = logger.Warn
	}

	cfg := &gorm.Config{
		Logger: logger.New(
			log.New(LogWriter, "\r\n", log.LstdFlags),
			logger.Config{LogLevel: logLevel},
		),
	}

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), cfg)
	if err != nil {
		return nil, err
	}

	// Cascade deletes depend on foreign keys being enforced; the rest are the
	// write-performance pragmas the original deployment used.
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = 10000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, err
		}
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database connected successfully")
	return db, nil
}

// Migrate creates or updates all tables and their indexes.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Officer{},
		&models.Application{},
		&models.PelupusanDetail{},
		&models.Butiran5DDetail{},
		&models.Butiran5DVehicle{},
		&models.AmesDetail{},
		&models.AmesItem{},
		&models.SignupBDetail{},
		&models.Attachment{},
		&models.AuditEntry{},
	)
}
