package main

import (
	"log"
	"os"
	"path/filepath"

	"kastam-document-api/config"
	"kastam-document-api/controllers"
	"kastam-document-api/middleware"
	"kastam-document-api/routes"
	"kastam-document-api/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize logging
	config.InitLogging()

	// Initialize database
	db, err := config.InitDB()
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Working directories, each overridable individually
	dataDir := getenv("DATA_DIR", ".")
	templateDir := getenv("TEMPLATES_DIR", filepath.Join(dataDir, "templates"))
	generatedDir := getenv("GENERATED_DIR", filepath.Join(dataDir, "generated"))
	uploadDir := getenv("UPLOAD_PATH", filepath.Join(dataDir, "uploads"))
	draftsDir := getenv("DRAFTS_DIR", filepath.Join(dataDir, "drafts"))
	formConfigDir := getenv("FORM_CONFIGS_DIR", filepath.Join(dataDir, "form_configs"))
	backupDir := getenv("BACKUP_DIR", filepath.Join(dataDir, "backups"))

	for _, dir := range []string{templateDir, generatedDir, uploadDir} {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			log.Printf("Warning: Failed to create directory %s: %v", dir, err)
		}
	}

	// Build services
	store := services.NewUnifiedStore(db)
	templates := services.NewTemplateStore(templateDir)
	generator := services.NewGenerator(templates)
	converter := services.NewConverterFromEnv()
	mailer := services.NewMailerFromEnv()
	formConfigs := services.NewFormConfigManager(formConfigDir)
	drafts := services.NewDraftStore(draftsDir)

	dbPath := getenv("DB_PATH", config.DefaultDBPath)
	backups := services.NewBackupManager(backupDir,
		[]string{dbPath},
		[]string{templateDir, formConfigDir, draftsDir})

	// Daily backup scheduler
	stopBackups := make(chan struct{})
	defer close(stopBackups)
	go backups.RunDailyScheduler(stopBackups)

	api := controllers.New(db, store, templates, generator, backups,
		converter, mailer, formConfigs, drafts, generatedDir, uploadDir)

	// Set Gin mode
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add logging middleware
	router.Use(gin.Logger())

	// Add recovery middleware
	router.Use(gin.Recovery())

	// Add security headers middleware
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	})

	// Add CORS middleware
	router.Use(middleware.CORSMiddleware())

	// Setup routes
	routes.SetupRoutes(router, api, db)

	// Start server
	port := getenv("SERVER_PORT", "8080")

	log.Printf("Server starting on port %s", port)
	log.Printf("PDF converter: %s", converter.Name())
	if mailer.Enabled() {
		log.Printf("SMTP mailer configured")
	} else {
		log.Printf("SMTP mailer not configured, email delivery disabled")
	}

	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
