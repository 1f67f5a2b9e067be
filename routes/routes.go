package routes

import (
	"kastam-document-api/controllers"
	"kastam-document-api/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(router *gin.Engine, api *controllers.API, db *gorm.DB) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", api.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Kastam Document API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(db))
		{
			// Officer profile
			protected.GET("/profile", api.GetProfile)
			protected.PUT("/change-password", api.ChangePassword)

			// Applications
			applications := protected.Group("/applications")
			{
				applications.GET("", api.GetApplications)
				applications.GET("/search", api.SearchApplications)
				applications.GET("/statistics", api.GetStatistics)
				applications.GET("/monthly-report", api.GetMonthlyReport)
				applications.GET("/export", api.ExportCSV)
				applications.GET("/:id", api.GetApplication)
				applications.DELETE("/:id", api.DeleteApplication)
				applications.GET("/:id/document", api.DownloadGeneratedDocument)

				// Attachments
				applications.POST("/:id/attachments", api.UploadAttachment)
				applications.GET("/:id/attachments", api.GetAttachmentList)
			}

			attachments := protected.Group("/attachments")
			{
				attachments.GET("/:attachment_id", api.DownloadAttachment)
				attachments.DELETE("/:attachment_id", api.DeleteAttachment)
			}

			// Document generation
			protected.POST("/generate", api.GenerateDocument)

			// Templates
			templates := protected.Group("/templates")
			{
				templates.GET("", api.GetTemplates)
				templates.POST("", api.UploadTemplate)
				templates.GET("/placeholders", api.GetStandardPlaceholders)
				templates.GET("/:name", api.GetTemplateInfo)
				templates.GET("/:name/download", api.DownloadTemplate)
				templates.GET("/:name/placeholders", api.GetTemplatePlaceholders)
				templates.DELETE("/:name", api.DeleteTemplate)
			}

			// Drafts
			drafts := protected.Group("/drafts")
			{
				drafts.GET("/:form_type", api.GetDraft)
				drafts.PUT("/:form_type", api.SaveDraft)
				drafts.DELETE("/:form_type", api.DeleteDraft)
			}

			// Form layouts
			formConfigs := protected.Group("/form-configs")
			{
				formConfigs.GET("/header-footer", api.GetHeaderFooterConfig)
				formConfigs.PUT("/header-footer", api.SaveHeaderFooterConfig)
				formConfigs.GET("/:form_type", api.GetFormConfig)
				formConfigs.PUT("/:form_type", api.SaveFormConfig)
			}

			// Audit log
			protected.GET("/audit-log", api.GetAuditLog)

			// Backups
			backups := protected.Group("/backups")
			{
				backups.GET("", api.GetBackups)
				backups.POST("", api.CreateBackup)
			}
		}
	}

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "Route not found"})
	})
}
