package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateBackup triggers a manual backup archive
func (a *API) CreateBackup(c *gin.Context) {
	path, err := a.Backups.CreateBackup("manual")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Backup failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Backup created successfully",
		"path":    path,
	})
}

// GetBackups lists backup archives on disk
func (a *API) GetBackups(c *gin.Context) {
	backups, err := a.Backups.ListBackups()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list backups"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"backups": backups,
		"total":   len(backups),
	})
}
