package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UploadAttachment stores a supporting file against an application
func (a *API) UploadAttachment(c *gin.Context) {
	appID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	// Make sure the application exists first
	if _, err := a.Store.GetApplicationByID(appID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch application"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	// Store under a generated name so uploads cannot collide or traverse paths
	ext := filepath.Ext(file.Filename)
	storedName := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	storedPath := filepath.Join(a.UploadDir, storedName)

	if err := c.SaveUploadedFile(file, storedPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	attachmentID, err := a.Store.AddAttachment(appID, file.Filename, storedPath, ext, file.Size)
	if err != nil {
		os.Remove(storedPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record attachment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "File uploaded successfully",
		"attachment_id": attachmentID,
		"file_name":     file.Filename,
	})
}

// GetAttachmentList lists attachments of an application
func (a *API) GetAttachmentList(c *gin.Context) {
	appID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	attachments, err := a.Store.GetAttachments(appID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attachments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attachments": attachments,
		"total":       len(attachments),
	})
}

// DownloadAttachment sends the stored file back under its original name
func (a *API) DownloadAttachment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("attachment_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attachment ID"})
		return
	}

	attachment, err := a.Store.GetAttachment(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Attachment not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attachment"})
		return
	}

	if _, err := os.Stat(attachment.FilePath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File missing from storage"})
		return
	}

	c.FileAttachment(attachment.FilePath, attachment.FileName)
}

// DeleteAttachment removes the record and the stored file
func (a *API) DeleteAttachment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("attachment_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attachment ID"})
		return
	}

	attachment, err := a.Store.GetAttachment(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Attachment not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attachment"})
		return
	}

	if err := a.Store.DeleteAttachment(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete attachment"})
		return
	}

	// Best effort; the record is already gone
	os.Remove(attachment.FilePath)

	c.JSON(http.StatusOK, gin.H{"message": "Attachment deleted successfully"})
}
