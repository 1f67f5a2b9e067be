package controllers

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"kastam-document-api/services"

	"github.com/gin-gonic/gin"
)

// GetTemplates lists templates, optionally filtered by category
func (a *API) GetTemplates(c *gin.Context) {
	category := c.Query("category")

	names := a.Templates.ListTemplates(category)

	templates := make([]gin.H, 0, len(names))
	for _, name := range names {
		entry := gin.H{
			"name":        name,
			"has_content": a.Templates.HasTemplate(name),
		}
		if meta, ok := a.Templates.Metadata(name); ok {
			entry["category"] = meta.Category
			entry["version"] = meta.Version
			entry["description"] = meta.Description
			entry["modified_date"] = meta.ModifiedDate
		}
		templates = append(templates, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"templates": templates,
		"total":     len(templates),
	})
}

// GetTemplateInfo returns metadata for one template
func (a *API) GetTemplateInfo(c *gin.Context) {
	name := c.Param("name")

	meta, ok := a.Templates.Metadata(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":     name,
		"metadata": meta,
	})
}

// UploadTemplate stores or replaces a template file
func (a *API) UploadTemplate(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	name := c.PostForm("name")
	if name == "" {
		name = file.Filename
	}
	name = filepath.Base(name)

	if !strings.HasSuffix(strings.ToLower(name), ".docx") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only .docx templates are supported"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}

	isUpdate := a.Templates.HasTemplate(name)
	if err := a.Templates.SaveTemplate(name, content, isUpdate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Template saved successfully",
		"name":    name,
		"updated": isUpdate,
	})
}

// DownloadTemplate sends the stored template bytes
func (a *API) DownloadTemplate(c *gin.Context) {
	name := c.Param("name")

	content, err := a.Templates.Content(name)
	if err == services.ErrTemplateNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load template"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", content)
}

// DeleteTemplate removes a template's content, keeping its catalogue entry
func (a *API) DeleteTemplate(c *gin.Context) {
	name := c.Param("name")

	if err := a.Templates.DeleteTemplate(name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
}

// GetStandardPlaceholders lists the canonical placeholder vocabulary
func (a *API) GetStandardPlaceholders(c *gin.Context) {
	names := services.StandardPlaceholders()

	placeholders := make([]gin.H, 0, len(names))
	for _, name := range names {
		placeholders = append(placeholders, gin.H{
			"name":        name,
			"token":       services.NormalizePlaceholder(name),
			"description": services.PlaceholderDescription(name),
		})
	}

	c.JSON(http.StatusOK, gin.H{"placeholders": placeholders})
}
