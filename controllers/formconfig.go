package controllers

import (
	"net/http"

	"kastam-document-api/models"
	"kastam-document-api/services"

	"github.com/gin-gonic/gin"
)

// GetFormConfig returns the layout for a form type
func (a *API) GetFormConfig(c *gin.Context) {
	formType := c.Param("form_type")
	if !models.ValidFormType(formType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown form type"})
		return
	}

	cfg, err := a.FormConfigs.Load(formType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load form config"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"config": cfg})
}

// GetHeaderFooterConfig returns the letterhead configuration
func (a *API) GetHeaderFooterConfig(c *gin.Context) {
	cfg, err := a.FormConfigs.LoadHeaderFooter()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load header/footer config"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"config": cfg})
}

// SaveHeaderFooterConfig replaces the letterhead configuration
func (a *API) SaveHeaderFooterConfig(c *gin.Context) {
	var cfg services.HeaderFooterConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.FormConfigs.SaveHeaderFooter(&cfg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save header/footer config"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Header/footer config saved successfully"})
}

// SaveFormConfig replaces the layout for a form type
func (a *API) SaveFormConfig(c *gin.Context) {
	formType := c.Param("form_type")
	if !models.ValidFormType(formType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown form type"})
		return
	}

	var cfg services.FormConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cfg.FormName = formType

	if err := a.FormConfigs.Save(&cfg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save form config"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Form config saved successfully"})
}
