package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"kastam-document-api/models"
	"kastam-document-api/services"

	"github.com/gin-gonic/gin"
)

// SaveDraft stores an in-progress form for a form type
func (a *API) SaveDraft(c *gin.Context) {
	formType := c.Param("form_type")
	if !models.ValidFormType(formType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown form type"})
		return
	}

	var payload json.RawMessage
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid draft payload"})
		return
	}

	if err := a.Drafts.Save(formType, payload); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save draft"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Draft saved successfully"})
}

// GetDraft returns the saved draft for a form type
func (a *API) GetDraft(c *gin.Context) {
	formType := c.Param("form_type")
	if !models.ValidFormType(formType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown form type"})
		return
	}

	draft, err := a.Drafts.Load(formType)
	if errors.Is(err, services.ErrDraftNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No draft saved"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load draft"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// DeleteDraft removes the saved draft for a form type
func (a *API) DeleteDraft(c *gin.Context) {
	formType := c.Param("form_type")
	if !models.ValidFormType(formType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown form type"})
		return
	}

	if err := a.Drafts.Delete(formType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete draft"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Draft deleted successfully"})
}
