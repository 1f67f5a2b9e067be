package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetAuditLog lists audit entries, optionally for one application
func (a *API) GetAuditLog(c *gin.Context) {
	appID := 0
	if raw := c.Query("application_id"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
			return
		}
		appID = parsed
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	entries, err := a.Store.GetAuditLog(appID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit log"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"total":   len(entries),
	})
}
