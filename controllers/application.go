package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"kastam-document-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetApplications lists application summaries, newest first
func (a *API) GetApplications(c *gin.Context) {
	formType := c.Query("form_type")
	if formType != "" && !models.ValidFormType(formType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown form type"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	apps, err := a.Store.GetAllApplications(formType, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": apps,
		"total":        len(apps),
	})
}

// GetApplication returns one application with its form details
func (a *API) GetApplication(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	app, err := a.Store.GetApplicationByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch application"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"application": app})
}

// DeleteApplication removes an application and its details
func (a *API) DeleteApplication(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	officerName := c.GetString("officerName")

	if err := a.Store.DeleteApplication(id, officerName); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete application"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Application deleted successfully"})
}

// SearchApplications searches company name, reference, chassis, engine,
// certificate and approval numbers
func (a *API) SearchApplications(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	formType := c.Query("form_type")
	if formType != "" && !models.ValidFormType(formType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown form type"})
		return
	}

	results, err := a.Store.SearchApplications(query, formType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"total":   len(results),
	})
}

// GetStatistics returns aggregate counts, optionally for one form type
func (a *API) GetStatistics(c *gin.Context) {
	formType := c.Query("form_type")
	if formType != "" && !models.ValidFormType(formType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown form type"})
		return
	}

	stats, err := a.Store.GetStatistics(formType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"statistics": stats})
}

// GetMonthlyReport returns per-month counts by form type for a year
func (a *API) GetMonthlyReport(c *gin.Context) {
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().Year())))
	if err != nil || year < 2000 || year > 2100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return
	}

	report, err := a.Store.GetMonthlyReport(year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":   year,
		"report": report,
	})
}

// ExportCSV streams applications as a CSV download
func (a *API) ExportCSV(c *gin.Context) {
	formType := c.Query("form_type")
	if formType != "" && !models.ValidFormType(formType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown form type"})
		return
	}

	fileName := fmt.Sprintf("applications_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))

	if err := a.Store.ExportCSV(formType, c.Writer); err != nil {
		// Headers are already out; all we can do is log through gin's writer.
		c.Status(http.StatusInternalServerError)
		return
	}
}
