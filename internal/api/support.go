package api

import (
	"errors"   // Error matching against the service taxonomy
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"bank_portal/internal/review"

	"github.com/gin-gonic/gin" // Gin web framework

	"github.com/sirupsen/logrus" // Logging library
)

// OpenIssuesHandler lists open support issues, oldest first
func OpenIssuesHandler(svc *review.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		issues, err := svc.OpenIssues(c.Request.Context())
		if err != nil {
			logrus.WithField("error", err.Error()).Error("Failed to list open issues")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch issues"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"issues": issues})
	}
}

// CloseIssueHandler closes an issue; a staff-only manual action
func CloseIssueHandler(svc *review.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue id"})
			return
		}
		issue, err := svc.CloseIssue(c.Request.Context(), uint(id))
		switch {
		case errors.Is(err, review.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
			return
		case err != nil:
			logrus.WithFields(logrus.Fields{
				"issue_id": id,
				"error":    err.Error(),
			}).Error("Failed to close issue")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close issue"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"issue": issue})
	}
}
