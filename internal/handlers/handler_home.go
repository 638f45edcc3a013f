package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getHome reports the server status.
func getHome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "ERP Accounting Backend API v1"})
}
