package handlers

import (
	"net/http"

	"blackmarket-backend/dtos"

	"github.com/gin-gonic/gin"
)

// NotImplemented answers for a resource whose API does not exist yet.
func NotImplemented(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, dtos.MessageResponse{Message: name + " API - Not implemented yet"})
	}
}

func Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, dtos.MessageResponse{Message: "Welcome to Modern Black Market API"})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
