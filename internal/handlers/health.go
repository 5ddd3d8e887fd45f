package handlers

import (
	"net/http"

	"github.com/charlesng35/corpman/pkg/response"
	"github.com/gin-gonic/gin"
)

// Root reports that the API is up.
func Root() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.SuccessWithMessage(c, http.StatusOK, "corp-man is live 🚀", nil)
	}
}

// Health returns a simple status payload used when the health manager is disabled.
func Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
