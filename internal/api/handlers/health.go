package handlers

import (
	"net/http"

	"github.com/dgeni2/chamber-api/internal/cache"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	store *cache.Store
}

func NewHealthHandler(store *cache.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"cache": gin.H{
			"entries": h.store.Len(),
		},
	})
}
