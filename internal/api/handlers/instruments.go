package handlers

import (
	"net/http"

	"github.com/dgeni2/chamber-api/internal/harmony"
	"github.com/gin-gonic/gin"
)

// ListInstruments returns the supported instrument profiles, including
// the default profile used for names the engine does not recognize.
func ListInstruments(c *gin.Context) {
	profiles := harmony.Profiles()

	c.JSON(http.StatusOK, gin.H{
		"instruments":     profiles,
		"max_instruments": harmony.MaxInstruments,
	})
}
