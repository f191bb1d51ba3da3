package handlers

import (
	"net/http"

	"github.com/dgeni2/chamber-api/pkg/embedded"
	"github.com/gin-gonic/gin"
)

// ListExamples returns the embedded demo scores clients can harmonize
// without uploading their own file.
func ListExamples(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"examples": embedded.ExampleScores(),
	})
}
