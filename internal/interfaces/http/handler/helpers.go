package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Export response headers
const (
	HeaderExportStrategy = "X-Export-Strategy"
	HeaderExportJobID    = "X-Export-Job-ID"
	HeaderArchiveURL     = "X-Export-Archive-URL"
	HeaderIdempotencyKey = "Idempotency-Key"
)

// sendPDF writes data as a PDF attachment named fileName
func sendPDF(c *gin.Context, fileName string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", data)
}
