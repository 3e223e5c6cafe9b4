package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// Attachment sends body as a file download named name.
func Attachment(c *gin.Context, name, contentType string, body []byte) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, contentType, body)
}
