package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gas-complaint-server/services"
)

// RegisterAttachmentRoutes registers the file upload endpoint.
func RegisterAttachmentRoutes(rg *gin.RouterGroup, uploads *services.UploadService) {
	rg.POST("/attachments", func(c *gin.Context) {
		header, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid form data",
				"message": "Provide the file under the \"file\" field",
			})
			return
		}

		attachment, err := uploads.Process(c.Request.Context(), header)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "File uploaded successfully",
			"data":    attachment,
		})
	})
}
