package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gas-complaint-server/models"
	"gas-complaint-server/services"
)

// RegisterSmsSettingsRoutes registers the admin SMS panel routes.
func RegisterSmsSettingsRoutes(rg *gin.RouterGroup, sms *services.SmsService) {
	rg.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "SMS settings retrieved successfully",
			"data":    sms.Settings(),
		})
	})

	rg.PUT("", func(c *gin.Context) {
		var settings models.SmsSettings
		if err := c.ShouldBindJSON(&settings); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"message": err.Error(),
			})
			return
		}

		if err := sms.UpdateSettings(settings); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "SMS settings saved successfully",
			"data":    sms.Settings(),
		})
	})
}
