package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gas-complaint-server/middleware"
	"gas-complaint-server/services"
)

// UpdateProfileRequest is a self-service profile edit
type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Password *string `json:"password"`
	Avatar   *string `json:"avatar"`
}

// RegisterProfileRoutes registers the own-profile routes.
func RegisterProfileRoutes(rg *gin.RouterGroup, directory *services.DirectoryService) {
	rg.PUT("/profile", func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"message": err.Error(),
			})
			return
		}

		updated, err := directory.UpdateProfile(user.ID, services.ProfileInput{
			FullName: req.FullName,
			Password: req.Password,
			Avatar:   req.Avatar,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Profile updated successfully",
			"data":    updated.Public(),
		})
	})
}
