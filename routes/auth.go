package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gas-complaint-server/middleware"
	"gas-complaint-server/services"
	"gas-complaint-server/utils"
)

// RegisterRequest represents the registration request
type RegisterRequest struct {
	FullName   string `json:"full_name" binding:"required"`
	NationalID string `json:"national_id" binding:"required"`
	Password   string `json:"password" binding:"required,min=3"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	NationalID string `json:"national_id" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// RegisterAuthRoutes registers authentication routes
func RegisterAuthRoutes(router *gin.RouterGroup, directory *services.DirectoryService) {
	router.POST("/register", func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"message": err.Error(),
			})
			return
		}

		user, err := directory.Register(req.FullName, req.NationalID, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		token, err := utils.GenerateToken(user.ID, string(user.Role))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Token generation failed",
				"message": "Failed to generate authentication token",
			})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "User registered successfully",
			"token":   token,
			"user":    user.Public(),
		})
	})

	router.POST("/login", func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"message": err.Error(),
			})
			return
		}

		user, err := directory.Authenticate(req.NationalID, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		token, err := utils.GenerateToken(user.ID, string(user.Role))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Token generation failed",
				"message": "Failed to generate authentication token",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Authentication successful",
			"token":   token,
			"user":    user.Public(),
		})
	})
}

// GetCurrentUser returns the current authenticated user's profile
func GetCurrentUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "User not authenticated",
			"message": "Please log in to access your profile",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User profile retrieved successfully",
		"data":    user.Public(),
	})
}
