package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gas-complaint-server/models"
	"gas-complaint-server/services"
)

// AddEngineerRequest represents an administrative engineer add
type AddEngineerRequest struct {
	NationalID  string `json:"national_id" binding:"required"`
	FullName    string `json:"full_name" binding:"required"`
	Role        string `json:"role" binding:"required"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

// UpdateEngineerRequest is a partial engineer edit
type UpdateEngineerRequest struct {
	FullName    *string `json:"full_name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	Role        *string `json:"role"`
}

// ImportEngineersRequest carries the parsed spreadsheet rows
type ImportEngineersRequest struct {
	Rows []services.EngineerImportRow `json:"rows" binding:"required"`
}

func publicUsers(users []models.User) []models.User {
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out
}

// RegisterEngineerRoutes registers the admin engineer-management routes.
func RegisterEngineerRoutes(rg *gin.RouterGroup, directory *services.DirectoryService) {
	rg.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Engineers retrieved successfully",
			"data": gin.H{
				"supervisors": publicUsers(directory.Supervisors()),
				"executors":   publicUsers(directory.Executors()),
			},
		})
	})

	rg.POST("", func(c *gin.Context) {
		var req AddEngineerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"message": err.Error(),
			})
			return
		}

		user, err := directory.AddEngineer(services.EngineerInput{
			NationalID:  req.NationalID,
			FullName:    req.FullName,
			Role:        models.Role(req.Role),
			Email:       req.Email,
			PhoneNumber: req.PhoneNumber,
			Password:    req.Password,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Engineer added successfully",
			"data":    user.Public(),
		})
	})

	rg.PUT("/:id", func(c *gin.Context) {
		var req UpdateEngineerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"message": err.Error(),
			})
			return
		}

		in := services.UpdateEngineerInput{
			FullName:    req.FullName,
			Email:       req.Email,
			PhoneNumber: req.PhoneNumber,
		}
		if req.Role != nil {
			role := models.Role(*req.Role)
			in.Role = &role
		}

		user, err := directory.UpdateEngineer(c.Param("id"), in)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Engineer updated successfully",
			"data":    user.Public(),
		})
	})

	rg.POST("/import", func(c *gin.Context) {
		var req ImportEngineersRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"message": err.Error(),
			})
			return
		}

		if err := directory.ImportEngineers(req.Rows); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Engineer roster imported successfully",
			"data": gin.H{
				"imported": len(req.Rows),
			},
		})
	})
}
