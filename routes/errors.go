package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gas-complaint-server/services"
)

// respondError maps service error kinds to HTTP statuses. Validation and
// guard failures carry user-facing messages; persistence failures surface as
// 502 so the client can retry.
func respondError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var batchErr *services.BatchError
	var persistenceErr *services.PersistenceError

	switch {
	case errors.As(err, &batchErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid import row",
			"message": batchErr.Error(),
			"row":     batchErr.Row,
		})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"message": validationErr.Message,
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Authentication failed",
			"message": "Invalid national id or password",
		})
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrComplaintClosed):
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Operation not allowed",
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not found",
			"message": "The requested resource does not exist",
		})
	case errors.Is(err, services.ErrDuplicateUser):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "User already exists",
			"message": err.Error(),
		})
	case errors.As(err, &persistenceErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Persistence failure",
			"message": "The change was accepted but could not be saved. Please retry.",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal error",
			"message": err.Error(),
		})
	}
}
