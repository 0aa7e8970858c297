package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gas-complaint-server/appstate"
	"gas-complaint-server/models"
	"gas-complaint-server/utils"
)

// AuthMiddleware validates JWT tokens, resolves the user against the roster
// and sets user context
func AuthMiddleware(state *appstate.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Authorization header required",
				"message": "Please provide a valid token",
			})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid token format",
				"message": "Token must be in format: Bearer <token>",
			})
			c.Abort()
			return
		}

		authenticate(c, state, tokenString)
	}
}

// WebSocketAuthMiddleware accepts the token as a query parameter, since
// browser WebSocket clients cannot set headers.
func WebSocketAuthMiddleware(state *appstate.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("token")
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Token required",
				"message": "Provide the token as a query parameter",
			})
			c.Abort()
			return
		}

		authenticate(c, state, tokenString)
	}
}

func authenticate(c *gin.Context, state *appstate.State, tokenString string) {
	claims, err := utils.VerifyToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Invalid token",
			"message": "Token is expired or malformed",
		})
		c.Abort()
		return
	}

	user, ok := state.UserByID(claims.UserID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "User not found",
			"message": "The account behind this token no longer exists",
		})
		c.Abort()
		return
	}

	c.Set("user", user)
	c.Set("user_id", user.ID)
	c.Next()
}

// RequireAdmin gates a route group to administrators.
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}

// RequireRole gates a route group to the given roles.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "User not authenticated",
				"message": "Please log in first",
			})
			c.Abort()
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Insufficient permissions",
			"message": "Your role may not perform this operation",
		})
		c.Abort()
	}
}

// CurrentUser pulls the authenticated user out of the gin context.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := value.(models.User)
	if !ok {
		return nil, false
	}
	return &user, true
}
