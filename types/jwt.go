package types

import "github.com/golang-jwt/jwt/v5"

// Claims represents the JWT claims shared between token issuing and the auth
// middleware. UserID is the national-id login name.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
