package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// AccessTokenPayload is the data minted into an access token.
type AccessTokenPayload struct {
	UserID    string
	Role      enums.UserRole
	SessionID string
}

// AccessTokenClaims binds a user to the browsing session that signed in.
type AccessTokenClaims struct {
	UserID    string         `json:"user_id"`
	Role      enums.UserRole `json:"role"`
	SessionID string         `json:"session_id"`
	jwt.RegisteredClaims
}
