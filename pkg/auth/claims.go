package auth

import (
	"github.com/casalink-ph/casalink-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload is what callers provide to mint a token.
type AccessTokenPayload struct {
	Username string
	Role     enums.Role
}

// AccessTokenClaims is the JWT claim set carried by every access token.
type AccessTokenClaims struct {
	Username string     `json:"username"`
	Role     enums.Role `json:"role"`
	jwt.RegisteredClaims
}
