package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/riopardo/rides/internal/pkg/models"
)

// Claims represents standard JWT claims plus the caller identity
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Actor returns the identity asserted by the token
func (c *Claims) Actor() models.Actor {
	return models.Actor{Role: models.Role(c.Role), ID: c.UserID}
}

// GenerateToken generates a JWT token for the given user details
func GenerateToken(userID string, role models.Role, cfg models.JWTConfig) (string, int64, error) {
	if cfg.Secret == "" {
		return "", 0, errors.New("jwt secret is not configured")
	}

	expirationTime := time.Now().Add(time.Duration(cfg.Expiration) * time.Minute)
	claims := Claims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    cfg.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", 0, err
	}

	return tokenString, expirationTime.Unix(), nil
}

// ValidateToken validates an HS256 token and returns its claims
func ValidateToken(tokenString string, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	if claims.UserID == "" {
		return nil, errors.New("missing user_id claim")
	}
	switch models.Role(claims.Role) {
	case models.RolePassenger, models.RoleDriver:
	default:
		return nil, fmt.Errorf("unsupported role claim %q", claims.Role)
	}
	return claims, nil
}
