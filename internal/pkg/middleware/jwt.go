package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	jwtpkg "github.com/riopardo/rides/internal/pkg/jwt"
	"github.com/riopardo/rides/internal/pkg/models"
	"github.com/riopardo/rides/internal/utils"
)

const (
	actorKey = "actor"

	// browsers cannot set headers on a websocket handshake
	accessTokenParam = "access_token"
)

// JWTAuthMiddleware creates a middleware for JWT authentication
func JWTAuthMiddleware(config models.JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Get the Authorization header
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" && isWebsocketUpgrade(c) {
				if token := c.QueryParam(accessTokenParam); token != "" {
					authHeader = "Bearer " + token
				}
			}
			if authHeader == "" {
				return utils.UnauthorizedResponse(c, "Authorization header is required")
			}

			// Check if the Authorization header has the correct format
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return utils.UnauthorizedResponse(c, "Invalid authorization format")
			}

			claims, err := jwtpkg.ValidateToken(parts[1], config.Secret)
			if err != nil {
				return utils.UnauthorizedResponse(c, "Invalid token: "+err.Error())
			}

			actor := claims.Actor()
			c.Set("user_id", actor.ID)
			c.Set("user_role", string(actor.Role))
			c.Set(actorKey, actor)

			return next(c)
		}
	}
}

func isWebsocketUpgrade(c echo.Context) bool {
	return strings.EqualFold(c.Request().Header.Get(echo.HeaderUpgrade), "websocket")
}

// ActorFromContext returns the identity set by JWTAuthMiddleware
func ActorFromContext(c echo.Context) (models.Actor, bool) {
	actor, ok := c.Get(actorKey).(models.Actor)
	return actor, ok
}

// SetActor attaches an identity to the request, as JWTAuthMiddleware does
func SetActor(c echo.Context, actor models.Actor) {
	c.Set("user_id", actor.ID)
	c.Set("user_role", string(actor.Role))
	c.Set(actorKey, actor)
}
