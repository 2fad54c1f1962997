package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	authvalidator "fitcoach/services/coach-api/internal/infrastructure/auth"
	"fitcoach/services/coach-api/internal/interfaces/httpserver/responses"
)

const principalContextKey = "principal"

// AuthMiddleware validates JWT bearer tokens and stores the resolved
// principal in the gin context. Requests without a resolvable numeric user
// identity are rejected before any handler runs.
func AuthMiddleware(validator *authvalidator.JWKSValidator, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			logger.Warn().
				Str("path", c.FullPath()).
				Str("method", c.Request.Method).
				Msg("unauthenticated request")
			responses.HandleErrorWithStatus(c, http.StatusUnauthorized, errors.New("authentication required"), "unauthorized")
			return
		}

		principal, err := validator.Validate(c.Request.Context(), token)
		if err != nil {
			logger.Error().Err(err).Msg("jwt validation failed")
			responses.HandleErrorWithStatus(c, http.StatusUnauthorized, err, "unauthorized")
			return
		}

		setPrincipal(c, principal)
		c.Next()
	}
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(c *gin.Context) (*authvalidator.Principal, bool) {
	val, ok := c.Get(principalContextKey)
	if !ok {
		return nil, false
	}
	principal, ok := val.(*authvalidator.Principal)
	return principal, ok
}

func setPrincipal(c *gin.Context, principal *authvalidator.Principal) {
	c.Set(principalContextKey, principal)
	c.Set("user_id", principal.UserID)
	if principal.Subject != "" {
		c.Request.Header.Set("X-User-Subject", principal.Subject)
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
