package middleware

import (
	"context"
	"errors"
	"strings"

	"housiee-backend/internal/shared/authz"
	"housiee-backend/internal/shared/response"
	"housiee-backend/pkg/apperror"
	"housiee-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const callerKey = "caller"

// CallerResolver loads the current role and provider profile of a user.
// It returns an error wrapping apperror.ErrNotFound when the user is gone.
type CallerResolver interface {
	ResolveCaller(ctx context.Context, userID uuid.UUID) (*authz.Caller, error)
}

// Session resolves the caller from the session cookie, falling back to an
// "Authorization: Bearer" header. Requests without a valid session pass
// through anonymously; RequireAuth decides whether that is acceptable.
// The role in the token is ignored: role and provider id are re-read on
// every request so admin changes apply immediately.
func Session(tokens *jwt.Manager, cookieName string, resolver CallerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c, cookieName)
		if token == "" {
			c.Next()
			return
		}

		claims, err := tokens.ValidateSessionToken(token)
		if err != nil {
			log.Debug().Err(err).Str("request_id", c.GetString("request_id")).Msg("Ignoring invalid session token")
			c.Next()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.Next()
			return
		}

		caller, err := resolver.ResolveCaller(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				// token outlived its user
				c.Next()
				return
			}
			response.Abort(c, err)
			return
		}

		SetCaller(c, caller)
		c.Next()
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetCaller(c) == nil {
			response.Abort(c, apperror.Unauthorized("Authentication required"))
			return
		}
		c.Next()
	}
}

// SetCaller stores the caller on both the gin and the request context.
func SetCaller(c *gin.Context, caller *authz.Caller) {
	c.Set(callerKey, caller)
	c.Set("user_id", caller.UserID.String())
	c.Request = c.Request.WithContext(authz.WithCaller(c.Request.Context(), caller))
}

// GetCaller returns the resolved caller, or nil for anonymous requests.
func GetCaller(c *gin.Context) *authz.Caller {
	v, ok := c.Get(callerKey)
	if !ok {
		return nil
	}
	caller, _ := v.(*authz.Caller)
	return caller
}

func sessionToken(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
