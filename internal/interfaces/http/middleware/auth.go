package middleware

import (
	"net/http"
	"strings"

	"github.com/agencia/backend/internal/domain/identity"
	"github.com/agencia/backend/internal/infrastructure/auth"
	"github.com/agencia/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Context and header keys
const (
	ActorContextKey = "actor_context"
	AuthHeaderKey   = "Authorization"
	BearerPrefix    = "Bearer "
)

// JWTAuth validates the bearer token and resolves the caller into an
// ActorContext stored in the gin context. Requests without a valid token
// are rejected with 401.
func JWTAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}
		if !strings.HasPrefix(header, BearerPrefix) {
			abortUnauthorized(c, "authorization header must use the Bearer scheme")
			return
		}

		tokenString := strings.TrimPrefix(header, BearerPrefix)
		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			switch err {
			case auth.ErrExpiredToken:
				abortUnauthorized(c, "token has expired")
			default:
				abortUnauthorized(c, "invalid token")
			}
			return
		}

		actor, err := claims.ToActorContext()
		if err != nil {
			abortUnauthorized(c, "invalid token claims")
			return
		}

		c.Set(ActorContextKey, actor)
		c.Next()
	}
}

// GetActor returns the ActorContext resolved by JWTAuth. The zero actor is
// returned for unauthenticated requests.
func GetActor(c *gin.Context) identity.ActorContext {
	value, exists := c.Get(ActorContextKey)
	if !exists {
		return identity.ActorContext{}
	}
	actor, ok := value.(identity.ActorContext)
	if !ok {
		return identity.ActorContext{}
	}
	return actor
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, message))
}
