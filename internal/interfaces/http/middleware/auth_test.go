package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agencia/backend/internal/domain/identity"
	"github.com/agencia/backend/internal/infrastructure/auth"
	"github.com/agencia/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testRouter(jwtService *auth.JWTService) (*gin.Engine, *identity.ActorContext) {
	var captured identity.ActorContext
	engine := gin.New()
	engine.Use(JWTAuth(jwtService))
	engine.GET("/protected", func(c *gin.Context) {
		captured = GetActor(c)
		c.Status(http.StatusOK)
	})
	return engine, &captured
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:          "test-secret-key-for-signing",
		Issuer:          "agencia-test",
		TokenExpiration: time.Hour,
	})
}

func TestJWTAuth(t *testing.T) {
	jwtService := newTestJWTService()

	t.Run("resolves the actor from a valid token", func(t *testing.T) {
		user, err := identity.NewUser("maria", "secret-pass1", "", identity.RoleAccountant, identity.CategoryCounter)
		require.NoError(t, err)
		token, err := jwtService.GenerateToken(user)
		require.NoError(t, err)

		engine, actor := testRouter(jwtService)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token.Value)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, user.ID, actor.UserID)
		assert.Equal(t, identity.RoleAccountant, actor.Role)
	})

	t.Run("rejects requests without a token", func(t *testing.T) {
		engine, _ := testRouter(jwtService)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects non-bearer schemes", func(t *testing.T) {
		engine, _ := testRouter(jwtService)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(AuthHeaderKey, "Basic dXNlcjpwYXNz")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects tampered tokens", func(t *testing.T) {
		engine, _ := testRouter(jwtService)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+"not.a.token")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestGetActor(t *testing.T) {
	t.Run("returns the zero actor outside JWTAuth", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		assert.True(t, GetActor(c).IsZero())
	})
}
