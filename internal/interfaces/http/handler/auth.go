package handler

import (
	identityapp "github.com/agencia/backend/internal/application/identity"
	"github.com/agencia/backend/internal/domain/identity"
	"github.com/agencia/backend/internal/domain/shared"
	"github.com/agencia/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers the authenticated auth routes. Login is public
// and registered separately on the engine.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.GET("/me", h.Me)
		authGroup.POST("/users", h.RegisterUser)
	}
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a user and issues a token
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c *gin.Context) {
	actor := middleware.GetActor(c)
	if actor.IsZero() {
		h.HandleError(c, shared.ErrUnauthorized)
		return
	}

	info, err := h.authService.GetProfile(c.Request.Context(), actor.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// RegisterUserRequest represents a request to create an account
type RegisterUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	FullName string `json:"full_name" binding:"max=200"`
	Role     string `json:"role" binding:"required,oneof=CHIEF DIRECTOR MANAGER ACCOUNTANT SELLER"`
	Category string `json:"category" binding:"required,oneof=COUNTER FIELD ISLAND OFFICE"`
}

// RegisterUser creates a new account
func (h *AuthHandler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	info, err := h.authService.RegisterUser(c.Request.Context(), middleware.GetActor(c), identityapp.RegisterUserRequest{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Role:     identity.Role(req.Role),
		Category: identity.SellerCategory(req.Category),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, info)
}
