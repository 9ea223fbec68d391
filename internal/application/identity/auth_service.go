package identity

import (
	"context"
	"time"

	"github.com/agencia/backend/internal/domain/identity"
	"github.com/agencia/backend/internal/domain/shared"
	"github.com/agencia/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService handles authentication and account management
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo identity.UserRepository, jwtService *auth.JWTService, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// UserInfo is the public projection of a user account
type UserInfo struct {
	ID       uuid.UUID               `json:"id"`
	Username string                  `json:"username"`
	FullName string                  `json:"full_name"`
	Role     identity.Role           `json:"role"`
	Category identity.SellerCategory `json:"category"`
	Active   bool                    `json:"active"`
}

// LoginResult carries the issued token and the authenticated user
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserInfo  `json:"user"`
}

// Login authenticates a user by username and password and issues a token.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		s.logger.Warn("login attempt for unknown username", zap.String("username", username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "invalid username or password")
	}

	if !user.Active {
		s.logger.Warn("login attempt for deactivated account", zap.String("username", username))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "account has been deactivated")
	}

	if !user.VerifyPassword(password) {
		s.logger.Warn("invalid password attempt", zap.String("username", username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "invalid username or password")
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		s.logger.Error("failed to generate token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "failed to generate authentication token")
	}

	user.RecordLogin()
	if err := s.userRepo.Save(ctx, user); err != nil {
		// Login already succeeded; a stale last-login timestamp is acceptable.
		s.logger.Error("failed to record login", zap.Error(err))
	}

	s.logger.Info("user logged in",
		zap.String("username", user.Username),
		zap.String("user_id", user.ID.String()))

	return &LoginResult{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
		User:      toUserInfo(user),
	}, nil
}

// RegisterUserRequest carries the data to create an account
type RegisterUserRequest struct {
	Username string
	Password string
	FullName string
	Role     identity.Role
	Category identity.SellerCategory
}

// RegisterUser creates a new account. Only the chief may create accounts.
func (s *AuthService) RegisterUser(ctx context.Context, actor identity.ActorContext, req RegisterUserRequest) (*UserInfo, error) {
	if actor.IsZero() {
		return nil, shared.ErrUnauthorized
	}
	if actor.Role != identity.RoleChief {
		return nil, shared.ErrForbidden
	}

	if existing, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "username is already taken")
	}

	user, err := identity.NewUser(req.Username, req.Password, req.FullName, req.Role, req.Category)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("username", user.Username),
		zap.String("role", user.Role.String()))

	info := toUserInfo(user)
	return &info, nil
}

// GetProfile returns the account behind an actor
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(user)
	return &info, nil
}

func toUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Role:     u.Role,
		Category: u.Category,
		Active:   u.Active,
	}
}
