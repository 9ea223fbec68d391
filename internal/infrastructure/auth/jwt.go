package auth

import (
	"errors"
	"time"

	"github.com/agencia/backend/internal/domain/identity"
	"github.com/agencia/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrInvalidClaims    = errors.New("invalid token claims")
)

// Claims carries the authenticated identity inside the JWT. Role and
// category are embedded so the actor can be resolved without a user lookup
// on every request.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string                  `json:"user_id"`
	Username string                  `json:"username"`
	Role     identity.Role           `json:"role"`
	Category identity.SellerCategory `json:"category"`
}

// ToActorContext resolves the claims into the caller identity
func (c *Claims) ToActorContext() (identity.ActorContext, error) {
	userID, err := uuid.Parse(c.UserID)
	if err != nil {
		return identity.ActorContext{}, ErrInvalidClaims
	}
	return identity.NewActorContext(userID, c.Role, c.Category), nil
}

// Token is a signed access token with its expiry
type Token struct {
	Value     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// JWTService issues and validates access tokens
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.TokenExpiration,
		issuer:     cfg.Issuer,
	}
}

// GenerateToken issues a signed token for the user
func (s *JWTService) GenerateToken(user *identity.User) (*Token, error) {
	now := time.Now()
	expiresAt := now.Add(s.expiration)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   user.ID.String(),
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:   user.ID.String(),
		Username: user.Username,
		Role:     user.Role,
		Category: user.Category,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &Token{Value: signed, ExpiresAt: expiresAt}, nil
}

// ValidateToken parses and validates a token, returning its claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.UserID == "" {
		return nil, ErrInvalidClaims
	}

	return claims, nil
}

// TokenExpiration returns the configured token lifetime
func (s *JWTService) TokenExpiration() time.Duration {
	return s.expiration
}
