package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/agencia/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)

// User is a back-office account. Its Role drives what financial operations
// it may perform and, for sellers, its Category drives the commission scheme.
type User struct {
	shared.BaseAggregateRoot
	Username     string
	PasswordHash string
	FullName     string
	Role         Role
	Category     SellerCategory
	Active       bool
	LastLoginAt  *time.Time
}

// NewUser creates an active user with a hashed password
func NewUser(username, password, fullName string, role Role, category SellerCategory) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewValidationError("unknown role: " + string(role))
	}
	if !category.IsValid() {
		return nil, shared.NewValidationError("unknown seller category: " + string(category))
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          strings.ToLower(strings.TrimSpace(username)),
		PasswordHash:      passwordHash,
		FullName:          strings.TrimSpace(fullName),
		Role:              role,
		Category:          category,
		Active:            true,
	}

	user.AddDomainEvent(NewUserCreatedEvent(user))

	return user, nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SetPassword sets a new password (admin reset, no old password check)
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "failed to hash password")
	}

	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// ChangePassword changes the user's password after verifying the current one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// Deactivate disables login for the account
func (u *User) Deactivate() error {
	if !u.Active {
		return shared.NewInvalidTransition("user is already deactivated")
	}
	u.Active = false
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// Activate re-enables a deactivated account
func (u *User) Activate() error {
	if u.Active {
		return shared.NewInvalidTransition("user is already active")
	}
	u.Active = true
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// RecordLogin records a successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
	u.IncrementVersion()
}

// ToActorContext projects the user into the caller identity carried by
// every financial operation
func (u *User) ToActorContext() ActorContext {
	return NewActorContext(u.ID, u.Role, u.Category)
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return shared.NewValidationError("username cannot be empty")
	}
	if len(username) < 3 {
		return shared.NewValidationError("username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.NewValidationError("username cannot exceed 100 characters")
	}
	if !usernameRegex.MatchString(username) {
		return shared.NewValidationError("username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewValidationError("password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewValidationError("password cannot exceed 128 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
