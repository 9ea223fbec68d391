package models

import (
	"time"

	"github.com/agencia/backend/internal/domain/identity"
)

// UserModel is the persistence model for back-office users
type UserModel struct {
	AggregateModel
	Username     string                  `gorm:"type:varchar(100);not null;uniqueIndex"`
	PasswordHash string                  `gorm:"type:varchar(200);not null"`
	FullName     string                  `gorm:"type:varchar(200)"`
	Role         identity.Role           `gorm:"type:varchar(20);not null"`
	Category     identity.SellerCategory `gorm:"type:varchar(20)"`
	Active       bool                    `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts UserModel to the domain User aggregate
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Username:          m.Username,
		PasswordHash:      m.PasswordHash,
		FullName:          m.FullName,
		Role:              m.Role,
		Category:          m.Category,
		Active:            m.Active,
		LastLoginAt:       m.LastLoginAt,
	}
}

// FromDomain populates UserModel from the domain User aggregate
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Username = u.Username
	m.PasswordHash = u.PasswordHash
	m.FullName = u.FullName
	m.Role = u.Role
	m.Category = u.Category
	m.Active = u.Active
	m.LastLoginAt = u.LastLoginAt
}
