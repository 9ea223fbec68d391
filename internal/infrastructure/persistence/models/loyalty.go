package models

import (
	"time"

	"github.com/agencia/backend/internal/domain/loyalty"
	"github.com/google/uuid"
)

// PromotionGrantModel is the persistence model for PromotionGrant
type PromotionGrantModel struct {
	BaseModel
	SaleID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	CustomerID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	PromotionID uuid.UUID  `gorm:"type:uuid;not null"`
	Points      int64      `gorm:"not null"`
	Reversed    bool       `gorm:"not null;default:false;index"`
	ReversedAt  *time.Time ``
}

// TableName returns the table name for GORM
func (PromotionGrantModel) TableName() string {
	return "promotion_grants"
}

// ToDomain converts the persistence model to a domain PromotionGrant
func (m *PromotionGrantModel) ToDomain() *loyalty.PromotionGrant {
	return &loyalty.PromotionGrant{
		BaseEntity:  m.ToDomainBaseEntity(),
		SaleID:      m.SaleID,
		CustomerID:  m.CustomerID,
		PromotionID: m.PromotionID,
		Points:      m.Points,
		Reversed:    m.Reversed,
		ReversedAt:  m.ReversedAt,
	}
}

// FromDomain populates the persistence model from a domain PromotionGrant
func (m *PromotionGrantModel) FromDomain(g *loyalty.PromotionGrant) {
	m.FromDomainBaseEntity(g.BaseEntity)
	m.SaleID = g.SaleID
	m.CustomerID = g.CustomerID
	m.PromotionID = g.PromotionID
	m.Points = g.Points
	m.Reversed = g.Reversed
	m.ReversedAt = g.ReversedAt
}

// LoyaltyMovementModel records one loyalty-point movement on a customer's
// balance. Accruals carry positive points, redemptions negative; reversals
// insert compensating rows instead of mutating history.
type LoyaltyMovementModel struct {
	BaseModel
	CustomerID uuid.UUID  `gorm:"type:uuid;not null;index"`
	SaleID     *uuid.UUID `gorm:"type:uuid;index"`
	Points     int64      `gorm:"not null"`
	Kind       string     `gorm:"type:varchar(20);not null"` // ACCRUAL, REDEMPTION, BONUS, REVERSAL
	Reversed   bool       `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (LoyaltyMovementModel) TableName() string {
	return "loyalty_movements"
}
