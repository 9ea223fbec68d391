package identity

import (
	"github.com/google/uuid"
)

// Role represents an access role within the agency back office
type Role string

const (
	RoleChief      Role = "CHIEF"      // Full access
	RoleDirector   Role = "DIRECTOR"   // Sales/administrative direction
	RoleManager    Role = "MANAGER"    // Office manager
	RoleAccountant Role = "ACCOUNTANT" // Payment confirmation and reports
	RoleSeller     Role = "SELLER"     // Sales advisor
)

// IsValid checks if the role is a known Role
func (r Role) IsValid() bool {
	switch r {
	case RoleChief, RoleDirector, RoleManager, RoleAccountant, RoleSeller:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// CanConfirmPayments returns true if the role may confirm voucher-gated payments
func (r Role) CanConfirmPayments() bool {
	return r == RoleChief || r == RoleDirector || r == RoleAccountant
}

// CanApproveCancellations returns true if the role may approve cancellation requests
func (r Role) CanApproveCancellations() bool {
	return r == RoleChief || r == RoleDirector
}

// CanOverrideCommission returns true if the role may assign manual commission percentages
func (r Role) CanOverrideCommission() bool {
	return r == RoleChief || r == RoleDirector || r == RoleManager
}

// SellerCategory drives the commission scheme applied to a seller
type SellerCategory string

const (
	CategoryCounter SellerCategory = "COUNTER" // Counter advisor, tiered scheme
	CategoryField   SellerCategory = "FIELD"   // Field advisor, flat 4%
	CategoryIsland  SellerCategory = "ISLAND"  // Island advisor, manual percentage only
	CategoryOffice  SellerCategory = "OFFICE"  // Office advisor, tiered scheme
)

// IsValid checks if the category is a known SellerCategory
func (c SellerCategory) IsValid() bool {
	switch c {
	case CategoryCounter, CategoryField, CategoryIsland, CategoryOffice:
		return true
	}
	return false
}

// String returns the string representation of SellerCategory
func (c SellerCategory) String() string {
	return string(c)
}

// IsTiered returns true for categories whose percentage follows the
// cumulative monthly sales tier table
func (c SellerCategory) IsTiered() bool {
	return c == CategoryCounter || c == CategoryOffice
}

// ActorContext carries the resolved identity of the caller through every
// financial operation. It is resolved once at the HTTP boundary instead of
// being looked up at each call site.
type ActorContext struct {
	UserID         uuid.UUID
	Role           Role
	SellerCategory SellerCategory
}

// NewActorContext creates an ActorContext for the given user
func NewActorContext(userID uuid.UUID, role Role, category SellerCategory) ActorContext {
	return ActorContext{UserID: userID, Role: role, SellerCategory: category}
}

// IsZero returns true when no actor has been resolved
func (a ActorContext) IsZero() bool {
	return a.UserID == uuid.Nil
}
