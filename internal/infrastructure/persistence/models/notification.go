package models

import (
	"time"

	"github.com/agencia/backend/internal/domain/notification"
	"github.com/google/uuid"
)

// NotificationModel is the persistence model for notification.Record
type NotificationModel struct {
	BaseModel
	UserID  uuid.UUID         `gorm:"type:uuid;not null;index"`
	Kind    notification.Kind `gorm:"type:varchar(40);not null"`
	Message string            `gorm:"type:text;not null"`
	SaleID  *uuid.UUID        `gorm:"type:uuid;index"`
	Read    bool              `gorm:"not null;default:false;index"`
	ReadAt  *time.Time        ``
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain notification Record
func (m *NotificationModel) ToDomain() *notification.Record {
	return &notification.Record{
		BaseEntity: m.ToDomainBaseEntity(),
		UserID:     m.UserID,
		Kind:       m.Kind,
		Message:    m.Message,
		SaleID:     m.SaleID,
		Read:       m.Read,
		ReadAt:     m.ReadAt,
	}
}

// FromDomain populates the persistence model from a domain notification Record
func (m *NotificationModel) FromDomain(r *notification.Record) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.UserID = r.UserID
	m.Kind = r.Kind
	m.Message = r.Message
	m.SaleID = r.SaleID
	m.Read = r.Read
	m.ReadAt = r.ReadAt
}
