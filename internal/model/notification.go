package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification type constants
const (
	NotificationTypeOrderCleaned = "orderCleaned"
)

// Notification status constants
const (
	NotificationPending  = "pending"
	NotificationAccepted = "accepted"
	NotificationDeclined = "declined"
)

// Notification is a review request raised when staff marks an order cleaned.
// An admin accepting it moves the order on to Ready; declining it reverts the
// order to Un-Cleaned. The record itself stays terminal once actioned.
type Notification struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Type          string     `gorm:"type:varchar(30);not null;index" json:"type"`
	OrderID       string     `gorm:"type:varchar(100);not null;index" json:"order_id"`
	OrderNumber   string     `gorm:"type:varchar(100)" json:"order_number"`
	AdminID       string     `gorm:"type:varchar(100);not null" json:"admin_id"`
	StoreID       string     `gorm:"type:varchar(100);not null;index" json:"store_id"`
	Message       string     `gorm:"type:text" json:"message"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	InitiatorID   string     `gorm:"type:varchar(100)" json:"initiator_id"`
	InitiatorName string     `gorm:"type:varchar(255)" json:"initiator_name"`
	ActionedBy    string     `gorm:"type:varchar(100)" json:"actioned_by,omitempty"`
	ActionedAt    *time.Time `json:"actioned_at,omitempty"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"index" json:"updated_at"`
}
