package model

import (
	"time"

	"github.com/google/uuid"
)

// Workflow audit actions
const (
	ActionMarkCleaned     = "MARK_CLEANED"
	ActionConfirmRack     = "CONFIRM_RACK"
	ActionMarkIroned      = "MARK_IRONED"
	ActionMarkCollected   = "MARK_COLLECTED"
	ActionMarkDelivered   = "MARK_DELIVERED"
	ActionCancelOrder     = "CANCEL_ORDER"
	ActionAcceptCleaning  = "ACCEPT_CLEANING"
	ActionDeclineCleaning = "DECLINE_CLEANING"
	ActionUpdateDetails   = "UPDATE_DETAILS"
	ActionDeleteOrder     = "DELETE_ORDER"
)

// OrderEvent tracks who moved an order and when.
type OrderEvent struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   string    `gorm:"type:varchar(100);not null;index" json:"order_id"`
	StoreID   string    `gorm:"type:varchar(100);not null;index" json:"store_id"`
	Action    string    `gorm:"type:varchar(50);not null;index" json:"action"`
	ActorID   string    `gorm:"type:varchar(100)" json:"actor_id"`
	Details   string    `gorm:"type:jsonb" json:"details"` // Serialized JSON payload of the action
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
