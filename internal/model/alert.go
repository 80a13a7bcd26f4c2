package model

import (
	"time"

	"github.com/google/uuid"
)

// MachineAlert status constants
const (
	AlertPending  = "pending"
	AlertResolved = "resolved"
)

// MachineAlert is an operational issue report staff file against a washing
// or ironing machine from the operations view.
type MachineAlert struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StoreID     string     `gorm:"type:varchar(100);not null;index" json:"store_id"`
	MachineID   string     `gorm:"type:varchar(50);not null" json:"machine_id"`
	Date        *time.Time `json:"date,omitempty"`
	IssueTypes  string     `gorm:"type:jsonb" json:"issue_types"` // JSON array of issue labels
	Description string     `gorm:"type:text;not null" json:"description"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
