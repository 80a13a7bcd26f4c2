package model

import (
	"time"

	"github.com/google/uuid"
)

// Per-view defaults for the overdue row highlight, in days. The threshold is
// context-dependent: the cleaning pipeline flags much earlier than the ready
// rack does.
const (
	DefaultHighlightCleaningDays = 2
	DefaultHighlightReadyDays    = 20
)

// DefaultPriceListName labels orders that never picked a price list.
const DefaultPriceListName = "Default Price List"

// StoreSettings is the per-store configuration row.
// HighlightOrderRowRed <= 0 means "use the view default".
type StoreSettings struct {
	StoreID              string      `gorm:"type:varchar(100);primaryKey" json:"store_id"`
	HighlightOrderRowRed int         `gorm:"type:int;default:0" json:"highlight_order_row_red"`
	RentalEnabled        *bool       `json:"rental_enabled,omitempty"`
	PriceLists           []PriceList `gorm:"foreignKey:StoreID;references:StoreID" json:"price_lists"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

// PriceList is a named tariff a store can file orders under.
type PriceList struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StoreID string    `gorm:"type:varchar(100);not null;index" json:"store_id"`
	Name    string    `gorm:"type:varchar(100);not null" json:"name"`
}

// RentalOrdersEnabled reports whether rental-category orders belong in the
// packing report. Absent means enabled.
func (s *StoreSettings) RentalOrdersEnabled() bool {
	if s == nil || s.RentalEnabled == nil {
		return true
	}
	return *s.RentalEnabled
}
