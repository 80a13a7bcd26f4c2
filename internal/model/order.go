package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a laundry/dry-cleaning POS order moving through the cleaning
// workflow. OrderID is the customer-facing identifier, scoped to
// (admin, store); ID is the row key items hang off.
//
// Most columns are nullable on purpose: orders arrive from different POS
// versions and field presence is defensive. Consumers go through the
// resolver accessors in resolve.go instead of reading the raw fields.
type Order struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_orders_scope_order" json:"order_id"`
	AdminID string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_orders_scope_order;index" json:"admin_id"`
	StoreID string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_orders_scope_order;index" json:"store_id"`
	Status  string    `gorm:"type:varchar(30);not null;index" json:"status"`

	CustomerName string `gorm:"type:varchar(255)" json:"customer_name"`

	// Section fallback chain: Section, then Category, then ServiceType,
	// then the first item's section. See ResolvedSection.
	Section     string `gorm:"type:varchar(100)" json:"section,omitempty"`
	Category    string `gorm:"type:varchar(100)" json:"category,omitempty"`
	ServiceType string `gorm:"type:varchar(100)" json:"service_type,omitempty"`

	PriceList string `gorm:"type:varchar(100)" json:"price_list,omitempty"`

	RackNumber    string `gorm:"type:varchar(50)" json:"rack_number"`
	MachineNumber string `gorm:"type:varchar(50)" json:"machine_number"`
	Notes         string `gorm:"type:text" json:"notes"`
	RFIDCode      string `gorm:"type:varchar(100);index" json:"rfid_code,omitempty"`

	// Financials. TotalAmount wins over Total, PaidAmount over Paid;
	// DueAmount, when absent, is computed as max(0, total - paid).
	TotalAmount *decimal.Decimal `gorm:"type:decimal(18,4)" json:"total_amount,omitempty"`
	Total       *decimal.Decimal `gorm:"type:decimal(18,4)" json:"total,omitempty"`
	PaidAmount  *decimal.Decimal `gorm:"type:decimal(18,4)" json:"paid_amount,omitempty"`
	Paid        *decimal.Decimal `gorm:"type:decimal(18,4)" json:"paid,omitempty"`
	DueAmount   *decimal.Decimal `gorm:"type:decimal(18,4)" json:"due_amount,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderRef" json:"items"`

	DeliveryDate time.Time `gorm:"index" json:"delivery_date"`

	// Per-transition timestamps, each set exactly once when the transition
	// happens. CleanedDateTime is the only one ever cleared, and only by an
	// admin declining the cleaning review.
	CleanedDateTime   *time.Time `json:"cleaned_date_time,omitempty"`
	IronedDateTime    *time.Time `json:"ironed_date_time,omitempty"`
	ReadyDateTime     *time.Time `json:"ready_date_time,omitempty"`
	CollectedDateTime *time.Time `json:"collected_date_time,omitempty"`
	DeliveredDateTime *time.Time `json:"delivered_date_time,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItem is one garment line on an order.
type OrderItem struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderRef uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Name     string    `gorm:"type:varchar(255);not null" json:"name"`
	Quantity int       `gorm:"type:int;not null" json:"quantity"`
	Color    string    `gorm:"type:varchar(30)" json:"color,omitempty"`
	Section  string    `gorm:"type:varchar(100)" json:"section,omitempty"`
}
