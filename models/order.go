package models

import (
	"time"
)

// Status order selama siklus hidupnya
const (
	OrderStatusPlaced    = "placed"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusServed    = "served"
	OrderStatusCanceled  = "canceled"
)

type Order struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	RestaurantID string `gorm:"type:varchar(64);not null;index:idx_restaurant_table" json:"restaurant_id"`
	TableNumber  string `gorm:"type:varchar(50);not null;index:idx_restaurant_table" json:"table_number"`
	// CustomerEmail tetap NULL sampai di-resolve oleh feedback ledger atau backfill
	CustomerEmail *string `gorm:"type:varchar(255);index" json:"customer_email,omitempty"`
	Status        string  `gorm:"type:varchar(20);not null;default:'placed'" json:"status"`

	// FeedbackSummary: submitted hanya transisi false -> true, tidak pernah di-reset
	FeedbackSubmitted   bool       `gorm:"not null;default:false" json:"feedback_submitted"`
	FeedbackSubmittedAt *time.Time `json:"feedback_submitted_at,omitempty"`
	FeedbackPoints      int        `gorm:"not null;default:0" json:"feedback_points"`

	CreatedAt time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time   `gorm:"not null" json:"updated_at"`
	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

// HasCustomerEmail -> true jika order sudah punya identity (guest atau real)
func (o *Order) HasCustomerEmail() bool {
	return o.CustomerEmail != nil && *o.CustomerEmail != ""
}
