package models

import (
	"encoding/json"
	"time"
)

// OrderHistoryEntry adalah satu event perolehan poin di ledger customer.
// Append-only; entry hanya berpindah (bukan diduplikasi) ke customer lain
// saat claim-merge.
type OrderHistoryEntry struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	CustomerEmail string `gorm:"type:varchar(255);not null;index" json:"customer_email"`
	OrderID       uint   `gorm:"not null;index" json:"order_id"`
	RestaurantID  string `gorm:"type:varchar(64);not null" json:"restaurant_id"`
	TableNumber   string `gorm:"type:varchar(50);not null" json:"table_number"`
	// RatedItems adalah snapshot JSON item yang diberi rating beserta poinnya
	RatedItems  string    `gorm:"type:text" json:"-"`
	TotalPoints int       `gorm:"not null" json:"total_points"`
	OrderDate   time.Time `gorm:"not null" json:"order_date"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

// RatedItem adalah bentuk ter-serialisasi dari satu item di snapshot history.
type RatedItem struct {
	Name     string `json:"name"`
	Rating   int    `json:"rating"`
	Quantity int    `json:"quantity"`
	Points   int    `json:"points"`
}

// SetRatedItems meng-encode snapshot item ke kolom teks
func (e *OrderHistoryEntry) SetRatedItems(items []RatedItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	e.RatedItems = string(raw)
	return nil
}

// GetRatedItems men-decode snapshot item dari kolom teks
func (e *OrderHistoryEntry) GetRatedItems() ([]RatedItem, error) {
	if e.RatedItems == "" {
		return nil, nil
	}
	var items []RatedItem
	if err := json.Unmarshal([]byte(e.RatedItems), &items); err != nil {
		return nil, err
	}
	return items, nil
}
