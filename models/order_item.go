package models

import "time"

type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
	// Omitting Order field from JSON to avoid recursive nesting
	Order  Order `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuID uint  `gorm:"not null" json:"menu_id"`
	// Name dan Price adalah snapshot saat order dibuat, bukan join ke tabel menu
	Name     string  `gorm:"type:varchar(255);not null" json:"name"`
	Price    float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity int     `gorm:"not null" json:"quantity"`

	// Feedback per item; rating hanya terisi setelah feedback order di-submit,
	// dan immutable setelahnya
	Rating        *int       `json:"rating,omitempty"`
	FeedbackNotes string     `gorm:"type:text" json:"feedback_notes,omitempty"`
	FeedbackAt    *time.Time `json:"feedback_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Rated -> item sudah punya rating feedback
func (oi *OrderItem) Rated() bool {
	return oi.Rating != nil
}
