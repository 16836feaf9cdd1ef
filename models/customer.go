package models

import (
	"time"
)

// Customer adalah ledger loyalty per identity (email asli atau guest key).
// Invariant: TotalPoints == jumlah TotalPoints semua entry OrderHistory
// ditambah poin yang ditransfer masuk lewat claim.
type Customer struct {
	Email string `gorm:"primaryKey;type:varchar(255)" json:"email"`
	// UserID terisi jika customer sudah terhubung ke akun terautentikasi
	UserID      *uint `gorm:"index" json:"user_id,omitempty"`
	TotalPoints int   `gorm:"not null;default:0" json:"total_points"`

	OrderHistory []OrderHistoryEntry `gorm:"foreignKey:CustomerEmail;references:Email" json:"order_history"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
