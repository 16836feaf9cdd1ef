package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-loyalty/models"
	"github.com/yeremiapane/restaurant-loyalty/utils"
)

// HistoryEntryView adalah satu entry history yang sudah diformat untuk client
type HistoryEntryView struct {
	OrderID      uint               `json:"order_id"`
	RestaurantID string             `json:"restaurant_id"`
	TableNumber  string             `json:"table_number"`
	RatedItems   []models.RatedItem `json:"rated_items"`
	TotalPoints  int                `json:"total_points"`
	OrderDate    string             `json:"order_date"`
}

// HistoryResult adalah jawaban query history (session maupun email)
type HistoryResult struct {
	TotalPoints  int                `json:"total_points"`
	OrderHistory []HistoryEntryView `json:"order_history"`
	// Orders hanya diisi untuk query by email: semua order dengan email
	// tersebut lintas restoran, ber-rating maupun tidak
	Orders []models.Order `json:"orders,omitempty"`
}

// HistoryService menyusun view history read-only dari store.
// Semua query fail-soft: error store di-log dan menghasilkan view kosong,
// tidak pernah dipropagasi ke caller.
type HistoryService struct {
	db *gorm.DB
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{db: db}
}

// SessionHistory -> history untuk satu sesi meja, di-key dengan guest key.
// Jika record customer belum ada (backfill belum jalan), total poin dihitung
// langsung dari order yang match; turunan ini harus sama dengan ledger
// begitu record customer terbentuk.
func (s *HistoryService) SessionHistory(restaurantID, tableNumber string) *HistoryResult {
	key := GuestKey(restaurantID, tableNumber)

	var customer models.Customer
	err := s.db.Preload("OrderHistory", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_date DESC")
	}).Where("email = ?", key).First(&customer).Error
	if err == nil {
		return &HistoryResult{
			TotalPoints:  customer.TotalPoints,
			OrderHistory: s.formatEntries(customer.OrderHistory),
		}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.ErrorLogger.Printf("SessionHistory: customer lookup failed for %s: %v", key, err)
		return &HistoryResult{OrderHistory: []HistoryEntryView{}}
	}

	// Fallback: belum ada record customer, jumlahkan dari order langsung.
	// Hanya order tanpa identity atau masih ber-guest-key yang dihitung;
	// order yang sudah di-claim ke email asli bukan milik sesi meja lagi
	var orders []models.Order
	if err := s.db.Preload("Items").
		Where("restaurant_id = ? AND table_number = ? AND feedback_submitted = ? AND (customer_email IS NULL OR customer_email = '' OR customer_email = ?)",
			restaurantID, tableNumber, true, key).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		utils.ErrorLogger.Printf("SessionHistory: order scan failed for %s/%s: %v", restaurantID, tableNumber, err)
		return &HistoryResult{OrderHistory: []HistoryEntryView{}}
	}

	result := &HistoryResult{OrderHistory: []HistoryEntryView{}}
	for _, order := range orders {
		view, rated := entryFromOrder(order)
		if !rated {
			// Order tanpa item ber-rating tidak masuk history sesi
			continue
		}
		result.TotalPoints += order.FeedbackPoints
		result.OrderHistory = append(result.OrderHistory, view)
	}
	return result
}

// EmailHistory -> gabungan ledger customer dan semua order yang membawa
// email tersebut, lintas restoran. Order tanpa rating tetap dilaporkan
// di daftar order.
func (s *HistoryService) EmailHistory(email string) *HistoryResult {
	result := &HistoryResult{OrderHistory: []HistoryEntryView{}, Orders: []models.Order{}}

	var orders []models.Order
	if err := s.db.Preload("Items").
		Where("customer_email = ?", email).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		utils.ErrorLogger.Printf("EmailHistory: order scan failed for %s: %v", email, err)
	} else {
		result.Orders = orders
	}

	var customer models.Customer
	err := s.db.Preload("OrderHistory", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_date DESC")
	}).Where("email = ?", email).First(&customer).Error
	if err == nil {
		result.TotalPoints = customer.TotalPoints
		result.OrderHistory = s.formatEntries(customer.OrderHistory)
		return result
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.ErrorLogger.Printf("EmailHistory: customer lookup failed for %s: %v", email, err)
		return result
	}

	// Fallback tanpa record customer: total turunan dari order
	for _, order := range result.Orders {
		if !order.FeedbackSubmitted {
			continue
		}
		view, rated := entryFromOrder(order)
		if !rated {
			continue
		}
		result.TotalPoints += order.FeedbackPoints
		result.OrderHistory = append(result.OrderHistory, view)
	}
	return result
}

func (s *HistoryService) formatEntries(entries []models.OrderHistoryEntry) []HistoryEntryView {
	views := make([]HistoryEntryView, 0, len(entries))
	for _, e := range entries {
		items, err := e.GetRatedItems()
		if err != nil {
			utils.ErrorLogger.Printf("formatEntries: bad rated items snapshot on entry %d: %v", e.ID, err)
			items = nil
		}
		views = append(views, HistoryEntryView{
			OrderID:      e.OrderID,
			RestaurantID: e.RestaurantID,
			TableNumber:  e.TableNumber,
			RatedItems:   items,
			TotalPoints:  e.TotalPoints,
			OrderDate:    e.OrderDate.Format("2006-01-02 15:04:05"),
		})
	}
	return views
}

// entryFromOrder membangun view history langsung dari order (jalur fallback).
// Return kedua false jika order tidak punya item ber-rating sama sekali.
func entryFromOrder(order models.Order) (HistoryEntryView, bool) {
	rated := make([]models.RatedItem, 0, len(order.Items))
	for _, item := range order.Items {
		if !item.Rated() {
			continue
		}
		rated = append(rated, models.RatedItem{
			Name:     item.Name,
			Rating:   *item.Rating,
			Quantity: item.Quantity,
			Points:   ItemPoints(*item.Rating, item.Quantity),
		})
	}
	view := HistoryEntryView{
		OrderID:      order.ID,
		RestaurantID: order.RestaurantID,
		TableNumber:  order.TableNumber,
		RatedItems:   rated,
		TotalPoints:  order.FeedbackPoints,
		OrderDate:    order.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	return view, len(rated) > 0
}
