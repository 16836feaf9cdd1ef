package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-loyalty/models"
	"github.com/yeremiapane/restaurant-loyalty/utils"
)

// ItemFeedback adalah input feedback untuk satu item order
type ItemFeedback struct {
	ItemIndex   int    `json:"item_index"`
	Rating      int    `json:"rating"`
	Description string `json:"description"`
}

// FeedbackResult adalah hasil satu submit feedback
type FeedbackResult struct {
	PointsEarned int `json:"points_earned"`
	TotalPoints  int `json:"total_points"`
}

// FeedbackService menangani submit feedback dan update ledger customer
type FeedbackService struct {
	db *gorm.DB
}

func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{db: db}
}

// SubmitFeedback menerapkan feedback satu kali ke order dan mengkredit poin
// ke ledger customer pemiliknya. Submit feedback adalah transisi state
// sekali jalan: unrated -> feedback_submitted, tanpa jalan balik.
//
// Order dan customer ditulis dalam satu transaksi; guard kondisional pada
// feedback_submitted memastikan paling banyak satu dari dua submit
// bersamaan yang menang, yang kalah melihat ErrFeedbackAlreadySubmitted.
func (s *FeedbackService) SubmitFeedback(orderID uint, feedbacks []ItemFeedback, callerEmail string) (*FeedbackResult, error) {
	var order models.Order
	// Urutan item harus stabil: item_index dari client mengacu ke urutan
	// pembuatan item di order
	if err := s.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.FeedbackSubmitted {
		return nil, ErrFeedbackAlreadySubmitted
	}

	// Submit kosong tidak boleh menembakkan state machine: tanpa item
	// ber-rating tidak ada entry history yang sah
	if len(feedbacks) == 0 {
		return nil, fmt.Errorf("%w: at least one rated item is required", ErrInvalidFeedbackItem)
	}

	// Validasi semua entry dulu sebelum mutasi apapun: index harus match
	// item order, tidak boleh dobel, dan rating harus di range. Entry tanpa
	// rating valid tidak pernah sampai ke sini (ditolak utuh).
	now := time.Now()
	totalPoints := 0
	ratedItems := make([]models.RatedItem, 0, len(feedbacks))
	type itemUpdate struct {
		itemID      uint
		rating      int
		description string
	}
	updates := make([]itemUpdate, 0, len(feedbacks))

	seen := make(map[int]bool, len(feedbacks))
	for _, fb := range feedbacks {
		if fb.ItemIndex < 0 || fb.ItemIndex >= len(order.Items) {
			return nil, fmt.Errorf("%w: item index %d out of range", ErrInvalidFeedbackItem, fb.ItemIndex)
		}
		// Index dobel berarti item yang sama dinilai dua kali: poin bisa
		// digelembungkan dan rating pertama tertimpa
		if seen[fb.ItemIndex] {
			return nil, fmt.Errorf("%w: duplicate item index %d", ErrInvalidFeedbackItem, fb.ItemIndex)
		}
		seen[fb.ItemIndex] = true
		if !ValidRating(fb.Rating) {
			return nil, fmt.Errorf("%w: rating %d outside [%d,%d]", ErrInvalidFeedbackItem, fb.Rating, MinRating, MaxRating)
		}

		item := order.Items[fb.ItemIndex]
		points := ItemPoints(fb.Rating, item.Quantity)
		totalPoints += points

		ratedItems = append(ratedItems, models.RatedItem{
			Name:     item.Name,
			Rating:   fb.Rating,
			Quantity: item.Quantity,
			Points:   points,
		})
		updates = append(updates, itemUpdate{
			itemID:      item.ID,
			rating:      fb.Rating,
			description: fb.Description,
		})
	}

	var result FeedbackResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Guard kondisional: update hanya jika submitted masih false.
		// RowsAffected == 0 berarti submit lain sudah menang duluan.
		res := tx.Model(&models.Order{}).
			Where("id = ? AND feedback_submitted = ?", order.ID, false).
			Updates(map[string]interface{}{
				"feedback_submitted":    true,
				"feedback_submitted_at": now,
				"feedback_points":       totalPoints,
				"updated_at":            now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrFeedbackAlreadySubmitted
		}

		for _, u := range updates {
			if err := tx.Model(&models.OrderItem{}).
				Where("id = ?", u.itemID).
				Updates(map[string]interface{}{
					"rating":         u.rating,
					"feedback_notes": u.description,
					"feedback_at":    now,
					"updated_at":     now,
				}).Error; err != nil {
				return err
			}
		}

		customerKey, err := ResolveCustomerKey(tx, &order, callerEmail)
		if err != nil {
			return err
		}

		// Load-or-create customer untuk key ini
		customer := models.Customer{Email: customerKey}
		if err := tx.Where("email = ?", customerKey).FirstOrCreate(&customer).Error; err != nil {
			return err
		}

		entry := models.OrderHistoryEntry{
			CustomerEmail: customerKey,
			OrderID:       order.ID,
			RestaurantID:  order.RestaurantID,
			TableNumber:   order.TableNumber,
			TotalPoints:   totalPoints,
			OrderDate:     order.CreatedAt,
		}
		if err := entry.SetRatedItems(ratedItems); err != nil {
			return err
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		// Increment atomik di SQL, bukan read-modify-write di aplikasi,
		// supaya submit bersamaan atau claim tidak kehilangan update
		if err := tx.Model(&models.Customer{}).
			Where("email = ?", customerKey).
			UpdateColumn("total_points", gorm.Expr("total_points + ?", totalPoints)).Error; err != nil {
			return err
		}

		var updated models.Customer
		if err := tx.Where("email = ?", customerKey).First(&updated).Error; err != nil {
			return err
		}

		result = FeedbackResult{
			PointsEarned: totalPoints,
			TotalPoints:  updated.TotalPoints,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Feedback submitted for order %d: %d points to %s (total %d)",
		order.ID, result.PointsEarned, *order.CustomerEmail, result.TotalPoints)

	return &result, nil
}
