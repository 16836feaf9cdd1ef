package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-loyalty/models"
	"github.com/yeremiapane/restaurant-loyalty/utils"
)

// BackfillResult melaporkan satu run backfill
type BackfillResult struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
}

// MigrationService memberi guest identity ke order lama yang belum punya.
// Idempoten penuh: run kedua menemukan nol kandidat dan tidak menulis apapun,
// sehingga aman dijadwalkan berulang. Ini juga jalur repair untuk window
// partial-failure (lihat DESIGN.md).
type MigrationService struct {
	db *gorm.DB
}

func NewMigrationService(db *gorm.DB) *MigrationService {
	return &MigrationService{db: db}
}

// BackfillMissingIdentities men-scan order ber-email kosong, menulis guest
// key, dan memastikan record guest customer ada. Order yang sudah punya
// email (guest maupun asli) tidak disentuh. Order baru yang belum sempat
// di-resolve adalah state valid, bukan error: kandidat untuk run berikutnya.
func (s *MigrationService) BackfillMissingIdentities() (*BackfillResult, error) {
	var orders []models.Order
	if err := s.db.
		Where("customer_email IS NULL OR customer_email = ''").
		Find(&orders).Error; err != nil {
		return nil, err
	}

	result := &BackfillResult{Scanned: len(orders)}
	now := time.Now()

	for _, order := range orders {
		key := GuestKey(order.RestaurantID, order.TableNumber)

		// Guard yang sama dengan resolver: jangan timpa email yang keburu
		// ter-set oleh submit feedback yang berjalan bersamaan
		res := s.db.Model(&models.Order{}).
			Where("id = ? AND (customer_email IS NULL OR customer_email = '')", order.ID).
			Updates(map[string]interface{}{
				"customer_email": key,
				"updated_at":     now,
			})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			continue
		}

		// Guest customer dibuat kosong; poin menyusul saat feedback
		customer := models.Customer{Email: key}
		if err := s.db.Where("email = ?", key).FirstOrCreate(&customer).Error; err != nil {
			return nil, err
		}

		result.Updated++
	}

	if result.Updated > 0 {
		utils.InfoLogger.Printf("Backfill assigned guest identity to %d of %d orders", result.Updated, result.Scanned)
	}
	return result, nil
}

// BackfillScheduler menjalankan backfill secara periodik.
// Aman karena operasinya idempoten.
type BackfillScheduler struct {
	service  *MigrationService
	Interval time.Duration
	stopChan chan struct{}
}

func NewBackfillScheduler(service *MigrationService, interval time.Duration) *BackfillScheduler {
	return &BackfillScheduler{
		service:  service,
		Interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (b *BackfillScheduler) Start() {
	go func() {
		ticker := time.NewTicker(b.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := b.service.BackfillMissingIdentities(); err != nil {
					utils.ErrorLogger.Printf("Scheduled backfill failed: %v", err)
				}
			case <-b.stopChan:
				return
			}
		}
	}()
}

func (b *BackfillScheduler) Stop() {
	close(b.stopChan)
}
