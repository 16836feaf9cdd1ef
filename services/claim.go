package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-loyalty/models"
	"github.com/yeremiapane/restaurant-loyalty/utils"
)

// ClaimResult melaporkan hasil satu claim
type ClaimResult struct {
	OrdersTransferred int `json:"orders_transferred"`
	PointsTransferred int `json:"points_transferred"`
}

// ClaimService memindahkan seluruh ledger dan history sebuah guest identity
// ke identity customer asli, lalu memensiunkan identity guest-nya.
type ClaimService struct {
	db *gorm.DB
}

func NewClaimService(db *gorm.DB) *ClaimService {
	return &ClaimService{db: db}
}

// ClaimOrders menulis ulang semua order milik guestEmail ke targetEmail dan
// merge ledger guest ke target dalam satu transaksi. Entry history dipindah
// (bukan disalin), poin di-increment atomik, dan record guest dihapus
// delete-if-exists sehingga retry tidak bisa double-credit.
//
// Invariant konservasi: total poin seluruh customer sebelum claim sama
// dengan sesudahnya.
func (s *ClaimService) ClaimOrders(targetEmail, guestEmail string) (*ClaimResult, error) {
	if targetEmail == "" || guestEmail == "" || targetEmail == guestEmail {
		return nil, ErrInvalidClaimRequest
	}

	var result ClaimResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		// Pindahkan semua order guest ke target (bulk)
		res := tx.Model(&models.Order{}).
			Where("customer_email = ?", guestEmail).
			Updates(map[string]interface{}{
				"customer_email": targetEmail,
				"updated_at":     now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoGuestOrders
		}
		result.OrdersTransferred = int(res.RowsAffected)

		// Target dibuat jika belum ada
		target := models.Customer{Email: targetEmail}
		if err := tx.Where("email = ?", targetEmail).FirstOrCreate(&target).Error; err != nil {
			return err
		}

		// Guest customer bisa saja belum ada (backfill belum pernah jalan);
		// claim tetap sukses, hanya order yang berpindah
		var guest models.Customer
		if err := tx.Where("email = ?", guestEmail).First(&guest).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		// Entry history dipindah dengan update key, bukan copy-insert
		if err := tx.Model(&models.OrderHistoryEntry{}).
			Where("customer_email = ?", guestEmail).
			Update("customer_email", targetEmail).Error; err != nil {
			return err
		}

		if guest.TotalPoints > 0 {
			if err := tx.Model(&models.Customer{}).
				Where("email = ?", targetEmail).
				UpdateColumn("total_points", gorm.Expr("total_points + ?", guest.TotalPoints)).Error; err != nil {
				return err
			}
		}
		result.PointsTransferred = guest.TotalPoints

		// Delete-if-exists: retry setelah partial failure tidak double-delete
		if err := tx.Where("email = ?", guestEmail).Delete(&models.Customer{}).Error; err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Claim: %d orders and %d points moved from %s to %s",
		result.OrdersTransferred, result.PointsTransferred, guestEmail, targetEmail)

	return &result, nil
}
