package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-loyalty/models"
)

// Format guest key diversioning secara eksplisit: key yang sudah pernah
// diterbitkan harus tetap bisa di-lookup walaupun formatnya berubah nanti.
const (
	guestKeyPrefix = "guest-"
	guestKeySuffix = "@temp"
)

// GuestKey menurunkan identity deterministik untuk sesi anonim di satu meja.
// Key ini stabil lintas sesi dan dipakai bersama oleh semua diner anonim
// di meja tersebut sampai ada claim.
func GuestKey(restaurantID, tableNumber string) string {
	return fmt.Sprintf("%s%s-%s%s", guestKeyPrefix, restaurantID, tableNumber, guestKeySuffix)
}

// IsGuestKey -> email adalah guest key sintetis, bukan alamat asli
func IsGuestKey(email string) bool {
	return strings.HasPrefix(email, guestKeyPrefix) && strings.HasSuffix(email, guestKeySuffix)
}

// ResolveCustomerKey menentukan identity pemilik order:
// email yang sudah tersimpan di order menang, lalu email caller, terakhir
// guest key. Menulis balik ke order paling banyak satu kali; pemanggilan
// berikutnya melihat nilai yang sudah ter-set dan menjadi no-op.
func ResolveCustomerKey(tx *gorm.DB, order *models.Order, callerEmail string) (string, error) {
	if order.HasCustomerEmail() {
		return *order.CustomerEmail, nil
	}

	email := callerEmail
	if email == "" {
		email = GuestKey(order.RestaurantID, order.TableNumber)
	}

	res := tx.Model(&models.Order{}).
		Where("id = ? AND (customer_email IS NULL OR customer_email = '')", order.ID).
		Updates(map[string]interface{}{
			"customer_email": email,
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return "", res.Error
	}

	// Kalah balapan: backfill atau submit lain keburu menulis email di
	// antara read caller dan update ini. Nilai yang sudah tersimpan yang
	// berlaku, bukan kandidat kita
	if res.RowsAffected == 0 {
		var stored models.Order
		if err := tx.First(&stored, order.ID).Error; err != nil {
			return "", err
		}
		if stored.HasCustomerEmail() {
			order.CustomerEmail = stored.CustomerEmail
			return *stored.CustomerEmail, nil
		}
	}

	order.CustomerEmail = &email
	return email, nil
}
