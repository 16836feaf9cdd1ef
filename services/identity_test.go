package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/restaurant-loyalty/models"
)

func TestGuestKeyFormat(t *testing.T) {
	// Format v1 harus stabil: key yang sudah diterbitkan dipakai untuk
	// lookup record lama
	assert.Equal(t, "guest-R1-5@temp", GuestKey("R1", "5"))
	assert.Equal(t, "guest-resto-42-A1@temp", GuestKey("resto-42", "A1"))
}

func TestGuestKeyDeterministic(t *testing.T) {
	// Semua sesi anonim di meja yang sama mendapat key yang sama
	assert.Equal(t, GuestKey("R1", "5"), GuestKey("R1", "5"))
}

func TestIsGuestKey(t *testing.T) {
	assert.True(t, IsGuestKey(GuestKey("R1", "5")))
	assert.False(t, IsGuestKey("real@example.com"))
	assert.False(t, IsGuestKey("guest-without-suffix@example.com"))
}

func TestResolveCustomerKeyExistingEmailWins(t *testing.T) {
	db := setupTestDB(t)
	order := seedOrder(t, db, "R1", "5", ptrString("existing@example.com"))

	// Email yang sudah ter-set menang, bahkan melawan email caller
	key, err := ResolveCustomerKey(db, &order, "caller@example.com")
	require.NoError(t, err)
	assert.Equal(t, "existing@example.com", key)

	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, "existing@example.com", *stored.CustomerEmail)
}

func TestResolveCustomerKeyCallerEmail(t *testing.T) {
	db := setupTestDB(t)
	order := seedOrder(t, db, "R1", "5", nil)

	key, err := ResolveCustomerKey(db, &order, "caller@example.com")
	require.NoError(t, err)
	assert.Equal(t, "caller@example.com", key)

	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, "caller@example.com", *stored.CustomerEmail)
}

func TestResolveCustomerKeyGuestFallback(t *testing.T) {
	db := setupTestDB(t)
	order := seedOrder(t, db, "R1", "5", nil)

	key, err := ResolveCustomerKey(db, &order, "")
	require.NoError(t, err)
	assert.Equal(t, "guest-R1-5@temp", key)
}

func TestResolveCustomerKeyLostRaceReturnsStoredEmail(t *testing.T) {
	db := setupTestDB(t)
	order := seedOrder(t, db, "R1", "5", nil)

	// Simulasikan backfill yang menang balapan: email sudah tertulis di
	// store setelah caller membaca order tapi sebelum resolver menulis
	stale := order
	guestKey := GuestKey("R1", "5")
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("customer_email", guestKey).Error)

	// Resolver harus mengembalikan nilai yang sudah tersimpan, bukan
	// kandidat caller, supaya kredit ledger dan order tidak terpisah
	key, err := ResolveCustomerKey(db, &stale, "caller@example.com")
	require.NoError(t, err)
	assert.Equal(t, guestKey, key)
	assert.Equal(t, guestKey, *stale.CustomerEmail)

	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, guestKey, *stored.CustomerEmail)
}

func TestResolveCustomerKeyIdempotent(t *testing.T) {
	db := setupTestDB(t)
	order := seedOrder(t, db, "R1", "5", nil)

	first, err := ResolveCustomerKey(db, &order, "")
	require.NoError(t, err)

	// Pemanggilan kedua melihat nilai yang sudah ter-set: no-op
	second, err := ResolveCustomerKey(db, &order, "other@example.com")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
