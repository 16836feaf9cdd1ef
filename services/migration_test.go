package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/restaurant-loyalty/models"
)

func TestBackfillAssignsGuestIdentity(t *testing.T) {
	db := setupTestDB(t)
	order := seedOrder(t, db, "R1", "5", nil)
	service := NewMigrationService(db)

	result, err := service.BackfillMissingIdentities()
	require.NoError(t, err)
	assert.Equal(t, 1, result.Scanned)
	assert.Equal(t, 1, result.Updated)

	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, "guest-R1-5@temp", *stored.CustomerEmail)

	// Guest customer dibuat dengan nol poin dan history kosong
	var customer models.Customer
	require.NoError(t, db.Preload("OrderHistory").Where("email = ?", "guest-R1-5@temp").First(&customer).Error)
	assert.Equal(t, 0, customer.TotalPoints)
	assert.Empty(t, customer.OrderHistory)
}

func TestBackfillIdempotent(t *testing.T) {
	db := setupTestDB(t)
	seedOrder(t, db, "R1", "5", nil)
	seedOrder(t, db, "R2", "3", nil)
	service := NewMigrationService(db)

	first, err := service.BackfillMissingIdentities()
	require.NoError(t, err)
	assert.Equal(t, 2, first.Updated)

	// Run kedua: nol kandidat, nol write
	second, err := service.BackfillMissingIdentities()
	require.NoError(t, err)
	assert.Equal(t, 0, second.Scanned)
	assert.Equal(t, 0, second.Updated)
}

func TestBackfillSkipsOrdersWithEmail(t *testing.T) {
	db := setupTestDB(t)
	real := seedOrder(t, db, "R1", "5", ptrString("diner@example.com"))
	guest := seedOrder(t, db, "R1", "5", ptrString(GuestKey("R1", "5")))
	missing := seedOrder(t, db, "R2", "3", nil)
	service := NewMigrationService(db)

	result, err := service.BackfillMissingIdentities()
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	// Email yang sudah ada (asli maupun guest) tidak disentuh
	var storedReal models.Order
	require.NoError(t, db.First(&storedReal, real.ID).Error)
	assert.Equal(t, "diner@example.com", *storedReal.CustomerEmail)
	var storedGuest models.Order
	require.NoError(t, db.First(&storedGuest, guest.ID).Error)
	assert.Equal(t, "guest-R1-5@temp", *storedGuest.CustomerEmail)
	var storedMissing models.Order
	require.NoError(t, db.First(&storedMissing, missing.ID).Error)
	assert.Equal(t, "guest-R2-3@temp", *storedMissing.CustomerEmail)
}

func TestBackfillThenFeedbackAgree(t *testing.T) {
	db := setupTestDB(t)
	order := seedOrder(t, db, "R1", "5", nil)

	_, err := NewMigrationService(db).BackfillMissingIdentities()
	require.NoError(t, err)

	// Feedback setelah backfill mengkredit ledger guest yang sudah dibuat
	result, err := NewFeedbackService(db).SubmitFeedback(order.ID, []ItemFeedback{{ItemIndex: 0, Rating: 5}}, "")
	require.NoError(t, err)
	assert.Equal(t, 10, result.TotalPoints)

	var customer models.Customer
	require.NoError(t, db.Where("email = ?", "guest-R1-5@temp").First(&customer).Error)
	assert.Equal(t, 10, customer.TotalPoints)
}
