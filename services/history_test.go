package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/restaurant-loyalty/models"
)

func TestSessionHistoryWithLedger(t *testing.T) {
	db := setupTestDB(t)
	order := seedOrder(t, db, "R1", "5", nil)

	_, err := NewFeedbackService(db).SubmitFeedback(order.ID, []ItemFeedback{
		{ItemIndex: 0, Rating: 4},
		{ItemIndex: 1, Rating: 3},
	}, "")
	require.NoError(t, err)

	result := NewHistoryService(db).SessionHistory("R1", "5")
	assert.Equal(t, 20, result.TotalPoints)
	require.Len(t, result.OrderHistory, 1)
	assert.Equal(t, order.ID, result.OrderHistory[0].OrderID)
	assert.Len(t, result.OrderHistory[0].RatedItems, 2)
}

func TestSessionHistoryFallbackAgreesWithLedger(t *testing.T) {
	db := setupTestDB(t)
	order := seedOrder(t, db, "R1", "5", nil)
	service := NewHistoryService(db)

	_, err := NewFeedbackService(db).SubmitFeedback(order.ID, []ItemFeedback{
		{ItemIndex: 0, Rating: 4},
		{ItemIndex: 1, Rating: 3},
	}, "")
	require.NoError(t, err)

	withLedger := service.SessionHistory("R1", "5")

	// Hapus record customer untuk memaksa jalur fallback turunan-dari-order
	require.NoError(t, db.Where("email = ?", "guest-R1-5@temp").Delete(&models.Customer{}).Error)
	fallback := service.SessionHistory("R1", "5")

	// Total fallback harus sama dengan ledger
	assert.Equal(t, withLedger.TotalPoints, fallback.TotalPoints)
	assert.Len(t, fallback.OrderHistory, len(withLedger.OrderHistory))
}

func TestSessionHistoryEmptySession(t *testing.T) {
	db := setupTestDB(t)

	// Degradasi ke history kosong, bukan error
	result := NewHistoryService(db).SessionHistory("R9", "99")
	assert.Equal(t, 0, result.TotalPoints)
	assert.Empty(t, result.OrderHistory)
}

func TestSessionHistoryExcludesUnratedOrders(t *testing.T) {
	db := setupTestDB(t)
	rated := seedOrder(t, db, "R1", "5", nil)
	seedOrder(t, db, "R1", "5", nil) // tanpa feedback

	_, err := NewFeedbackService(db).SubmitFeedback(rated.ID, []ItemFeedback{{ItemIndex: 0, Rating: 5}}, "")
	require.NoError(t, err)

	result := NewHistoryService(db).SessionHistory("R1", "5")
	assert.Len(t, result.OrderHistory, 1)
}

func TestSessionHistoryAfterClaimDoesNotResurrectPoints(t *testing.T) {
	db := setupTestDB(t)
	order := seedOrder(t, db, "R1", "5", nil)

	_, err := NewFeedbackService(db).SubmitFeedback(order.ID, []ItemFeedback{
		{ItemIndex: 0, Rating: 4},
		{ItemIndex: 1, Rating: 3},
	}, "")
	require.NoError(t, err)

	_, err = NewClaimService(db).ClaimOrders("real@x.com", GuestKey("R1", "5"))
	require.NoError(t, err)

	// Ledger guest sudah pensiun dan order berpindah pemilik; view sesi
	// meja tidak boleh menghitung ulang poin yang sudah ditransfer
	result := NewHistoryService(db).SessionHistory("R1", "5")
	assert.Equal(t, 0, result.TotalPoints)
	assert.Empty(t, result.OrderHistory)
}

func TestSessionHistoryFallbackExcludesClaimedOrders(t *testing.T) {
	db := setupTestDB(t)
	feedback := NewFeedbackService(db)

	// Satu order di-rating dengan email asli, satu anonim di meja yang sama
	claimed := seedOrder(t, db, "R1", "5", nil)
	_, err := feedback.SubmitFeedback(claimed.ID, []ItemFeedback{{ItemIndex: 0, Rating: 5}}, "diner@example.com")
	require.NoError(t, err)
	anon := seedOrder(t, db, "R1", "5", nil)
	_, err = feedback.SubmitFeedback(anon.ID, []ItemFeedback{{ItemIndex: 0, Rating: 3}}, "")
	require.NoError(t, err)

	// Paksa jalur fallback: hapus record customer guest
	require.NoError(t, db.Where("email = ?", GuestKey("R1", "5")).Delete(&models.Customer{}).Error)

	// Hanya order ber-guest-key yang dihitung untuk sesi meja
	result := NewHistoryService(db).SessionHistory("R1", "5")
	assert.Equal(t, 6, result.TotalPoints)
	require.Len(t, result.OrderHistory, 1)
	assert.Equal(t, anon.ID, result.OrderHistory[0].OrderID)
}

func TestEmailHistoryIncludesUnratedOrders(t *testing.T) {
	db := setupTestDB(t)
	email := "diner@example.com"
	rated := seedOrder(t, db, "R1", "5", ptrString(email))
	seedOrder(t, db, "R2", "7", ptrString(email)) // order lain, belum di-rating

	_, err := NewFeedbackService(db).SubmitFeedback(rated.ID, []ItemFeedback{{ItemIndex: 0, Rating: 5}}, "")
	require.NoError(t, err)

	result := NewHistoryService(db).EmailHistory(email)
	assert.Equal(t, 10, result.TotalPoints)
	// Listing order by email melaporkan semuanya, lintas restoran
	assert.Len(t, result.Orders, 2)
	assert.Len(t, result.OrderHistory, 1)
}

func TestEmailHistoryUnknownEmail(t *testing.T) {
	db := setupTestDB(t)

	result := NewHistoryService(db).EmailHistory("nobody@example.com")
	assert.Equal(t, 0, result.TotalPoints)
	assert.Empty(t, result.Orders)
	assert.Empty(t, result.OrderHistory)
}

func TestEmailHistoryMostRecentFirst(t *testing.T) {
	db := setupTestDB(t)
	email := "diner@example.com"

	older := seedOrder(t, db, "R1", "5", ptrString(email))
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", older.ID).
		Update("created_at", time.Now().Add(-48*time.Hour)).Error)
	newer := seedOrder(t, db, "R1", "5", ptrString(email))

	result := NewHistoryService(db).EmailHistory(email)
	require.Len(t, result.Orders, 2)
	assert.Equal(t, newer.ID, result.Orders[0].ID)
	assert.Equal(t, older.ID, result.Orders[1].ID)
}
