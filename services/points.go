package services

// Batas rating feedback
const (
	MinRating = 1
	MaxRating = 5
)

// PointsPerRating adalah pengali poin: rating * 2 * quantity
const PointsPerRating = 2

// ItemPoints menghitung poin untuk satu item yang diberi rating.
// Fungsi murni; validasi rating adalah tanggung jawab pemanggil
// (ledger menolak rating di luar range, tidak meng-clamp).
func ItemPoints(rating, quantity int) int {
	return rating * PointsPerRating * quantity
}

// ValidRating -> rating integer di dalam [1,5]
func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}
