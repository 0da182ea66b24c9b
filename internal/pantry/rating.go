package pantry

import "math"

// AverageRating returns the mean of ratings rounded half-up to one decimal, or 0 when empty
func AverageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return RoundedMean(int64(sum), int64(len(ratings)))
}

// RoundedMean is AverageRating over a pre-aggregated sum and count.
// Computed in integers so that halves always round up.
func RoundedMean(sum, count int64) float64 {
	if count <= 0 {
		return 0
	}
	tenths := (sum*20 + count) / (2 * count)
	return float64(tenths) / 10
}

// ValidRating reports whether r is an accepted rating value
func ValidRating(r int) bool {
	return r >= 1 && r <= 5
}

// Round1 rounds a float to one decimal place
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
