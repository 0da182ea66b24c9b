package pantry

import (
	"time"

	"github.com/pageza/despensa/backend/internal/models"
)

// StatItem is the slice of a product the aggregator needs
type StatItem struct {
	Category   models.Category
	Location   models.Location
	ExpiryDate *time.Time
	IsConsumed bool
}

// Stats summarises a user's active pantry
type Stats struct {
	TotalProducts int                     `json:"total_products"`
	ExpiringSoon  int                     `json:"expiring_soon"`
	Expired       int                     `json:"expired"`
	ByCategory    map[models.Category]int `json:"by_category"`
	ByLocation    map[models.Location]int `json:"by_location"`
}

// Summarize aggregates items in a single pass. Consumed items are skipped.
func Summarize(items []StatItem, now time.Time, threshold int) Stats {
	s := Stats{
		ByCategory: make(map[models.Category]int),
		ByLocation: make(map[models.Location]int),
	}
	for _, it := range items {
		if it.IsConsumed {
			continue
		}
		s.TotalProducts++
		if IsExpiringSoon(it.ExpiryDate, now, threshold) {
			s.ExpiringSoon++
		}
		if IsExpired(it.ExpiryDate, now) {
			s.Expired++
		}
		s.ByCategory[it.Category]++
		s.ByLocation[it.Location]++
	}
	return s
}
