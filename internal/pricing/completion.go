package pricing

import (
	"strings"
	"time"

	"github.com/bilosnizhka/bilosnizhka/internal/model"
)

// LeatherCategoryPatterns marks the category codes that force the long
// turnaround. Matched by case-insensitive substring, like the discount
// exclusions.
var LeatherCategoryPatterns = []string{"шкір", "дублян", "leather"}

const (
	standardTurnaroundDays = 2
	leatherTurnaroundDays  = 14
)

// EstimateCompletionDate returns the expected completion date for the item
// mix: 14 days when any leather item is present, 2 days otherwise. Express
// tiers override the base turnaround with their own day count.
func EstimateCompletionDate(items []model.LineItem, expedite model.ExpediteType, start time.Time) time.Time {
	days := expedite.TurnaroundDays()
	if days == 0 {
		days = standardTurnaroundDays
		if hasLeatherItem(items) {
			days = leatherTurnaroundDays
		}
	}
	return start.AddDate(0, 0, days)
}

func hasLeatherItem(items []model.LineItem) bool {
	for i := range items {
		category := strings.ToLower(items[i].CategoryCode)
		for _, pattern := range LeatherCategoryPatterns {
			if strings.Contains(category, pattern) {
				return true
			}
		}
	}
	return false
}
