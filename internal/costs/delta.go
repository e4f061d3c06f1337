package costs

import "fmt"

// percentChange computes the day-over-day change. A zero previous day cannot
// be divided through: no spend on either day reads as 0, new spend reads as
// exactly 100.
func percentChange(prev, curr float64) float64 {
	if prev == 0 {
		if curr == 0 {
			return 0
		}
		return 100
	}
	return (curr - prev) / prev * 100
}

// DayOverDay computes per-category percentage changes between two breakdowns
func DayOverDay(prev, curr Breakdown) map[Category]float64 {
	changes := make(map[Category]float64, len(AllCategories))
	for _, cat := range AllCategories {
		changes[cat] = percentChange(prev[cat], curr[cat])
	}
	return changes
}

// FormatPercent renders a change with an explicit sign, e.g. "+12.34%"
func FormatPercent(change float64) string {
	return fmt.Sprintf("%+.2f%%", change)
}

// FormatCost renders a dollar amount, e.g. "$123.46"
func FormatCost(cost float64) string {
	return fmt.Sprintf("$%.2f", cost)
}
