package report

import (
	"strings"
	"time"

	"github.com/zgpcy/azure-cost-report/internal/costs"
)

// DayCosts is one day's categorized spend for a subscription
type DayCosts struct {
	Date  time.Time
	Costs costs.Breakdown
}

// DeltaRow is the day-over-day change for one day relative to the day before
type DeltaRow struct {
	Date    time.Time
	Changes map[costs.Category]float64
}

// SubscriptionReport is everything the renderers need for one subscription.
// Categories is the document column set; the console always renders all four.
type SubscriptionReport struct {
	Name       string
	Days       []DayCosts
	Deltas     []DeltaRow
	Categories []costs.Category
}

// Window returns the reporting days in ascending order: days consecutive UTC
// dates ending yesterday. Today is always excluded because its data is still
// accumulating.
func Window(now time.Time, days int) []time.Time {
	yesterday := now.UTC().Truncate(24 * time.Hour).AddDate(0, 0, -1)

	window := make([]time.Time, days)
	for i := range window {
		window[i] = yesterday.AddDate(0, 0, i-(days-1))
	}
	return window
}

// DateKey converts a date to the YYYYMMDD integer form used by the API
func DateKey(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// Build assembles a subscription report from parsed rows. Days absent from
// rowsByDate appear with a zero breakdown, so the tables always show the full
// window. Deltas cover every day except the first.
//
// The "main" subscription drops the Databricks column from the document when
// Databricks spend is zero across the whole window; the other subscriptions
// always show all four categories.
func Build(name string, window []time.Time, rowsByDate map[int][]costs.Row) SubscriptionReport {
	report := SubscriptionReport{
		Name: name,
		Days: make([]DayCosts, 0, len(window)),
	}

	for _, day := range window {
		report.Days = append(report.Days, DayCosts{
			Date:  day,
			Costs: costs.Categorize(rowsByDate[DateKey(day)]),
		})
	}

	for i := 1; i < len(report.Days); i++ {
		report.Deltas = append(report.Deltas, DeltaRow{
			Date:    report.Days[i].Date,
			Changes: costs.DayOverDay(report.Days[i-1].Costs, report.Days[i].Costs),
		})
	}

	report.Categories = documentCategories(name, report.Days)
	return report
}

// documentCategories decides the document column set for a subscription
func documentCategories(name string, days []DayCosts) []costs.Category {
	if !strings.EqualFold(name, "main") {
		return costs.AllCategories
	}

	for _, day := range days {
		if day.Costs[costs.Databricks] != 0 {
			return costs.AllCategories
		}
	}

	categories := make([]costs.Category, 0, len(costs.AllCategories)-1)
	for _, cat := range costs.AllCategories {
		if cat != costs.Databricks {
			categories = append(categories, cat)
		}
	}
	return categories
}
