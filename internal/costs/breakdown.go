package costs

import "strings"

// Category is a reporting bucket for resource types
type Category string

// Reporting categories
const (
	Databricks     Category = "Databricks"
	VirtualMachine Category = "Virtual Machine"
	Storage        Category = "Storage"
	Others         Category = "Others"
)

// AllCategories lists every category. Breakdowns always carry all four keys
// so a table column never disappears just because a day had no spend.
var AllCategories = []Category{Databricks, VirtualMachine, Storage, Others}

// categoryRules maps case-insensitive resource type fragments to categories.
// First match wins; anything unmatched falls through to Others. The fragments
// omit the provider prefix so both "microsoft.compute/..." and bare
// "compute/..." forms match.
var categoryRules = []struct {
	fragment string
	category Category
}{
	{"databricks/workspace", Databricks},
	{"compute/virtualmachines", VirtualMachine},
	{"storage/storageaccounts", Storage},
}

// Breakdown holds one day's cost per category
type Breakdown map[Category]float64

// NewBreakdown returns a breakdown with every category present at zero
func NewBreakdown() Breakdown {
	b := make(Breakdown, len(AllCategories))
	for _, cat := range AllCategories {
		b[cat] = 0
	}
	return b
}

// categorize buckets a single resource type
func categorize(resourceType string) Category {
	lower := strings.ToLower(resourceType)
	for _, rule := range categoryRules {
		if strings.Contains(lower, rule.fragment) {
			return rule.category
		}
	}
	return Others
}

// Categorize sums rows into per-category totals. Every row lands in exactly
// one category, so the breakdown total equals the sum of the row costs.
func Categorize(rows []Row) Breakdown {
	b := NewBreakdown()
	for _, row := range rows {
		b[categorize(row.ResourceType)] += row.Cost
	}
	return b
}

// Total returns the sum across all categories
func (b Breakdown) Total() float64 {
	var total float64
	for _, cost := range b {
		total += cost
	}
	return total
}
