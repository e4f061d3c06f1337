package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/zgpcy/azure-cost-report/internal/costs"
)

const bannerWidth = 80

// Banner returns the section separator line
func Banner() string {
	return strings.Repeat("=", bannerWidth)
}

// RenderConsole prints one subscription's cost and percentage tables. The
// console always shows all four categories regardless of the document's
// column exclusions.
func RenderConsole(w io.Writer, report SubscriptionReport) {
	fmt.Fprintln(w, "Cost Table:")
	renderCostTable(w, report)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Percentage Change (Day over Day):")
	renderDeltaTable(w, report)
}

func newConsoleTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
		Settings: tw.Settings{
			Separators: tw.Separators{BetweenRows: tw.On},
		},
	})))
}

func renderCostTable(w io.Writer, report SubscriptionReport) {
	headers := []string{"Date"}
	for _, cat := range costs.AllCategories {
		headers = append(headers, string(cat))
	}

	table := newConsoleTable(w)
	table.Header(headers)

	for _, day := range report.Days {
		row := []string{day.Date.Format("01/02")}
		for _, cat := range costs.AllCategories {
			row = append(row, costs.FormatCost(day.Costs[cat]))
		}
		table.Append(row)
	}

	table.Render()
}

func renderDeltaTable(w io.Writer, report SubscriptionReport) {
	headers := []string{"Date"}
	for _, cat := range costs.AllCategories {
		headers = append(headers, string(cat))
	}

	table := newConsoleTable(w)
	table.Header(headers)

	for _, delta := range report.Deltas {
		row := []string{delta.Date.Format("01/02")}
		for _, cat := range costs.AllCategories {
			row = append(row, costs.FormatPercent(delta.Changes[cat]))
		}
		table.Append(row)
	}

	table.Render()
}
