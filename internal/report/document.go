package report

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zgpcy/azure-cost-report/internal/costs"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// DocumentOrder is the subscription order for the report document. It differs
// from the console order on purpose: the document leads with the environments
// the report's readers act on.
var DocumentOrder = []string{"prod", "dev", "test", "main"}

// documentData is the root template context
type documentData struct {
	Title         string
	DateRange     string
	Subscriptions []documentSubscription
}

type documentSubscription struct {
	Heading     string
	CaptionName string
	Headers     []string
	CostRows    [][]string
	PercentRows [][]string
}

// WriteDocument renders the report document and writes it into dir. Reports
// are emitted in DocumentOrder; subscriptions absent from the map (failed
// fetches) are skipped. The generated filename is returned.
func WriteDocument(dir string, reports map[string]SubscriptionReport, window []time.Time, now time.Time) (string, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/report.html.tmpl")
	if err != nil {
		return "", fmt.Errorf("failed to parse report template: %w", err)
	}

	data := documentData{
		Title:     "Azure Cost Summary Report",
		DateRange: formatDateRange(window),
	}

	for _, name := range DocumentOrder {
		report, ok := reports[name]
		if !ok {
			continue
		}
		data.Subscriptions = append(data.Subscriptions, buildDocumentSubscription(report))
	}

	filename := "Azure_Cost_Report_" + now.Format("20060102_150405") + ".html"
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	return filename, nil
}

// formatDateRange lists the window days as "Monday (08/24), Tuesday (08/25)"
func formatDateRange(window []time.Time) string {
	parts := make([]string, 0, len(window))
	for _, day := range window {
		parts = append(parts, fmt.Sprintf("%s (%s)", day.Format("Monday"), day.Format("01/02")))
	}
	return strings.Join(parts, ", ")
}

func buildDocumentSubscription(report SubscriptionReport) documentSubscription {
	sub := documentSubscription{
		Heading:     capitalize(report.Name) + " Environment",
		CaptionName: report.Name,
		Headers:     []string{"Date"},
	}
	for _, cat := range report.Categories {
		sub.Headers = append(sub.Headers, string(cat))
	}

	for _, day := range report.Days {
		row := []string{day.Date.Format("01/02")}
		for _, cat := range report.Categories {
			row = append(row, costs.FormatCost(day.Costs[cat]))
		}
		sub.CostRows = append(sub.CostRows, row)
	}

	for _, delta := range report.Deltas {
		row := []string{delta.Date.Format("01/02")}
		for _, cat := range report.Categories {
			row = append(row, costs.FormatPercent(delta.Changes[cat]))
		}
		sub.PercentRows = append(sub.PercentRows, row)
	}

	return sub
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
