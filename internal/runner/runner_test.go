package runner

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/zgpcy/azure-cost-report/internal/azure"
	"github.com/zgpcy/azure-cost-report/internal/config"
	"github.com/zgpcy/azure-cost-report/internal/logger"
)

// fakeClock returns a fixed time and records sleeps
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Sleep(d time.Duration) { f.sleeps = append(f.sleeps, d) }

// mockFetcher serves canned responses per subscription name
type mockFetcher struct {
	responses map[string]*azure.QueryProperties
	errors    map[string]error
	calls     []string
}

func (m *mockFetcher) QueryRange(_ context.Context, sub config.Subscription, _, _ time.Time) (*azure.QueryProperties, error) {
	m.calls = append(m.calls, sub.Name)
	if err, ok := m.errors[sub.Name]; ok {
		return nil, err
	}
	return m.responses[sub.Name], nil
}

func intPtr(v int) *int {
	return &v
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		APITimeout:        30,
		SubscriptionDelay: intPtr(2),
		RetryBudget:       600,
		OutputDir:         t.TempDir(),
		LogLevel:          "error",
		Subscriptions: []config.Subscription{
			{Name: "main", ID: "sub-main"},
			{Name: "prod", ID: "sub-prod"},
			{Name: "dev", ID: "sub-dev"},
			{Name: "test", ID: "sub-test"},
		},
	}
}

func vmResponse(date int, cost float64) *azure.QueryProperties {
	return &azure.QueryProperties{
		Columns: []azure.QueryColumn{
			{Name: "Cost", Type: "Number"},
			{Name: "UsageDate", Type: "Number"},
			{Name: "ResourceType", Type: "String"},
		},
		Rows: [][]interface{}{
			{cost, float64(date), "microsoft.compute/virtualmachines"},
		},
	}
}

func newTestRunner(t *testing.T, fetcher RangeFetcher, in string) (*Runner, *bytes.Buffer, *fakeClock) {
	t.Helper()

	var out bytes.Buffer
	clk := &fakeClock{now: time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)}
	log := logger.NewWithWriter(&out, "error")

	r := New(testConfig(t), fetcher, nil, log, clk, strings.NewReader(in), &out)
	return r, &out, clk
}

func TestPromptDays_ValidInput(t *testing.T) {
	r, _, _ := newTestRunner(t, &mockFetcher{}, "7\n")

	days, err := r.PromptDays()
	if err != nil {
		t.Fatalf("PromptDays() error = %v, want nil", err)
	}
	if days != 7 {
		t.Errorf("days = %d, want 7", days)
	}
}

func TestPromptDays_RepromptsOnBadInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		message string
	}{
		{"non-numeric then valid", "abc\n3\n", 3, "Please enter a valid number."},
		{"zero then valid", "0\n5\n", 5, "Please enter a positive number."},
		{"negative then valid", "-2\n5\n", 5, "Please enter a positive number."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, out, _ := newTestRunner(t, &mockFetcher{}, tt.input)

			days, err := r.PromptDays()
			if err != nil {
				t.Fatalf("PromptDays() error = %v, want nil", err)
			}
			if days != tt.want {
				t.Errorf("days = %d, want %d", days, tt.want)
			}
			if !strings.Contains(out.String(), tt.message) {
				t.Errorf("output missing %q", tt.message)
			}
		})
	}
}

func TestPromptDays_LongWindowConfirmation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"confirmed", "120\nyes\n", 120},
		{"declined then shorter", "120\nno\n30\n", 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, out, _ := newTestRunner(t, &mockFetcher{}, tt.input)

			days, err := r.PromptDays()
			if err != nil {
				t.Fatalf("PromptDays() error = %v, want nil", err)
			}
			if days != tt.want {
				t.Errorf("days = %d, want %d", days, tt.want)
			}
			if !strings.Contains(out.String(), "Warning: Requesting more than 90 days may take a long time.") {
				t.Error("output missing long window warning")
			}
		})
	}
}

func TestPromptDays_InputClosed(t *testing.T) {
	r, _, _ := newTestRunner(t, &mockFetcher{}, "")

	if _, err := r.PromptDays(); err == nil {
		t.Error("PromptDays() error = nil, want error for closed input")
	}
}

func TestRun_AllSubscriptionsFetchedInOrder(t *testing.T) {
	fetcher := &mockFetcher{
		responses: map[string]*azure.QueryProperties{
			"main": vmResponse(20260825, 10),
			"prod": vmResponse(20260825, 20),
			"dev":  vmResponse(20260825, 5),
			"test": vmResponse(20260825, 1),
		},
	}
	r, out, _ := newTestRunner(t, fetcher, "")

	if err := r.Run(context.Background(), 2); err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}

	wantOrder := []string{"main", "prod", "dev", "test"}
	if len(fetcher.calls) != len(wantOrder) {
		t.Fatalf("Expected %d fetches, got %d", len(wantOrder), len(fetcher.calls))
	}
	for i, name := range wantOrder {
		if fetcher.calls[i] != name {
			t.Errorf("fetch %d = %s, want %s", i, fetcher.calls[i], name)
		}
	}

	for _, want := range []string{
		"AZURE COST REPORT - LAST 2 DAYS (ending yesterday)",
		"MAIN SUBSCRIPTION",
		"PROD SUBSCRIPTION",
		"DEV SUBSCRIPTION",
		"TEST SUBSCRIPTION",
		"Console report generation completed!",
		"Report document created: Azure_Cost_Report_",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRun_FailedSubscriptionIsSkipped(t *testing.T) {
	fetcher := &mockFetcher{
		responses: map[string]*azure.QueryProperties{
			"main": vmResponse(20260825, 10),
			"dev":  vmResponse(20260825, 5),
			"test": vmResponse(20260825, 1),
		},
		errors: map[string]error{
			"prod": fmt.Errorf("cost query returned status 500"),
		},
	}
	r, out, _ := newTestRunner(t, fetcher, "")

	if err := r.Run(context.Background(), 2); err != nil {
		t.Fatalf("Run() error = %v, want nil even with a failed subscription", err)
	}

	if len(fetcher.calls) != 4 {
		t.Errorf("Expected all 4 subscriptions attempted, got %d", len(fetcher.calls))
	}
	if !strings.Contains(out.String(), "Failed to fetch data for this subscription.") {
		t.Error("output missing failure notice")
	}
	if !strings.Contains(out.String(), "Report document created:") {
		t.Error("document should still be written when a subscription fails")
	}
}

func TestRun_ZeroDelaySkipsWaiting(t *testing.T) {
	fetcher := &mockFetcher{
		responses: map[string]*azure.QueryProperties{
			"main": vmResponse(20260825, 10),
			"prod": vmResponse(20260825, 20),
			"dev":  vmResponse(20260825, 5),
			"test": vmResponse(20260825, 1),
		},
	}

	var out bytes.Buffer
	clk := &fakeClock{now: time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)}
	cfg := testConfig(t)
	cfg.SubscriptionDelay = intPtr(0)

	r := New(cfg, fetcher, nil, logger.NewWithWriter(&out, "error"), clk, strings.NewReader(""), &out)

	if err := r.Run(context.Background(), 2); err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}

	if len(clk.sleeps) != 0 {
		t.Errorf("sleeps = %v, want none for an explicit zero delay", clk.sleeps)
	}
	if strings.Contains(out.String(), "before next subscription") {
		t.Error("output should not announce a wait when the delay is zero")
	}
}

func TestRun_DelaysBetweenSubscriptionsExceptLast(t *testing.T) {
	fetcher := &mockFetcher{
		responses: map[string]*azure.QueryProperties{
			"main": vmResponse(20260825, 10),
			"prod": vmResponse(20260825, 20),
			"dev":  vmResponse(20260825, 5),
			"test": vmResponse(20260825, 1),
		},
	}
	r, out, clk := newTestRunner(t, fetcher, "")

	if err := r.Run(context.Background(), 2); err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}

	if len(clk.sleeps) != 3 {
		t.Fatalf("Expected 3 delays for 4 subscriptions, got %d", len(clk.sleeps))
	}
	for i, d := range clk.sleeps {
		if d != 2*time.Second {
			t.Errorf("sleep %d = %v, want 2s", i, d)
		}
	}
	if strings.Count(out.String(), "Waiting 2 seconds before next subscription...") != 3 {
		t.Error("expected 3 waiting notices")
	}
}
