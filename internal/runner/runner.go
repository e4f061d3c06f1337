package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/zgpcy/azure-cost-report/internal/azure"
	"github.com/zgpcy/azure-cost-report/internal/clock"
	"github.com/zgpcy/azure-cost-report/internal/config"
	"github.com/zgpcy/azure-cost-report/internal/costs"
	"github.com/zgpcy/azure-cost-report/internal/logger"
	"github.com/zgpcy/azure-cost-report/internal/metrics"
	"github.com/zgpcy/azure-cost-report/internal/report"
)

// longWindowDays is the threshold above which a lookback prompts for confirmation
const longWindowDays = 90

// RangeFetcher fetches daily cost rows for a date span
type RangeFetcher interface {
	QueryRange(ctx context.Context, sub config.Subscription, start, end time.Time) (*azure.QueryProperties, error)
}

// Runner drives one report generation: prompt, fetch, render, write
type Runner struct {
	cfg     *config.Config
	fetcher RangeFetcher
	metrics *metrics.Metrics
	logger  *logger.Logger
	clock   clock.Clock

	in  io.Reader
	out io.Writer
}

// New creates a runner reading prompts from in and printing to out
func New(cfg *config.Config, fetcher RangeFetcher, m *metrics.Metrics, log *logger.Logger, clk clock.Clock, in io.Reader, out io.Writer) *Runner {
	return &Runner{
		cfg:     cfg,
		fetcher: fetcher,
		metrics: m,
		logger:  log,
		clock:   clk,
		in:      in,
		out:     out,
	}
}

// PromptDays asks for the lookback length until a usable answer arrives.
// Non-numeric and non-positive input re-prompts; a lookback over 90 days
// requires an explicit "yes" to proceed.
func (r *Runner) PromptDays() (int, error) {
	scanner := bufio.NewScanner(r.in)

	for {
		fmt.Fprint(r.out, "Enter the number of days to look back (ending at yesterday): ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return 0, fmt.Errorf("failed to read input: %w", err)
			}
			return 0, fmt.Errorf("input closed before a lookback was entered")
		}

		days, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil {
			fmt.Fprintln(r.out, "Please enter a valid number.")
			continue
		}
		if days < 1 {
			fmt.Fprintln(r.out, "Please enter a positive number.")
			continue
		}

		if days > longWindowDays {
			fmt.Fprintln(r.out, "Warning: Requesting more than 90 days may take a long time.")
			fmt.Fprint(r.out, "Do you want to continue? (yes/no): ")
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return 0, fmt.Errorf("failed to read input: %w", err)
				}
				return 0, fmt.Errorf("input closed before a lookback was confirmed")
			}
			if !strings.EqualFold(strings.TrimSpace(scanner.Text()), "yes") {
				continue
			}
		}

		return days, nil
	}
}

// Run fetches all subscriptions, renders the console tables and writes the
// report document. Each subscription is fetched once; a failed fetch is
// logged and skipped so the remaining subscriptions still report.
func (r *Runner) Run(ctx context.Context, days int) error {
	window := report.Window(r.clock.Now(), days)
	start, end := window[0], window[len(window)-1]

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, report.Banner())
	fmt.Fprintf(r.out, "AZURE COST REPORT - LAST %d DAYS (ending yesterday)\n", days)
	fmt.Fprintln(r.out, report.Banner())

	reports := make(map[string]report.SubscriptionReport)

	for idx, sub := range r.cfg.Subscriptions {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, report.Banner())
		fmt.Fprintf(r.out, "%s SUBSCRIPTION\n", strings.ToUpper(sub.Name))
		fmt.Fprintln(r.out, report.Banner())
		fmt.Fprintln(r.out)
		fmt.Fprintf(r.out, "Fetching data from %s to %s...\n", start.Format("2006-01-02"), end.Format("2006-01-02"))

		sr, err := r.fetchSubscription(ctx, sub, window)
		if err != nil {
			r.logger.Error("Failed to fetch subscription data",
				"subscription_name", sub.Name,
				"error", err)
			r.metrics.IncFetchFailure(sub.Name)
			fmt.Fprintln(r.out, "Failed to fetch data for this subscription.")
		} else {
			reports[sub.Name] = sr
			fmt.Fprintln(r.out)
			report.RenderConsole(r.out, sr)
		}

		delay := *r.cfg.SubscriptionDelay
		if idx < len(r.cfg.Subscriptions)-1 && delay > 0 {
			fmt.Fprintf(r.out, "Waiting %d seconds before next subscription...\n", delay)
			r.clock.Sleep(time.Duration(delay) * time.Second)
		}
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, report.Banner())
	fmt.Fprintln(r.out, "Console report generation completed!")
	fmt.Fprintln(r.out, report.Banner())

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Generating report document...")

	filename, err := report.WriteDocument(r.cfg.OutputDir, reports, window, r.clock.Now())
	if err != nil {
		return fmt.Errorf("failed to write report document: %w", err)
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, report.Banner())
	fmt.Fprintf(r.out, "Report document created: %s\n", filename)
	fmt.Fprintln(r.out, report.Banner())

	summary := r.metrics.Gather()
	r.logger.Info("Run completed",
		"subscriptions_reported", len(reports),
		"subscriptions_failed", len(r.cfg.Subscriptions)-len(reports),
		"api_requests", summary.APIRequests,
		"rate_limited", summary.RateLimited)

	return nil
}

// fetchSubscription runs one range query and shapes it into a report
func (r *Runner) fetchSubscription(ctx context.Context, sub config.Subscription, window []time.Time) (report.SubscriptionReport, error) {
	start, end := window[0], window[len(window)-1]

	props, err := r.fetcher.QueryRange(ctx, sub, start, end)
	if err != nil {
		return report.SubscriptionReport{}, err
	}

	rowsByDate, err := costs.GroupByDate(props)
	if err != nil {
		return report.SubscriptionReport{}, err
	}

	return report.Build(sub.Name, window, rowsByDate), nil
}
