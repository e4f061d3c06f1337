package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/zgpcy/azure-cost-report/internal/clock"
	"github.com/zgpcy/azure-cost-report/internal/config"
	"github.com/zgpcy/azure-cost-report/internal/logger"
	"github.com/zgpcy/azure-cost-report/internal/metrics"
)

// Cost Management API constants
const (
	// defaultBaseURL is the Azure Resource Manager endpoint
	defaultBaseURL = "https://management.azure.com"

	// apiVersion is the Cost Management query API version
	apiVersion = "2023-03-01"

	// DefaultRetryAfter is the wait applied to a 429 on the range path when
	// the response carries no Retry-After header
	DefaultRetryAfter = 60 * time.Second

	// MaxDayRetries caps 429 retries on the single-day path
	MaxDayRetries = 3

	// maxErrorBodyBytes limits how much of an error response is kept for diagnostics
	maxErrorBodyBytes = 512
)

// QueryColumn describes one position in the tabular query response
type QueryColumn struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// QueryProperties is the tabular payload of a Cost Management query response
type QueryProperties struct {
	Columns []QueryColumn   `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

type queryResponse struct {
	Properties *QueryProperties `json:"properties"`
}

// Query request body, matching the Cost Management query wire format
type queryDefinition struct {
	Type       string          `json:"type"`
	Timeframe  string          `json:"timeframe"`
	TimePeriod queryTimePeriod `json:"timePeriod"`
	Dataset    queryDataset    `json:"dataset"`
}

type queryTimePeriod struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type queryDataset struct {
	Granularity string                      `json:"granularity"`
	Aggregation map[string]queryAggregation `json:"aggregation"`
	Grouping    []queryGrouping             `json:"grouping"`
}

type queryAggregation struct {
	Name     string `json:"name"`
	Function string `json:"function"`
}

type queryGrouping struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// RateLimitedError reports an HTTP 429 from the Cost Management API.
// RetryAfter is only meaningful when HasHeader is set.
type RateLimitedError struct {
	RetryAfter time.Duration
	HasHeader  bool
}

func (e *RateLimitedError) Error() string {
	if e.HasHeader {
		return fmt.Sprintf("rate limited (retry after %s)", e.RetryAfter)
	}
	return "rate limited (no Retry-After header)"
}

// Client issues Cost Management queries for a single bearer token
type Client struct {
	httpClient  *http.Client
	baseURL     string
	token       string
	retryBudget time.Duration
	metrics     *metrics.Metrics
	logger      *logger.Logger
	clock       clock.Clock // Time provider for testing
}

// NewClient creates a new Cost Management query client. The token is the
// bearer credential acquired at startup.
func NewClient(token string, cfg *config.Config, m *metrics.Metrics, log *logger.Logger) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: time.Duration(cfg.APITimeout) * time.Second},
		baseURL:     defaultBaseURL,
		token:       token,
		retryBudget: time.Duration(cfg.RetryBudget) * time.Second,
		metrics:     m,
		logger:      log,
		clock:       clock.RealClock{}, // Use real system time by default
	}
}

// QueryRange fetches daily cost rows for the full date span in a single query,
// grouped by ResourceType and ChargeType. On 429 it waits for the advertised
// Retry-After duration (DefaultRetryAfter when absent) and retries until the
// retry budget is exhausted. Any other failure is returned to the caller,
// which treats it as "skip this subscription".
func (c *Client) QueryRange(ctx context.Context, sub config.Subscription, start, end time.Time) (*QueryProperties, error) {
	def := queryDefinition{
		Type:      "Usage",
		Timeframe: "Custom",
		TimePeriod: queryTimePeriod{
			From: start.Format("2006-01-02") + "T00:00:00Z",
			To:   end.Format("2006-01-02") + "T23:59:59Z",
		},
		Dataset: queryDataset{
			Granularity: "Daily",
			Aggregation: map[string]queryAggregation{
				"totalCost": {Name: "Cost", Function: "Sum"},
			},
			Grouping: []queryGrouping{
				{Type: "Dimension", Name: "ResourceType"},
				{Type: "Dimension", Name: "ChargeType"},
			},
		},
	}

	deadline := c.clock.Now().Add(c.retryBudget)
	for {
		props, err := c.doQuery(ctx, sub, def)

		var rle *RateLimitedError
		if errors.As(err, &rle) {
			wait := DefaultRetryAfter
			if rle.HasHeader {
				wait = rle.RetryAfter
			}
			if c.clock.Now().Add(wait).After(deadline) {
				return nil, fmt.Errorf("retry budget (%s) exhausted for subscription %s: %w", c.retryBudget, sub.Name, err)
			}
			c.logger.Warn("Rate limit hit, waiting before retry",
				"subscription_name", sub.Name,
				"wait_seconds", wait.Seconds())
			c.clock.Sleep(wait)
			continue
		}
		if err != nil {
			return nil, err
		}
		return props, nil
	}
}

// QueryDay fetches cost rows for a single day, grouped by ResourceType only.
// On 429 it retries at most MaxDayRetries times, waiting for the advertised
// Retry-After duration or an exponential backoff when the header is absent.
func (c *Client) QueryDay(ctx context.Context, sub config.Subscription, day time.Time) (*QueryProperties, error) {
	def := queryDefinition{
		Type:      "Usage",
		Timeframe: "Custom",
		TimePeriod: queryTimePeriod{
			From: day.Format("2006-01-02") + "T00:00:00Z",
			To:   day.Format("2006-01-02") + "T23:59:59Z",
		},
		Dataset: queryDataset{
			Granularity: "Daily",
			Aggregation: map[string]queryAggregation{
				"totalCost": {Name: "Cost", Function: "Sum"},
			},
			Grouping: []queryGrouping{
				{Type: "Dimension", Name: "ResourceType"},
			},
		},
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 1 * time.Second
	bo.Multiplier = 2

	for attempt := 0; ; attempt++ {
		props, err := c.doQuery(ctx, sub, def)

		var rle *RateLimitedError
		if errors.As(err, &rle) {
			if attempt >= MaxDayRetries {
				return nil, fmt.Errorf("giving up after %d retries for subscription %s on %s: %w",
					MaxDayRetries, sub.Name, day.Format("2006-01-02"), err)
			}
			wait := bo.NextBackOff()
			if rle.HasHeader {
				wait = rle.RetryAfter
			}
			c.logger.Warn("Rate limit hit, waiting before retry",
				"subscription_name", sub.Name,
				"date", day.Format("2006-01-02"),
				"attempt", attempt+1,
				"wait_seconds", wait.Seconds())
			c.clock.Sleep(wait)
			continue
		}
		if err != nil {
			return nil, err
		}
		return props, nil
	}
}

// doQuery performs one query request without retry logic
func (c *Client) doQuery(ctx context.Context, sub config.Subscription, def queryDefinition) (*QueryProperties, error) {
	body, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	url := fmt.Sprintf("%s/subscriptions/%s/providers/Microsoft.CostManagement/query?api-version=%s",
		c.baseURL, sub.ID, apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	c.metrics.IncAPIRequest(sub.Name)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cost query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.metrics.IncRateLimited(sub.Name)
		return nil, parseRetryAfter(resp.Header.Get("Retry-After"))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, fmt.Errorf("cost query returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var decoded queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode query response: %w", err)
	}
	if decoded.Properties == nil {
		return nil, fmt.Errorf("query response missing properties")
	}

	return decoded.Properties, nil
}

// parseRetryAfter builds the 429 error from an optional Retry-After header.
// A missing or unparsable value counts as absent.
func parseRetryAfter(header string) *RateLimitedError {
	seconds, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || seconds < 0 {
		return &RateLimitedError{}
	}
	return &RateLimitedError{
		RetryAfter: time.Duration(seconds) * time.Second,
		HasHeader:  true,
	}
}
