// Package runner orchestrates a report run: prompting for the lookback
// window, fetching each subscription once, rendering console tables and
// writing the summary document. A subscription whose fetch fails is skipped
// with a console notice so the remaining subscriptions still report.
package runner
