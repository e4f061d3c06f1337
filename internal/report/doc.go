// Package report builds per-subscription cost reports and renders them as
// console tables and as an HTML summary document.
//
// The reporting window is a run of consecutive UTC days ending yesterday.
// Days with no data render as $0.00 rather than disappearing from the tables.
// Console output and the document deliberately differ: the console always
// shows all four categories in main, prod, dev, test order, while the
// document orders subscriptions prod, dev, test, main and drops the
// Databricks column for main when it had no Databricks spend in the window.
package report
