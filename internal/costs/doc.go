// Package costs turns raw Cost Management query responses into per-category
// daily breakdowns and day-over-day percentage changes.
//
// Parsing resolves response columns by name, never by position. Resource
// types are bucketed into four fixed categories (Databricks, Virtual Machine,
// Storage, Others) by case-insensitive substring rules, so provider prefix
// variants all land in the same bucket.
package costs
