package utils

import (
	"time"
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Cache keys
const (
	// DashboardSummaryCacheKey is the per-workshop dashboard cache key prefix
	DashboardSummaryCacheKey = "dashboard:summary"

	// DashboardSummaryCacheTTL bounds how stale the dashboard may get
	DashboardSummaryCacheTTL = 5 * time.Minute
)

// Billing constants
const (
	// DefaultTaxRate is applied when a workshop has not configured its own rate
	DefaultTaxRate = 0.10

	// DefaultCurrencyCode is assumed for workshops without a currency setup
	DefaultCurrencyCode = "USD"
)
