package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// KPIs are the scalar metrics of the dashboard banner.
type KPIs struct {
	TotalSales    decimal.Decimal `json:"total_sales"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`

	// AverageOrderValue is invalid (null) when there are no active orders.
	AverageOrderValue decimal.NullDecimal `json:"average_order_value"`
	TotalOrders       int                 `json:"total_orders"`
	UniqueCustomers   int                 `json:"unique_customers"`
}

// GroupTotal is the summed order total of one group.
type GroupTotal struct {
	Key   string          `json:"key"`
	Total decimal.Decimal `json:"total"`
}

// MonthTotal is the summed order total of one calendar month.
type MonthTotal struct {
	Month time.Time       `json:"month"`
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
}

// ValueCount is the number of active orders carrying a value.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FeedbackDistribution counts feedback over the fixed domain.
// Counts always holds Positive, Neutral and Negative in that order.
type FeedbackDistribution struct {
	Counts       []ValueCount `json:"counts"`
	Unclassified int          `json:"unclassified"`
}

// MethodUsage is one label of the merged payment/shipping table.
type MethodUsage struct {
	Label    string `json:"label"`
	Payment  int    `json:"payment"`
	Shipping int    `json:"shipping"`
}

// MethodCounts holds the payment and shipping method distributions.
type MethodCounts struct {
	Payment  []ValueCount  `json:"payment"`
	Shipping []ValueCount  `json:"shipping"`
	Combined []MethodUsage `json:"combined"`
}

// ResultBundle is everything one pipeline run hands to presentation layers.
// It is read-only once built; callers that reorder a table must copy it first.
type ResultBundle struct {
	KPIs          KPIs                 `json:"kpis"`
	CategorySales []GroupTotal         `json:"category_sales"`
	RegionSales   []GroupTotal         `json:"region_sales"`
	MonthlySales  []MonthTotal         `json:"monthly_sales"`
	TopProducts   []GroupTotal         `json:"top_products"`
	Feedback      FeedbackDistribution `json:"feedback"`
	Methods       MethodCounts         `json:"methods"`
}
