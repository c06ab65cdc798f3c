package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Column names of the sales export, after header trimming.
const (
	ColumnProductPrice     = "Product Price"
	ColumnOrderQuantity    = "Order Quantity"
	ColumnOrderTotal       = "Order Total"
	ColumnOrderDate        = "Order Date"
	ColumnOrderStatus      = "Order Status"
	ColumnProductCategory  = "Product Category"
	ColumnProductRegion    = "Product Region"
	ColumnProductName      = "Product Name"
	ColumnCustomerID       = "Customer ID"
	ColumnCustomerFeedback = "Customer Feedback"
	ColumnPaymentMethod    = "Payment Method"
	ColumnShippingMethod   = "Shipping Method"
)

// RequiredColumns lists every column the normalizer reads.
var RequiredColumns = []string{
	ColumnProductPrice,
	ColumnOrderQuantity,
	ColumnOrderTotal,
	ColumnOrderDate,
	ColumnOrderStatus,
	ColumnProductCategory,
	ColumnProductRegion,
	ColumnProductName,
	ColumnCustomerID,
	ColumnCustomerFeedback,
	ColumnPaymentMethod,
	ColumnShippingMethod,
}

// OrderStatusCancelled is the status value excluded from the active subset.
const OrderStatusCancelled = "Cancelled"

// Customer feedback values with a fixed place in the feedback distribution.
const (
	FeedbackPositive = "Positive"
	FeedbackNeutral  = "Neutral"
	FeedbackNegative = "Negative"
)

// FeedbackDomain is the canonical feedback order.
var FeedbackDomain = []string{FeedbackPositive, FeedbackNeutral, FeedbackNegative}

// NullDate is a calendar date that may be missing.
type NullDate struct {
	Time  time.Time
	Valid bool
}

// NewNullDate wraps a parsed date.
func NewNullDate(t time.Time) NullDate {
	return NullDate{Time: t, Valid: true}
}

// MarshalJSON renders a missing date as null and a present one as YYYY-MM-DD.
func (d NullDate) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format("2006-01-02"))
}

// SalesRecord is one normalized row of the sales export.
// Numeric fields and the order date carry Valid=false when the source cell
// could not be parsed.
type SalesRecord struct {
	Row              int                 `json:"row"`
	ProductPrice     decimal.NullDecimal `json:"product_price"`
	OrderQuantity    decimal.NullDecimal `json:"order_quantity"`
	OrderTotal       decimal.NullDecimal `json:"order_total"`
	OrderDate        NullDate            `json:"order_date"`
	OrderStatus      string              `json:"order_status"`
	ProductCategory  string              `json:"product_category"`
	ProductRegion    string              `json:"product_region"`
	ProductName      string              `json:"product_name"`
	CustomerID       string              `json:"customer_id"`
	CustomerFeedback string              `json:"customer_feedback"`
	PaymentMethod    string              `json:"payment_method"`
	ShippingMethod   string              `json:"shipping_method"`
}

// IsActive reports whether the record survives the cancelled-order filter.
func (r SalesRecord) IsActive(cancelledStatus string) bool {
	return r.OrderStatus != cancelledStatus
}

// TotalOrZero returns the order total, or zero when it is missing.
func (r SalesRecord) TotalOrZero() decimal.Decimal {
	if !r.OrderTotal.Valid {
		return decimal.Zero
	}
	return r.OrderTotal.Decimal
}

// QuantityOrZero returns the order quantity, or zero when it is missing.
func (r SalesRecord) QuantityOrZero() decimal.Decimal {
	if !r.OrderQuantity.Valid {
		return decimal.Zero
	}
	return r.OrderQuantity.Decimal
}
