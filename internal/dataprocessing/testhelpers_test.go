package dataprocessing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"salespulse/pkg/contracts/domain"
)

// salesHeader is the canonical column order used by the test fixtures.
var salesHeader = []string{
	domain.ColumnOrderDate,
	domain.ColumnOrderStatus,
	domain.ColumnProductName,
	domain.ColumnProductCategory,
	domain.ColumnProductRegion,
	domain.ColumnProductPrice,
	domain.ColumnOrderQuantity,
	domain.ColumnOrderTotal,
	domain.ColumnCustomerID,
	domain.ColumnCustomerFeedback,
	domain.ColumnPaymentMethod,
	domain.ColumnShippingMethod,
}

type row struct {
	date, status, product, category, region string
	price, qty, total                       string
	customer, feedback, payment, shipping   string
}

func (r row) cells() []string {
	return []string{
		r.date, r.status, r.product, r.category, r.region,
		r.price, r.qty, r.total,
		r.customer, r.feedback, r.payment, r.shipping,
	}
}

func tableOf(rows ...row) *RawTable {
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, r.cells())
	}
	return NewRawTable(salesHeader, cells)
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func record(product, category, region, total string) domain.SalesRecord {
	return domain.SalesRecord{
		ProductName:     product,
		ProductCategory: category,
		ProductRegion:   region,
		OrderTotal:      ParseDecimal(total),
	}
}

func dated(rec domain.SalesRecord, y int, m time.Month, d int) domain.SalesRecord {
	rec.OrderDate = domain.NewNullDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	return rec
}
