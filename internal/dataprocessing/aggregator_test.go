package dataprocessing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/pkg/contracts/domain"
)

func sumGroups(groups []domain.GroupTotal) decimal.Decimal {
	total := decimal.Zero
	for _, g := range groups {
		total = total.Add(g.Total)
	}
	return total
}

func TestComputeKPIs_ActiveAndCancelledScenario(t *testing.T) {
	table := tableOf(
		row{status: "Delivered", total: "10.00", qty: "1", customer: "C1"},
		row{status: "Shipped", total: "20,00", qty: "2", customer: "C2"},
		row{status: "Pending", total: "", qty: "3", customer: "C1"},
		row{status: "Cancelled", total: "999", qty: "50", customer: "C9"},
	)

	records, _, err := NewNormalizer("", nil).Normalize(context.Background(), table)
	require.NoError(t, err)
	kpis := ComputeKPIs(FilterActive(records, domain.OrderStatusCancelled))

	assert.True(t, dec(t, "30.00").Equal(kpis.TotalSales), "total sales %s", kpis.TotalSales)
	assert.True(t, dec(t, "6").Equal(kpis.TotalQuantity))
	assert.Equal(t, 3, kpis.TotalOrders)
	assert.Equal(t, 2, kpis.UniqueCustomers)
	require.True(t, kpis.AverageOrderValue.Valid)
	assert.True(t, dec(t, "10").Equal(kpis.AverageOrderValue.Decimal))
}

func TestComputeKPIs_Empty(t *testing.T) {
	kpis := ComputeKPIs(nil)

	assert.True(t, kpis.TotalSales.IsZero())
	assert.True(t, kpis.TotalQuantity.IsZero())
	assert.Zero(t, kpis.TotalOrders)
	assert.Zero(t, kpis.UniqueCustomers)
	assert.False(t, kpis.AverageOrderValue.Valid)
}

func TestComputeKPIs_UniqueCustomersIgnoresBlank(t *testing.T) {
	kpis := ComputeKPIs([]domain.SalesRecord{
		{CustomerID: "A"},
		{CustomerID: ""},
		{CustomerID: "a"},
		{CustomerID: "A"},
	})
	assert.Equal(t, 2, kpis.UniqueCustomers)
	assert.Equal(t, 4, kpis.TotalOrders)
}

func TestGroupedSales_PartitionTotalSales(t *testing.T) {
	active := []domain.SalesRecord{
		record("Lamp", "Home", "North", "10.5"),
		record("Desk", "Office", "South", "20"),
		record("Lamp", "Home", "South", "4,5"),
		record("Pen", "", "North", "1"),
		record("Chair", "Office", "", "bad"),
		record("Mug", "Kitchen", "East", "3.25"),
	}

	total := ComputeKPIs(active).TotalSales
	byCategory := SalesByCategory(active)
	byRegion := SalesByRegion(active)

	assert.True(t, total.Equal(sumGroups(byCategory)))
	assert.True(t, total.Equal(sumGroups(byRegion)))
	assert.True(t, dec(t, "39.25").Equal(total))

	keys := make([]string, 0, len(byCategory))
	for _, g := range byCategory {
		keys = append(keys, g.Key)
	}
	assert.Equal(t, []string{"", "Home", "Kitchen", "Office"}, keys)
	assert.True(t, dec(t, "15").Equal(byCategory[1].Total))
}

func TestGroupedSales_Empty(t *testing.T) {
	assert.Empty(t, SalesByCategory(nil))
	assert.Empty(t, SalesByRegion(nil))
	assert.Empty(t, MonthlySales(nil))
	assert.Empty(t, TopProducts(nil, 10))
}

func TestMonthBucket(t *testing.T) {
	a := MonthBucket(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	b := MonthBucket(time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, a, b)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), a)
}

func TestMonthlySales(t *testing.T) {
	active := []domain.SalesRecord{
		dated(record("A", "", "", "5"), 2024, time.March, 30),
		dated(record("B", "", "", "1"), 2023, time.December, 2),
		dated(record("C", "", "", "2"), 2024, time.March, 1),
		dated(record("D", "", "", "x"), 2024, time.January, 15),
		record("E", "", "", "100"),
	}

	months := MonthlySales(active)

	require.Len(t, months, 3)
	assert.Equal(t, "2023-12", months[0].Label)
	assert.Equal(t, "2024-01", months[1].Label)
	assert.True(t, months[1].Total.IsZero())
	assert.Equal(t, "2024-03", months[2].Label)
	assert.True(t, dec(t, "7").Equal(months[2].Total))
	for i := 1; i < len(months); i++ {
		assert.True(t, months[i-1].Month.Before(months[i].Month))
	}
}

func TestTopProducts(t *testing.T) {
	var active []domain.SalesRecord
	for i := 0; i < 15; i++ {
		active = append(active, record(fmt.Sprintf("P%02d", i), "", "", fmt.Sprintf("%d", i+1)))
	}
	active = append(active, record("P00", "", "", "100"))

	top := TopProducts(active, 10)

	require.Len(t, top, 10)
	assert.Equal(t, "P00", top[0].Key)
	assert.True(t, dec(t, "101").Equal(top[0].Total))
	assert.Equal(t, "P14", top[1].Key)

	seen := make(map[string]bool)
	for i, g := range top {
		assert.False(t, seen[g.Key], "duplicate product %s", g.Key)
		seen[g.Key] = true
		if i > 0 {
			assert.True(t, top[i-1].Total.GreaterThanOrEqual(g.Total))
		}
	}
}

func TestTopProducts_FewerThanN(t *testing.T) {
	active := []domain.SalesRecord{
		record("A", "", "", "1"),
		record("B", "", "", "2"),
		record("A", "", "", "5"),
	}

	top := TopProducts(active, 10)
	require.Len(t, top, 2)
	assert.Equal(t, "A", top[0].Key)
	assert.Equal(t, "B", top[1].Key)
	assert.Empty(t, TopProducts(active, 0))
}

func TestTopProducts_TieBreakByName(t *testing.T) {
	active := []domain.SalesRecord{
		record("Zeta", "", "", "50"),
		record("Top", "", "", "90"),
		record("Alpha", "", "", "50"),
		record("Mid", "", "", "50"),
		record("Low", "", "", "1"),
	}

	for i := 0; i < 20; i++ {
		top := TopProducts(active, 3)
		require.Len(t, top, 3)
		assert.Equal(t, "Top", top[0].Key)
		assert.Equal(t, "Alpha", top[1].Key)
		assert.Equal(t, "Mid", top[2].Key)
	}
}

func TestFeedbackCounts(t *testing.T) {
	tests := []struct {
		name         string
		feedback     []string
		want         []int
		unclassified int
	}{
		{
			name:     "no feedback values",
			feedback: nil,
			want:     []int{0, 0, 0},
		},
		{
			name:     "mixed",
			feedback: []string{"Positive", "Negative", "Positive", "Neutral"},
			want:     []int{2, 1, 1},
		},
		{
			name:         "outside domain",
			feedback:     []string{"Positive", "", "positive", "Great"},
			want:         []int{1, 0, 0},
			unclassified: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			active := make([]domain.SalesRecord, 0, len(tt.feedback))
			for _, f := range tt.feedback {
				active = append(active, domain.SalesRecord{CustomerFeedback: f})
			}

			dist := FeedbackCounts(active)

			require.Len(t, dist.Counts, 3)
			sum := dist.Unclassified
			for i, value := range domain.FeedbackDomain {
				assert.Equal(t, value, dist.Counts[i].Value)
				assert.Equal(t, tt.want[i], dist.Counts[i].Count)
				assert.GreaterOrEqual(t, dist.Counts[i].Count, 0)
				sum += dist.Counts[i].Count
			}
			assert.Equal(t, tt.unclassified, dist.Unclassified)
			assert.Equal(t, len(active), sum)
		})
	}
}

func TestValueCounts(t *testing.T) {
	active := []domain.SalesRecord{
		{PaymentMethod: "Card"},
		{PaymentMethod: "Cash"},
		{PaymentMethod: "Card"},
		{PaymentMethod: ""},
		{PaymentMethod: "Bank"},
	}

	counts := ValueCounts(active, func(r domain.SalesRecord) string { return r.PaymentMethod })

	assert.Equal(t, []domain.ValueCount{
		{Value: "Card", Count: 2},
		{Value: "Bank", Count: 1},
		{Value: "Cash", Count: 1},
	}, counts)
}

func TestMethodCounts(t *testing.T) {
	active := []domain.SalesRecord{
		{PaymentMethod: "Card", ShippingMethod: "Air"},
		{PaymentMethod: "Card", ShippingMethod: "Ground"},
		{PaymentMethod: "Cash", ShippingMethod: "Air"},
		{PaymentMethod: "", ShippingMethod: "Air"},
	}

	methods := MethodCounts(active)

	assert.Equal(t, []domain.ValueCount{{Value: "Card", Count: 2}, {Value: "Cash", Count: 1}}, methods.Payment)
	assert.Equal(t, []domain.ValueCount{{Value: "Air", Count: 3}, {Value: "Ground", Count: 1}}, methods.Shipping)
	assert.Equal(t, []domain.MethodUsage{
		{Label: "Air", Payment: 0, Shipping: 3},
		{Label: "Card", Payment: 2, Shipping: 0},
		{Label: "Cash", Payment: 1, Shipping: 0},
		{Label: "Ground", Payment: 0, Shipping: 1},
	}, methods.Combined)
}

func TestMethodCounts_Empty(t *testing.T) {
	methods := MethodCounts(nil)
	assert.Empty(t, methods.Payment)
	assert.Empty(t, methods.Shipping)
	assert.Empty(t, methods.Combined)
}
