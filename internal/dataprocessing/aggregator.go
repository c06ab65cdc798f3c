package dataprocessing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"salespulse/pkg/contracts/domain"
)

// The functions in this file are pure reductions over the active subset.
// A missing Order Total or Order Quantity contributes zero to every sum.

// ComputeKPIs returns the five scalar metrics. AverageOrderValue is invalid
// when there are no records.
func ComputeKPIs(active []domain.SalesRecord) domain.KPIs {
	kpis := domain.KPIs{
		TotalSales:    decimal.Zero,
		TotalQuantity: decimal.Zero,
		TotalOrders:   len(active),
	}

	customers := make(map[string]struct{})
	for _, rec := range active {
		kpis.TotalSales = kpis.TotalSales.Add(rec.TotalOrZero())
		kpis.TotalQuantity = kpis.TotalQuantity.Add(rec.QuantityOrZero())
		if rec.CustomerID != "" {
			customers[rec.CustomerID] = struct{}{}
		}
	}
	kpis.UniqueCustomers = len(customers)

	if kpis.TotalOrders > 0 {
		kpis.AverageOrderValue = decimal.NewNullDecimal(
			kpis.TotalSales.Div(decimal.NewFromInt(int64(kpis.TotalOrders))),
		)
	}
	return kpis
}

// SalesByCategory sums Order Total per Product Category.
func SalesByCategory(active []domain.SalesRecord) []domain.GroupTotal {
	return sumBy(active, func(r domain.SalesRecord) string { return r.ProductCategory })
}

// SalesByRegion sums Order Total per Product Region.
func SalesByRegion(active []domain.SalesRecord) []domain.GroupTotal {
	return sumBy(active, func(r domain.SalesRecord) string { return r.ProductRegion })
}

// sumBy groups by key and sums Order Total. An empty key is a group of its
// own, so every partition covers all records. Rows come back sorted by key;
// callers must not rely on any other order.
func sumBy(active []domain.SalesRecord, key func(domain.SalesRecord) string) []domain.GroupTotal {
	totals := make(map[string]decimal.Decimal)
	for _, rec := range active {
		k := key(rec)
		totals[k] = totals[k].Add(rec.TotalOrZero())
	}

	groups := make([]domain.GroupTotal, 0, len(totals))
	for k, total := range totals {
		groups = append(groups, domain.GroupTotal{Key: k, Total: total})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups
}

// MonthBucket truncates t to the first day of its month, in UTC.
func MonthBucket(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthlySales sums Order Total per month bucket, oldest month first.
// Records without a date have no bucket and are left out.
func MonthlySales(active []domain.SalesRecord) []domain.MonthTotal {
	totals := make(map[time.Time]decimal.Decimal)
	for _, rec := range active {
		if !rec.OrderDate.Valid {
			continue
		}
		bucket := MonthBucket(rec.OrderDate.Time)
		totals[bucket] = totals[bucket].Add(rec.TotalOrZero())
	}

	months := make([]domain.MonthTotal, 0, len(totals))
	for bucket, total := range totals {
		months = append(months, domain.MonthTotal{
			Month: bucket,
			Label: bucket.Format("2006-01"),
			Total: total,
		})
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month.Before(months[j].Month) })
	return months
}

// TopProducts returns the n products with the largest summed Order Total,
// largest first. Equal totals are ordered by product name ascending.
func TopProducts(active []domain.SalesRecord, n int) []domain.GroupTotal {
	if n <= 0 {
		return []domain.GroupTotal{}
	}

	products := sumBy(active, func(r domain.SalesRecord) string { return r.ProductName })
	sort.SliceStable(products, func(i, j int) bool {
		if c := products[i].Total.Cmp(products[j].Total); c != 0 {
			return c > 0
		}
		return products[i].Key < products[j].Key
	})

	if len(products) > n {
		products = products[:n]
	}
	return products
}

// FeedbackCounts counts Customer Feedback over the fixed domain. Positive,
// Neutral and Negative are always present, in that order. Any other value,
// blank included, is counted as unclassified.
func FeedbackCounts(active []domain.SalesRecord) domain.FeedbackDistribution {
	counts := make(map[string]int, len(domain.FeedbackDomain))
	for _, v := range domain.FeedbackDomain {
		counts[v] = 0
	}

	dist := domain.FeedbackDistribution{
		Counts: make([]domain.ValueCount, 0, len(domain.FeedbackDomain)),
	}
	for _, rec := range active {
		if _, ok := counts[rec.CustomerFeedback]; ok {
			counts[rec.CustomerFeedback]++
		} else {
			dist.Unclassified++
		}
	}

	for _, v := range domain.FeedbackDomain {
		dist.Counts = append(dist.Counts, domain.ValueCount{Value: v, Count: counts[v]})
	}
	return dist
}

// ValueCounts counts the non-empty values of field, most frequent first and
// ties by value ascending.
func ValueCounts(active []domain.SalesRecord, field func(domain.SalesRecord) string) []domain.ValueCount {
	counts := make(map[string]int)
	for _, rec := range active {
		if v := field(rec); v != "" {
			counts[v]++
		}
	}

	out := make([]domain.ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, domain.ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// MethodCounts counts payment and shipping methods and merges both into one
// table keyed by the union of labels, sorted ascending.
func MethodCounts(active []domain.SalesRecord) domain.MethodCounts {
	payment := ValueCounts(active, func(r domain.SalesRecord) string { return r.PaymentMethod })
	shipping := ValueCounts(active, func(r domain.SalesRecord) string { return r.ShippingMethod })

	merged := make(map[string]*domain.MethodUsage)
	usage := func(label string) *domain.MethodUsage {
		u, ok := merged[label]
		if !ok {
			u = &domain.MethodUsage{Label: label}
			merged[label] = u
		}
		return u
	}
	for _, vc := range payment {
		usage(vc.Value).Payment = vc.Count
	}
	for _, vc := range shipping {
		usage(vc.Value).Shipping = vc.Count
	}

	combined := make([]domain.MethodUsage, 0, len(merged))
	for _, u := range merged {
		combined = append(combined, *u)
	}
	sort.Slice(combined, func(i, j int) bool { return combined[i].Label < combined[j].Label })

	return domain.MethodCounts{
		Payment:  payment,
		Shipping: shipping,
		Combined: combined,
	}
}
