package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"salespulse/internal/infrastructure"
	"salespulse/pkg/contracts/domain"
)

// BundleExporter writes every bundle table to its own CSV file.
type BundleExporter struct {
	writer *CSVWriter
	logger *slog.Logger
}

// NewBundleExporter creates an exporter writing into dir
func NewBundleExporter(dir string, logger *slog.Logger) *BundleExporter {
	return &BundleExporter{
		writer: NewCSVWriter(dir),
		logger: infrastructure.WithComponent(logger, "exporter"),
	}
}

type table struct {
	name    string
	headers []string
	records [][]string
}

// Export writes the bundle tables and returns the written paths in the
// order listed in the package documentation.
func (e *BundleExporter) Export(ctx context.Context, bundle domain.ResultBundle) ([]string, error) {
	tables := []table{
		{"kpis.csv", []string{"metric", "value"}, kpiRecords(bundle.KPIs)},
		{"category_sales.csv", []string{"key", "total"}, groupRecords(bundle.CategorySales)},
		{"region_sales.csv", []string{"key", "total"}, groupRecords(bundle.RegionSales)},
		{"monthly_sales.csv", []string{"month", "total"}, monthRecords(bundle.MonthlySales)},
		{"top_products.csv", []string{"product", "total"}, groupRecords(bundle.TopProducts)},
		{"feedback.csv", []string{"feedback", "count"}, feedbackRecords(bundle.Feedback)},
		{"methods.csv", []string{"label", "payment", "shipping"}, methodRecords(bundle.Methods.Combined)},
	}

	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		path, err := e.writer.WriteCSV(t.name, WriteOptions{
			Headers:   t.headers,
			Records:   t.records,
			BOMPrefix: true,
		})
		if err != nil {
			return paths, fmt.Errorf("failed to export %s: %w", t.name, err)
		}
		e.logger.DebugContext(ctx, "table exported",
			slog.String("path", path),
			slog.Int("rows", len(t.records)))
		paths = append(paths, path)
	}

	e.logger.InfoContext(ctx, "bundle exported", slog.Int("files", len(paths)))
	return paths, nil
}

func kpiRecords(k domain.KPIs) [][]string {
	return [][]string{
		{"total_sales", k.TotalSales.String()},
		{"total_quantity", k.TotalQuantity.String()},
		{"average_order_value", formatDecimal(k.AverageOrderValue)},
		{"total_orders", formatInt(k.TotalOrders)},
		{"unique_customers", formatInt(k.UniqueCustomers)},
	}
}

func groupRecords(groups []domain.GroupTotal) [][]string {
	out := make([][]string, len(groups))
	for i, g := range groups {
		out[i] = []string{g.Key, g.Total.String()}
	}
	return out
}

func monthRecords(months []domain.MonthTotal) [][]string {
	out := make([][]string, len(months))
	for i, m := range months {
		out[i] = []string{m.Label, m.Total.String()}
	}
	return out
}

// feedbackRecords appends the unclassified count as its own row.
func feedbackRecords(f domain.FeedbackDistribution) [][]string {
	out := make([][]string, 0, len(f.Counts)+1)
	for _, c := range f.Counts {
		out = append(out, []string{c.Value, formatInt(c.Count)})
	}
	return append(out, []string{"Unclassified", formatInt(f.Unclassified)})
}

func methodRecords(usage []domain.MethodUsage) [][]string {
	out := make([][]string, len(usage))
	for i, u := range usage {
		out[i] = []string{u.Label, formatInt(u.Payment), formatInt(u.Shipping)}
	}
	return out
}
