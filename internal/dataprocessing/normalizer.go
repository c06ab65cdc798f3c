package dataprocessing

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"salespulse/internal/config"
	"salespulse/internal/infrastructure"
	"salespulse/pkg/contracts/domain"
)

// NormalizeStats summarizes one normalization pass.
type NormalizeStats struct {
	Rows int `json:"rows"`
	// Missing counts unparseable cells per typed column.
	Missing map[string]int `json:"missing"`
}

// MissingCells returns the total number of cells that became missing.
func (s NormalizeStats) MissingCells() int {
	total := 0
	for _, n := range s.Missing {
		total += n
	}
	return total
}

// Normalizer converts raw sheet rows into typed sales records.
type Normalizer struct {
	dateLayout string
	logger     *slog.Logger
}

// NewNormalizer creates a normalizer parsing Order Date with dateLayout
// (a time.Parse layout). An empty layout selects the default month/day/yy form.
func NewNormalizer(dateLayout string, logger *slog.Logger) *Normalizer {
	if dateLayout == "" {
		dateLayout = config.DefaultDateLayout
	}
	return &Normalizer{
		dateLayout: dateLayout,
		logger:     infrastructure.WithComponent(logger, "normalizer"),
	}
}

// Normalize produces exactly one record per table row. Bad numeric or date
// cells become missing values; the only error is a header lacking a required
// column.
func (n *Normalizer) Normalize(ctx context.Context, table *RawTable) ([]domain.SalesRecord, NormalizeStats, error) {
	stats := NormalizeStats{Missing: map[string]int{
		domain.ColumnProductPrice:  0,
		domain.ColumnOrderQuantity: 0,
		domain.ColumnOrderTotal:    0,
		domain.ColumnOrderDate:     0,
	}}
	if table == nil {
		return []domain.SalesRecord{}, stats, nil
	}

	cols, err := ResolveColumns(table.Header)
	if err != nil {
		return nil, stats, err
	}

	records := make([]domain.SalesRecord, 0, len(table.Rows))
	for _, row := range table.Rows {
		rec := domain.SalesRecord{
			Row:              row.Number,
			ProductPrice:     ParseDecimal(cols.cell(row.Cells, domain.ColumnProductPrice)),
			OrderQuantity:    ParseDecimal(cols.cell(row.Cells, domain.ColumnOrderQuantity)),
			OrderTotal:       ParseDecimal(cols.cell(row.Cells, domain.ColumnOrderTotal)),
			OrderDate:        n.orderDate(row, cols),
			OrderStatus:      cols.cell(row.Cells, domain.ColumnOrderStatus),
			ProductCategory:  cols.cell(row.Cells, domain.ColumnProductCategory),
			ProductRegion:    cols.cell(row.Cells, domain.ColumnProductRegion),
			ProductName:      cols.cell(row.Cells, domain.ColumnProductName),
			CustomerID:       cols.cell(row.Cells, domain.ColumnCustomerID),
			CustomerFeedback: cols.cell(row.Cells, domain.ColumnCustomerFeedback),
			PaymentMethod:    cols.cell(row.Cells, domain.ColumnPaymentMethod),
			ShippingMethod:   cols.cell(row.Cells, domain.ColumnShippingMethod),
		}

		if !rec.ProductPrice.Valid {
			stats.Missing[domain.ColumnProductPrice]++
		}
		if !rec.OrderQuantity.Valid {
			stats.Missing[domain.ColumnOrderQuantity]++
		}
		if !rec.OrderTotal.Valid {
			stats.Missing[domain.ColumnOrderTotal]++
		}
		if !rec.OrderDate.Valid {
			stats.Missing[domain.ColumnOrderDate]++
		}

		records = append(records, rec)
	}
	stats.Rows = len(records)

	if missing := stats.MissingCells(); missing > 0 {
		n.logger.WarnContext(ctx, "unparseable cells treated as missing",
			slog.Int("missing_cells", missing),
			slog.Any("by_column", stats.Missing))
	}
	n.logger.DebugContext(ctx, "normalization complete", slog.Int("rows", stats.Rows))

	return records, stats, nil
}

// orderDate prefers a date-typed cell over parsing the cell text.
func (n *Normalizer) orderDate(row RawRow, cols ColumnIndex) domain.NullDate {
	if t, ok := row.Dates[cols[domain.ColumnOrderDate]]; ok {
		return domain.NewNullDate(t)
	}
	return ParseDate(cols.cell(row.Cells, domain.ColumnOrderDate), n.dateLayout)
}

// ParseDecimal parses a numeric cell that may use a comma as its decimal
// separator. Every comma is replaced by a period, so values using commas as
// thousands separators are not supported. Unparseable input is reported as
// missing (Valid=false).
func ParseDecimal(raw string) decimal.NullDecimal {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// ParseDate parses raw with layout only. No other format is attempted and
// the input is not trimmed.
func ParseDate(raw, layout string) domain.NullDate {
	if raw == "" {
		return domain.NullDate{}
	}
	t, err := time.Parse(layout, raw)
	if err != nil {
		return domain.NullDate{}
	}
	return domain.NewNullDate(t)
}
