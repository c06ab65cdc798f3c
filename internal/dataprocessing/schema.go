package dataprocessing

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"salespulse/internal/errors"
	"salespulse/pkg/contracts/domain"
)

const byteOrderMark = "\ufeff"

// CanonicalHeader returns the lookup form of a column name: BOM removed,
// NFC-normalized and trimmed of surrounding whitespace.
func CanonicalHeader(name string) string {
	name = strings.TrimPrefix(name, byteOrderMark)
	return strings.TrimSpace(norm.NFC.String(name))
}

// ColumnIndex maps canonical column names to cell positions.
type ColumnIndex map[string]int

// ResolveColumns canonicalizes the header once and locates every required
// column. The first occurrence of a duplicated name wins. Missing required
// columns are a schema error.
func ResolveColumns(header []string) (ColumnIndex, error) {
	index := make(ColumnIndex, len(header))
	for i, name := range header {
		key := CanonicalHeader(name)
		if key == "" {
			continue
		}
		if _, exists := index[key]; !exists {
			index[key] = i
		}
	}

	var missing []string
	for _, col := range domain.RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, errors.NewSchemaError("missing required columns: "+strings.Join(missing, ", "), nil).
			WithContext("missing_columns", missing)
	}

	return index, nil
}

// cell returns the value of column col in cells, or "" when the row is short.
func (ci ColumnIndex) cell(cells []string, col string) string {
	i, ok := ci[col]
	if !ok || i >= len(cells) {
		return ""
	}
	return cells[i]
}
