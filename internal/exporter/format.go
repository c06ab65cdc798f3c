package exporter

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// formatDecimal renders an invalid (undefined) value as an empty cell.
func formatDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}
