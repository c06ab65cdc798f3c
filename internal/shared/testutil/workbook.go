package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salespulse/pkg/contracts/domain"
)

// SalesHeader is the column order WriteSalesWorkbook writes.
var SalesHeader = []string{
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

// WriteSalesWorkbook saves a workbook holding SalesHeader followed by rows
// on sheet, and returns its path inside t.TempDir(). Every cell is written as
// text so the loader sees exactly the given strings.
func WriteSalesWorkbook(t *testing.T, sheet string, rows [][]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))

	writeRow := func(r int, cells []string) {
		for c, v := range cells {
			cell, err := excelize.CoordinatesToCellName(c+1, r)
			require.NoError(t, err)
			require.NoError(t, f.SetCellStr(sheet, cell, v))
		}
	}

	writeRow(1, SalesHeader)
	for i, cells := range rows {
		writeRow(i+2, cells)
	}

	path := filepath.Join(t.TempDir(), "sales.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}
