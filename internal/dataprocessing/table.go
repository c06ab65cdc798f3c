package dataprocessing

import "time"

// RawRow is one data row of the source sheet with its cells as text.
type RawRow struct {
	// Number is the 1-based row number in the sheet, kept for diagnostics.
	Number int
	Cells  []string
	// Dates holds date-formatted cells by column index. Their entry in Cells
	// is the raw serial number.
	Dates map[int]time.Time
}

// RawTable is a sheet as read from the workbook: the header row exactly as it
// appears in the file, and every non-blank data row padded to the header width.
type RawTable struct {
	Source string
	Sheet  string
	Header []string
	Rows   []RawRow
}

// Len returns the number of data rows.
func (t *RawTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// NewRawTable builds a table from in-memory rows, numbering them from 2 as if
// the header were sheet row 1.
func NewRawTable(header []string, rows [][]string) *RawTable {
	table := &RawTable{
		Header: header,
		Rows:   make([]RawRow, 0, len(rows)),
	}
	for i, cells := range rows {
		table.Rows = append(table.Rows, RawRow{Number: i + 2, Cells: padCells(cells, len(header))})
	}
	return table
}

func padCells(cells []string, width int) []string {
	if len(cells) >= width {
		return cells
	}
	padded := make([]string, width)
	copy(padded, cells)
	return padded
}
