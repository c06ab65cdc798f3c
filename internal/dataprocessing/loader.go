package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"salespulse/internal/errors"
	"salespulse/internal/infrastructure"
)

// Loader reads the sales sheet out of an xlsx workbook.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a workbook loader.
func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{logger: infrastructure.WithComponent(logger, "loader")}
}

// LoadWorkbook opens the workbook at path and returns the named sheet as a
// RawTable. The first non-blank row is the header. Blank rows are skipped and
// short rows are padded to the header width.
//
// Cells are read as stored, without their number format, so numeric cells
// never carry thousands separators. Cells formatted as dates are also
// converted from their serial value into RawRow.Dates.
//
// An unreadable file yields an ErrTypeStorage error. A missing sheet or a sheet
// with no header row yields an ErrTypeSchema error.
func (l *Loader) LoadWorkbook(ctx context.Context, path, sheet string) (*RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewStorageError(fmt.Sprintf("failed to open workbook %s", path), err).
			WithContext("path", path)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx == -1 {
		return nil, errors.NewSchemaError(fmt.Sprintf("sheet %q not found", sheet), err).
			WithContext("path", path).
			WithContext("available_sheets", f.GetSheetList())
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.NewStorageError(fmt.Sprintf("failed to read sheet %q", sheet), err).
			WithContext("path", path)
	}

	table, err := buildTable(rows)
	if err != nil {
		return nil, err
	}

	dates, err := newDateCells(f, sheet)
	if err != nil {
		return nil, errors.NewStorageError("failed to read workbook properties", err).
			WithContext("path", path)
	}
	for i := range table.Rows {
		if err := dates.collect(&table.Rows[i]); err != nil {
			return nil, errors.NewStorageError(fmt.Sprintf("failed to read row %d", table.Rows[i].Number), err).
				WithContext("path", path)
		}
	}
	table.Source = path
	table.Sheet = sheet

	l.logger.InfoContext(ctx, "workbook loaded",
		slog.String("path", path),
		slog.String("sheet", sheet),
		slog.Int("columns", len(table.Header)),
		slog.Int("rows", table.Len()),
		slog.Int("blank_rows_skipped", len(rows)-table.Len()-1))

	return table, nil
}

func buildTable(rows [][]string) (*RawTable, error) {
	headerAt := -1
	for i, row := range rows {
		if !isBlankRow(row) {
			headerAt = i
			break
		}
	}
	if headerAt == -1 {
		return nil, errors.NewSchemaError("sheet has no header row", nil)
	}

	header := rows[headerAt]
	table := &RawTable{
		Header: header,
		Rows:   make([]RawRow, 0, len(rows)-headerAt-1),
	}
	for i := headerAt + 1; i < len(rows); i++ {
		if isBlankRow(rows[i]) {
			continue
		}
		table.Rows = append(table.Rows, RawRow{
			Number: i + 1,
			Cells:  padCells(rows[i], len(header)),
		})
	}
	return table, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// dateCells finds numeric cells whose number format renders a date.
type dateCells struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	// byStyle caches the date decision per style index.
	byStyle map[int]bool
}

func newDateCells(f *excelize.File, sheet string) (*dateCells, error) {
	props, err := f.GetWorkbookProps()
	if err != nil {
		return nil, err
	}
	return &dateCells{
		f:        f,
		sheet:    sheet,
		date1904: props.Date1904 != nil && *props.Date1904,
		byStyle:  make(map[int]bool),
	}, nil
}

func (d *dateCells) collect(row *RawRow) error {
	for col, raw := range row.Cells {
		serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, row.Number)
		if err != nil {
			return err
		}
		isDate, err := d.isDateCell(cell)
		if err != nil {
			return err
		}
		if !isDate {
			continue
		}
		t, err := excelize.ExcelDateToTime(serial, d.date1904)
		if err != nil {
			continue
		}
		if row.Dates == nil {
			row.Dates = make(map[int]time.Time)
		}
		row.Dates[col] = t
	}
	return nil
}

func (d *dateCells) isDateCell(cell string) (bool, error) {
	cellType, err := d.f.GetCellType(d.sheet, cell)
	if err != nil {
		return false, err
	}
	if cellType != excelize.CellTypeUnset && cellType != excelize.CellTypeNumber {
		return false, nil
	}

	styleID, err := d.f.GetCellStyle(d.sheet, cell)
	if err != nil {
		return false, err
	}
	if isDate, ok := d.byStyle[styleID]; ok {
		return isDate, nil
	}
	style, err := d.f.GetStyle(styleID)
	if err != nil {
		return false, err
	}
	isDate := isDateFormat(style)
	d.byStyle[styleID] = isDate
	return isDate, nil
}

// isDateFormat reports whether style formats numbers as a calendar date.
// Time-only formats are not dates.
func isDateFormat(style *excelize.Style) bool {
	if style.CustomNumFmt != nil {
		return hasDateToken(*style.CustomNumFmt)
	}
	switch id := style.NumFmt; {
	case id >= 14 && id <= 17, id == 22:
		return true
	case id >= 27 && id <= 36, id >= 50 && id <= 58:
		// locale date formats
		return true
	}
	return false
}

// hasDateToken looks for a day or year token outside quoted literals and
// bracketed sections such as [$-409] or [Red].
func hasDateToken(code string) bool {
	var quoted, bracket, escaped bool
	for _, r := range strings.ToLower(code) {
		switch {
		case escaped:
			escaped = false
		case quoted:
			quoted = r != '"'
		case bracket:
			bracket = r != ']'
		case r == '\\':
			escaped = true
		case r == '"':
			quoted = true
		case r == '[':
			bracket = true
		case r == 'd', r == 'y':
			return true
		}
	}
	return false
}
