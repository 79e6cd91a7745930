package core

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// CellKind is the value type of a spreadsheet cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellBool
	CellDate
	CellTime
)

// Cell is one spreadsheet value. Only the field matching Kind is meaningful.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Bool   bool
	Time   time.Time
}

// TextCell, NumberCell, BoolCell, DateCell and TimeCell build typed cells.
func TextCell(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{Kind: CellText, Text: s}
}

func NumberCell(f float64) Cell { return Cell{Kind: CellNumber, Number: f} }

func BoolCell(b bool) Cell { return Cell{Kind: CellBool, Bool: b} }

func DateCell(t time.Time) Cell { return Cell{Kind: CellDate, Time: t} }

// TimeCell holds a time of day; the date part of t is ignored.
func TimeCell(t time.Time) Cell { return Cell{Kind: CellTime, Time: t} }

// serialDateCell builds the cell for a date-formatted Excel serial. Serials
// below one have no date part and become time-of-day cells.
func serialDateCell(serial float64, t time.Time) Cell {
	if serial >= 0 && serial < 1 {
		return TimeCell(t)
	}
	return DateCell(t)
}

// IsNumeric reports whether the cell holds a number.
func (c Cell) IsNumeric() bool { return c.Kind == CellNumber }

// String renders the cell with '.' as decimal separator.
func (c Cell) String() string {
	return c.Format('.')
}

// Format renders the cell, substituting decimal for the fractional
// separator of numbers. Text cells are returned verbatim.
func (c Cell) Format(decimal rune) string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		s := formatNumber(c.Number)
		if decimal != '.' && decimal != 0 {
			s = strings.Replace(s, ".", string(decimal), 1)
		}
		return s
	case CellBool:
		if c.Bool {
			return "True"
		}
		return "False"
	case CellDate:
		if c.Time.Hour() == 0 && c.Time.Minute() == 0 && c.Time.Second() == 0 && c.Time.Nanosecond() == 0 {
			return c.Time.Format("2006-01-02")
		}
		return c.Time.Format("2006-01-02 15:04:05")
	case CellTime:
		return c.Time.Format("15:04:05")
	default:
		return ""
	}
}

// formatNumber renders f in its shortest round-tripping decimal form,
// without exponent for the magnitudes spreadsheets normally hold.
func formatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Table is the parsed contents of one sheet. The first non-empty sheet row
// becomes Header; the rest are Rows, padded to the header width.
type Table struct {
	Sheet  string
	Header []Cell
	Rows   [][]Cell

	// Truncated is set when a row limit stopped the read early.
	Truncated bool
}

// Width returns the number of columns.
func (t *Table) Width() int {
	w := len(t.Header)
	for _, r := range t.Rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// Empty reports whether the table has neither header nor rows.
func (t *Table) Empty() bool {
	return t == nil || (len(t.Header) == 0 && len(t.Rows) == 0)
}

// HeaderNames returns the header as strings, naming blank columns
// "Unnamed: <index>".
func (t *Table) HeaderNames() []string {
	names := make([]string, t.Width())
	for i := range names {
		if i < len(t.Header) && t.Header[i].Kind != CellEmpty {
			names[i] = t.Header[i].String()
			continue
		}
		names[i] = "Unnamed: " + strconv.Itoa(i)
	}
	return names
}

// tableBuilder accumulates raw rows into a Table.
type tableBuilder struct {
	table     Table
	limit     int
	hasHeader bool
}

func newTableBuilder(sheet string, limit int) *tableBuilder {
	return &tableBuilder{table: Table{Sheet: sheet}, limit: limit}
}

// add appends a row. It returns false once the row limit is reached.
func (b *tableBuilder) add(row []Cell) bool {
	if isBlankRow(row) {
		return true
	}
	if !b.hasHeader {
		b.table.Header = trimTrailingEmpty(row)
		b.hasHeader = true
		return true
	}
	if b.limit > 0 && len(b.table.Rows) >= b.limit {
		b.table.Truncated = true
		return false
	}
	b.table.Rows = append(b.table.Rows, row)
	return true
}

func (b *tableBuilder) build() *Table {
	t := b.table
	w := t.Width()
	for i, r := range t.Rows {
		if len(r) < w {
			padded := make([]Cell, w)
			copy(padded, r)
			t.Rows[i] = padded
		}
	}
	return &t
}

func isBlankRow(row []Cell) bool {
	for _, c := range row {
		if c.Kind != CellEmpty {
			return false
		}
	}
	return true
}

func trimTrailingEmpty(row []Cell) []Cell {
	n := len(row)
	for n > 0 && row[n-1].Kind == CellEmpty {
		n--
	}
	return row[:n]
}
