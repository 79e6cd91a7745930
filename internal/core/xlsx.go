package core

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// xlsxWorkbook reads Office Open XML workbooks with excelize.
type xlsxWorkbook struct {
	f        *excelize.File
	date1904 bool
	styles   map[int]bool // style id -> is date format
}

func openXLSX(data []byte) (*xlsxWorkbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	wb := &xlsxWorkbook{f: f, styles: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}
	return wb, nil
}

func (w *xlsxWorkbook) SheetNames() []string {
	return w.f.GetSheetList()
}

func (w *xlsxWorkbook) ReadTable(sheet string, limit int) (*Table, error) {
	name, err := resolveSheet(w.SheetNames(), sheet)
	if err != nil {
		return nil, err
	}

	rows, err := w.f.Rows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	defer rows.Close()

	b := newTableBuilder(name, limit)
	rowNum := 0
	for rows.Next() {
		rowNum++
		raw, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %q row %d: %w", name, rowNum, err)
		}
		row := make([]Cell, len(raw))
		for i, v := range raw {
			if v == "" {
				continue
			}
			row[i] = w.cell(name, i+1, rowNum, v)
		}
		if !b.add(row) {
			break
		}
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	return b.build(), nil
}

// cell types a raw value using the stored cell type and number format.
func (w *xlsxWorkbook) cell(sheet string, col, row int, raw string) Cell {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return TextCell(raw)
	}
	typ, err := w.f.GetCellType(sheet, ref)
	if err != nil {
		return TextCell(raw)
	}

	switch typ {
	case excelize.CellTypeBool:
		return BoolCell(raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return DateCell(t)
		}
		if t, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
			return DateCell(t)
		}
		return TextCell(raw)
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return TextCell(raw)
		}
		if w.isDateStyle(sheet, ref) {
			if t, err := excelize.ExcelDateToTime(f, w.date1904); err == nil {
				return serialDateCell(f, t)
			}
		}
		return NumberCell(f)
	default:
		return TextCell(raw)
	}
}

func (w *xlsxWorkbook) isDateStyle(sheet, ref string) bool {
	id, err := w.f.GetCellStyle(sheet, ref)
	if err != nil || id == 0 {
		return false
	}
	if isDate, ok := w.styles[id]; ok {
		return isDate
	}
	isDate := false
	if style, err := w.f.GetStyle(id); err == nil && style != nil {
		if style.CustomNumFmt != nil {
			isDate = isDateFormatString(*style.CustomNumFmt)
		} else {
			isDate = isBuiltinDateFormat(style.NumFmt)
		}
	}
	w.styles[id] = isDate
	return isDate
}

func (w *xlsxWorkbook) Close() error {
	return w.f.Close()
}

// isBuiltinDateFormat reports whether a built-in number format id is a
// date or time format.
func isBuiltinDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatString reports whether a custom number format renders dates.
// Quoted literals, escaped characters and bracketed sections are ignored.
func isDateFormatString(format string) bool {
	if strings.EqualFold(format, "general") {
		return false
	}
	inQuote, inBracket := false, false
	for i := 0; i < len(format); i++ {
		c := format[i]
		switch {
		case c == '"':
			inQuote = !inQuote
		case inQuote:
		case c == '\\':
			i++
		case c == '[':
			inBracket = true
		case c == ']':
			inBracket = false
		case inBracket:
		default:
			switch c | 0x20 {
			case 'y', 'm', 'd', 'h', 's':
				return true
			}
		}
	}
	return false
}
