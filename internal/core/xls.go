package core

import (
	"fmt"
	"io"
	"math"

	"github.com/yamitzky/xlrd-go/xlrd"
)

// xlsWorkbook reads legacy BIFF workbooks with xlrd-go.
type xlsWorkbook struct {
	book *xlrd.Book
}

func openXLS(name string, data []byte) (*xlsWorkbook, error) {
	book, err := xlrd.OpenWorkbookXLS(name, &xlrd.OpenWorkbookOptions{
		Logfile:        io.Discard,
		FileContents:   data,
		FormattingInfo: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	return &xlsWorkbook{book: book}, nil
}

func (w *xlsWorkbook) SheetNames() []string {
	return w.book.SheetNames()
}

func (w *xlsWorkbook) ReadTable(sheet string, limit int) (*Table, error) {
	name, err := resolveSheet(w.SheetNames(), sheet)
	if err != nil {
		return nil, err
	}
	sh, err := w.book.SheetByName(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}

	b := newTableBuilder(name, limit)
	for rowx := 0; rowx < sh.NRows; rowx++ {
		row := make([]Cell, sh.NCols)
		for colx := 0; colx < sh.NCols; colx++ {
			row[colx] = w.cell(sh, rowx, colx)
		}
		if !b.add(row) {
			break
		}
	}
	return b.build(), nil
}

func (w *xlsWorkbook) cell(sh *xlrd.Sheet, rowx, colx int) Cell {
	value := sh.CellValue(rowx, colx)

	switch sh.CellType(rowx, colx) {
	case xlrd.XL_CELL_TEXT:
		s, _ := value.(string)
		return TextCell(s)
	case xlrd.XL_CELL_NUMBER:
		f, ok := toFloat(value)
		if !ok {
			return TextCell(fmt.Sprint(value))
		}
		if w.isDateCell(sh.CellXFIndex(rowx, colx)) {
			if t, err := xlrd.XldateAsDatetime(f, w.book.Datemode); err == nil {
				return serialDateCell(f, t)
			}
		}
		return NumberCell(f)
	case xlrd.XL_CELL_DATE:
		if f, ok := toFloat(value); ok {
			if t, err := xlrd.XldateAsDatetime(f, w.book.Datemode); err == nil {
				return serialDateCell(f, t)
			}
		}
		return TextCell(fmt.Sprint(value))
	case xlrd.XL_CELL_BOOLEAN:
		switch v := value.(type) {
		case bool:
			return BoolCell(v)
		case int:
			return BoolCell(v != 0)
		}
		return TextCell(fmt.Sprint(value))
	case xlrd.XL_CELL_ERROR:
		if code, ok := value.(byte); ok {
			if text, ok := xlrd.ErrorTextFromCode[code]; ok {
				return TextCell(text)
			}
		}
		return TextCell("#ERROR")
	default:
		return Cell{}
	}
}

func (w *xlsWorkbook) isDateCell(xfIndex int) bool {
	if xfIndex < 0 || xfIndex >= len(w.book.XFList) {
		return false
	}
	key := w.book.XFList[xfIndex].FormatKey
	if isBuiltinDateFormat(key) {
		return true
	}
	if w.book.FormatMap == nil {
		return false
	}
	format := w.book.FormatMap[key]
	if format == nil || format.FormatString == "" {
		return false
	}
	return xlrd.IsDateFormatString(w.book, format.FormatString)
}

func (w *xlsWorkbook) Close() error {
	w.book.ReleaseResources()
	return nil
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, !math.IsNaN(v)
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
