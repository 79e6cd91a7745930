package core

import (
	"errors"
	"fmt"
)

// Workbook is an opened spreadsheet file.
type Workbook interface {
	// SheetNames lists the sheets in file order.
	SheetNames() []string

	// ReadTable parses one sheet. A limit > 0 caps the number of data rows
	// read; the header row does not count against it.
	ReadTable(sheet string, limit int) (*Table, error)

	Close() error
}

var (
	// errSheetNotFound is wrapped into a ReadError when a named sheet is missing.
	errSheetNotFound = errors.New("sheet not found")

	errEmptyFile       = errors.New("empty file")
	errContentMismatch = errors.New("file content does not match its extension")
)

// OpenWorkbook reads src from its first byte and opens it with the engine
// matching format. The source cursor is left rewound.
func OpenWorkbook(src Source, format Format) (Workbook, error) {
	data, err := readAll(src)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errEmptyFile
	}

	if detected := sniffFormat(data); detected != FormatUnknown && detected != format {
		return nil, fmt.Errorf("%w: content is %s but the name says .%s; rename the file and upload it again", errContentMismatch, detected, format)
	}

	switch format {
	case FormatXLSX:
		return openXLSX(data)
	case FormatXLS:
		return openXLS(src.Name(), data)
	default:
		return nil, fmt.Errorf("no reader for format %q", format)
	}
}

// resolveSheet returns sheet if it exists, or the first sheet in file order
// when sheet is empty.
func resolveSheet(names []string, sheet string) (string, error) {
	if len(names) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if sheet == "" {
		return names[0], nil
	}
	for _, n := range names {
		if n == sheet {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q", errSheetNotFound, sheet)
}
