package core

// export.go turns a parsed table into a downloadable delimited text file.
//
// The pipeline is a single synchronous pass:
//  1. Serialize header (optional) and rows with the delimiter and quoting mode
//  2. Substitute the decimal separator in numeric cells only
//  3. Encode the text, replacing unrepresentable characters
//  4. Derive a sanitized filename from the source name, sheet and timestamp

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// CSVMIMEType is the content type of every export.
const CSVMIMEType = "text/csv"

// TimestampLayout formats the export time embedded in filenames.
const TimestampLayout = "20060102_150405"

const (
	fallbackBaseName  = "arquivo"
	fallbackSheetName = "Planilha"
)

// ExportResult is a finished export, ready to be sent to the client.
type ExportResult struct {
	Filename string
	Data     []byte
	MIMEType string
}

// Export serializes t with opts and names the result after sourceName,
// the table's sheet and at.
func Export(t *Table, opts ExportOptions, sourceName string, at time.Time) (*ExportResult, error) {
	text, err := Serialize(t, opts)
	if err != nil {
		return nil, err
	}

	data, err := encodeText(text, opts.Encoding)
	if err != nil {
		return nil, newError(KindExport, "export", err)
	}

	sheet := ""
	if t != nil {
		sheet = t.Sheet
	}

	return &ExportResult{
		Filename: ExportFilename(sourceName, sheet, at),
		Data:     data,
		MIMEType: CSVMIMEType,
	}, nil
}

// Serialize renders t as delimited text using opts. The result is not yet
// encoded.
func Serialize(t *Table, opts ExportOptions) (string, error) {
	if t.Empty() {
		return "", newError(KindFormat, "export", fmt.Errorf("sheet has no rows to export"))
	}

	w := newDelimitedWriter(opts.Delimiter, opts.Quoting)

	if opts.IncludeHeader {
		names := t.HeaderNames()
		fields := make([]field, len(names))
		for i, n := range names {
			fields[i] = field{text: n}
		}
		if err := w.writeRow(fields, 0); err != nil {
			return "", newError(KindExport, "export", err)
		}
	}

	for i, row := range t.Rows {
		fields := make([]field, len(row))
		for j, c := range row {
			// Bools count as numbers for non-numeric quoting.
			fields[j] = field{text: c.Format(opts.Decimal), isNumeric: c.IsNumeric() || c.Kind == CellBool}
		}
		if err := w.writeRow(fields, i+1); err != nil {
			return "", newError(KindExport, "export", err)
		}
	}

	return w.String(), nil
}

// ExportFilename builds "{base}__{sheet}__{YYYYMMDD_HHMMSS}.csv". The base is
// the whole source name up to its last dot.
func ExportFilename(sourceName, sheet string, at time.Time) string {
	base := sourceName
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[:i]
	}

	b := SanitizeFilename(base)
	if b == "" {
		b = fallbackBaseName
	}
	s := SanitizeFilename(sheet)
	if s == "" {
		s = fallbackSheetName
	}

	return fmt.Sprintf("%s__%s__%s.csv", b, s, at.Format(TimestampLayout))
}

// unsafeFilenameChars matches runs of characters outside word characters,
// hyphen and dot.
var unsafeFilenameChars = regexp.MustCompile(`[^\p{L}\p{N}_\-.]+`)

// SanitizeFilename replaces every run of unsafe characters with '_' and
// trims leading and trailing underscores. It may return "".
func SanitizeFilename(name string) string {
	return strings.Trim(unsafeFilenameChars.ReplaceAllString(name, "_"), "_")
}
