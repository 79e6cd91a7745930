package core

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

type testSheet struct {
	name string
	rows [][]any
}

// buildXLSX writes sheets, in order, into an in-memory workbook.
func buildXLSX(t *testing.T, sheets ...testSheet) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				t.Fatalf("SetSheetName: %v", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			t.Fatalf("NewSheet: %v", err)
		}
		for r, row := range s.rows {
			ref, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatalf("CoordinatesToCellName: %v", err)
			}
			values := row
			if err := f.SetSheetRow(s.name, ref, &values); err != nil {
				t.Fatalf("SetSheetRow: %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

func openTestXLSX(t *testing.T, data []byte) Workbook {
	t.Helper()
	u, err := NewUpload("book.xlsx", data)
	if err != nil {
		t.Fatalf("NewUpload: %v", err)
	}
	wb, err := OpenWorkbook(u.Open(), u.Format())
	if err != nil {
		t.Fatalf("OpenWorkbook: %v", err)
	}
	t.Cleanup(func() { wb.Close() })
	return wb
}

func TestXLSX_SheetNamesInFileOrder(t *testing.T) {
	data := buildXLSX(t,
		testSheet{name: "Zeta", rows: [][]any{{"a"}}},
		testSheet{name: "Alpha", rows: [][]any{{"b"}}},
		testSheet{name: "Mid", rows: [][]any{{"c"}}},
	)
	wb := openTestXLSX(t, data)

	got := wb.SheetNames()
	want := []string{"Zeta", "Alpha", "Mid"}
	if len(got) != len(want) {
		t.Fatalf("SheetNames = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SheetNames[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestXLSX_ReadTableTypes(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	data := buildXLSX(t, testSheet{
		name: "Data",
		rows: [][]any{
			{"name", "amount", "active", "when"},
			{"alpha", 1.5, true, day},
			{"beta", 2, false, nil},
		},
	})
	wb := openTestXLSX(t, data)

	table, err := wb.ReadTable("Data", 0)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}

	if table.Sheet != "Data" {
		t.Errorf("Sheet = %q", table.Sheet)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}

	first := table.Rows[0]
	if first[0].Kind != CellText || first[0].Text != "alpha" {
		t.Errorf("name cell = %+v", first[0])
	}
	if first[1].Kind != CellNumber || first[1].Number != 1.5 {
		t.Errorf("amount cell = %+v", first[1])
	}
	if first[2].Kind != CellBool || !first[2].Bool {
		t.Errorf("active cell = %+v", first[2])
	}
	if first[3].Kind != CellDate || first[3].Format('.') != "2024-03-01" {
		t.Errorf("date cell = %+v (%q)", first[3], first[3].Format('.'))
	}

	second := table.Rows[1]
	if second[1].Format(',') != "2" {
		t.Errorf("integer cell = %q, want 2", second[1].Format(','))
	}
	if second[3].Kind != CellEmpty {
		t.Errorf("missing cell should be empty, got %+v", second[3])
	}
}

func TestXLSX_DefaultSheetAndMissingSheet(t *testing.T) {
	data := buildXLSX(t,
		testSheet{name: "First", rows: [][]any{{"h"}, {"1"}}},
		testSheet{name: "Second", rows: [][]any{{"h"}, {"2"}}},
	)
	wb := openTestXLSX(t, data)

	table, err := wb.ReadTable("", 0)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if table.Sheet != "First" {
		t.Errorf("default sheet = %q, want First", table.Sheet)
	}

	_, err = wb.ReadTable("Nope", 0)
	if !errors.Is(err, errSheetNotFound) {
		t.Errorf("missing sheet error = %v", err)
	}
}

func TestXLSX_PreviewLimit(t *testing.T) {
	rows := [][]any{{"n"}}
	for i := 0; i < 250; i++ {
		rows = append(rows, []any{i})
	}
	data := buildXLSX(t, testSheet{name: "Big", rows: rows})
	wb := openTestXLSX(t, data)

	table, err := wb.ReadTable("Big", 200)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if len(table.Rows) != 200 || !table.Truncated {
		t.Errorf("rows = %d truncated = %v, want 200 true", len(table.Rows), table.Truncated)
	}

	full, err := wb.ReadTable("Big", 0)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if len(full.Rows) != 250 || full.Truncated {
		t.Errorf("rows = %d truncated = %v, want 250 false", len(full.Rows), full.Truncated)
	}
}

func TestOpenWorkbook_Errors(t *testing.T) {
	xlsx := buildXLSX(t, testSheet{name: "S", rows: [][]any{{"a"}}})

	tests := []struct {
		name    string
		file    string
		data    []byte
		format  Format
		wantErr error
	}{
		{"empty file", "empty.xlsx", nil, FormatXLSX, errEmptyFile},
		{"garbage xlsx", "bad.xlsx", []byte("this is not a zip archive"), FormatXLSX, nil},
		{"xlsx named xls", "renamed.xls", xlsx, FormatXLS, errContentMismatch},
		{"ole2 named xlsx", "renamed.xlsx", []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}, FormatXLSX, errContentMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &Upload{name: tt.file, format: tt.format, data: tt.data}
			wb, err := OpenWorkbook(u.Open(), tt.format)
			if err == nil {
				wb.Close()
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOpenWorkbook_RewindsSource(t *testing.T) {
	data := buildXLSX(t, testSheet{name: "S", rows: [][]any{{"a"}, {"b"}}})
	u, err := NewUpload("book.xlsx", data)
	if err != nil {
		t.Fatalf("NewUpload: %v", err)
	}

	src := u.Open()
	buf := make([]byte, 10)
	if _, err := src.Read(buf); err != nil {
		t.Fatalf("Read: %v", err)
	}

	for i := 0; i < 2; i++ {
		wb, err := OpenWorkbook(src, FormatXLSX)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		wb.Close()
	}

	pos, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if pos != 0 {
		t.Errorf("source position after open = %d, want 0", pos)
	}
}

func TestIsDateFormatString(t *testing.T) {
	tests := map[string]bool{
		"General":               false,
		"0.00":                  false,
		"#,##0.00":              false,
		"yyyy-mm-dd":            true,
		"dd/mm/yyyy hh:mm":      true,
		`"Day"0`:                false,
		`[Red]0.00`:             false,
		`[$-409]mmmm d, yyyy`:   true,
		`0.00\d`:                false,
		`[h]:mm:ss`:             true,
		`#,##0.00 "dollars"`:    false,
		"hh":                    true,
	}
	for format, want := range tests {
		if got := isDateFormatString(format); got != want {
			t.Errorf("isDateFormatString(%q) = %v, want %v", format, got, want)
		}
	}
}

func TestIsBuiltinDateFormat(t *testing.T) {
	for _, id := range []int{14, 15, 22, 27, 36, 45, 47, 50, 58} {
		if !isBuiltinDateFormat(id) {
			t.Errorf("format %d should be a date format", id)
		}
	}
	for _, id := range []int{0, 1, 2, 9, 10, 23, 37, 44, 49, 59} {
		if isBuiltinDateFormat(id) {
			t.Errorf("format %d should not be a date format", id)
		}
	}
}
