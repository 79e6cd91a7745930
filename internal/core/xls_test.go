package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return data
}

func openTestXLS(t *testing.T, name string) Workbook {
	t.Helper()
	u, err := NewUpload(name, readFixture(t, name))
	if err != nil {
		t.Fatalf("NewUpload: %v", err)
	}
	wb, err := OpenWorkbook(u.Open(), u.Format())
	if err != nil {
		t.Fatalf("OpenWorkbook(%s): %v", name, err)
	}
	t.Cleanup(func() { wb.Close() })
	return wb
}

func TestXLS_SheetNamesInFileOrder(t *testing.T) {
	wb := openTestXLS(t, "Formate.xls")

	want := []string{"Blätt1", "ÖÄÜ", "Blätt3", "Formate"}
	if got := wb.SheetNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("SheetNames() = %q, want %q", got, want)
	}
}

func TestXLS_ReadTable(t *testing.T) {
	wb := openTestXLS(t, "Formate.xls")
	names := wb.SheetNames()

	tests := []struct {
		name  string
		sheet string
		check func(t *testing.T, table *Table)
	}{
		{
			name:  "default is the first sheet",
			sheet: "",
			check: func(t *testing.T, table *Table) {
				if table.Sheet != names[0] {
					t.Errorf("Sheet = %q, want %q", table.Sheet, names[0])
				}
			},
		},
		{
			name:  "text and date header cells",
			sheet: names[0],
			check: func(t *testing.T, table *Table) {
				if h := table.Header[0]; h.Kind != CellText || h.Text != "Huber" {
					t.Errorf("header[0] = %+v, want text Huber", h)
				}
				if h := table.Header[1]; h.Kind != CellDate || h.String() != "1907-07-03" {
					t.Errorf("header[1] = %+v (%q), want date 1907-07-03", h, h.String())
				}
				if got := table.HeaderNames(); len(got) < 3 || got[2] != "Unnamed: 2" {
					t.Errorf("HeaderNames() = %q, want blank third column named", got)
				}
			},
		},
		{
			name:  "date and time of day rows",
			sheet: names[0],
			check: func(t *testing.T, table *Table) {
				if len(table.Rows) < 3 {
					t.Fatalf("rows = %d, want at least 3", len(table.Rows))
				}
				if c := table.Rows[0][1]; c.Kind != CellDate || c.String() != "2005-02-23" {
					t.Errorf("row 1 date = %+v (%q), want 2005-02-23", c, c.String())
				}
				if c := table.Rows[1][1]; c.Kind != CellDate || c.String() != "1988-05-03" {
					t.Errorf("row 2 date = %+v (%q), want 1988-05-03", c, c.String())
				}
				if c := table.Rows[2][1]; c.Kind != CellTime || c.String() != "06:34:00" {
					t.Errorf("row 3 time = %+v (%q), want 06:34:00", c, c.String())
				}
			},
		},
		{
			name:  "number cell",
			sheet: names[2],
			check: func(t *testing.T, table *Table) {
				if h := table.Header[0]; h.Kind != CellNumber || h.Number != 100 {
					t.Errorf("header[0] = %+v, want number 100", h)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := wb.ReadTable(tt.sheet, 0)
			if err != nil {
				t.Fatalf("ReadTable(%q): %v", tt.sheet, err)
			}
			tt.check(t, table)
		})
	}
}

func TestXLS_UnknownSheet(t *testing.T) {
	wb := openTestXLS(t, "Formate.xls")

	_, err := wb.ReadTable("Nope", 0)
	if !errors.Is(err, errSheetNotFound) {
		t.Errorf("ReadTable(Nope) error = %v, want errSheetNotFound", err)
	}
}

func TestXLS_RaggedRowsArePadded(t *testing.T) {
	wb := openTestXLS(t, "ragged.xls")

	table, err := wb.ReadTable("", 3)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if table.Sheet != wb.SheetNames()[0] {
		t.Errorf("Sheet = %q, want first sheet %q", table.Sheet, wb.SheetNames()[0])
	}

	got, err := Serialize(table, DefaultOptions())
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if want := "a;b;c;Unnamed: 3\nd;e;;\n"; !strings.HasPrefix(got, want) {
		t.Errorf("Serialize = %q, want prefix %q", got, want)
	}
}

func TestXLS_ServiceUpload(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, sheets, err := svc.Upload(ctx, "", "Formate.xls", readFixture(t, "Formate.xls"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if want := []string{"Blätt1", "ÖÄÜ", "Blätt3", "Formate"}; !reflect.DeepEqual(sheets, want) {
		t.Errorf("sheets = %q, want %q", sheets, want)
	}

	_, _, err = svc.Upload(ctx, "", "corrupted_error.xls", readFixture(t, "corrupted_error.xls"))
	if !errors.Is(err, ErrRead) {
		t.Fatalf("corrupt upload error = %v, want read error", err)
	}
	if code := MapError(err).Code; code != "XLS001" {
		t.Errorf("MapError code = %q, want XLS001", code)
	}
	if got := svc.Status().Sessions; got != 1 {
		t.Errorf("sessions = %d, want 1", got)
	}
}
