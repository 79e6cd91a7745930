package core

import (
	"math"
	"testing"
	"time"
)

func TestCellFormat(t *testing.T) {
	tests := []struct {
		name    string
		cell    Cell
		decimal rune
		want    string
	}{
		{"empty", Cell{}, '.', ""},
		{"text keeps comma", TextCell("1,5"), ',', "1,5"},
		{"text keeps dot", TextCell("1.5"), ',', "1.5"},
		{"integer", NumberCell(42), ',', "42"},
		{"fraction dot", NumberCell(3.25), '.', "3.25"},
		{"fraction comma", NumberCell(3.25), ',', "3,25"},
		{"negative", NumberCell(-1000.5), ',', "-1000,5"},
		{"large integer", NumberCell(123456789012), '.', "123456789012"},
		{"tiny", NumberCell(1e-9), '.', "1e-09"},
		{"nan", NumberCell(math.NaN()), '.', ""},
		{"true", BoolCell(true), '.', "True"},
		{"false", BoolCell(false), '.', "False"},
		{"date", DateCell(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)), ',', "2024-02-29"},
		{"datetime", DateCell(time.Date(2024, 2, 29, 13, 5, 0, 0, time.UTC)), ',', "2024-02-29 13:05:00"},
		{"time of day", TimeCell(time.Date(1899, 12, 31, 6, 34, 0, 0, time.UTC)), '.', "06:34:00"},
		{"midnight", TimeCell(time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)), '.', "00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cell.Format(tt.decimal); got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.decimal, got, tt.want)
			}
		})
	}
}

func TestSerialDateCell(t *testing.T) {
	at := time.Date(1899, 12, 30, 6, 34, 0, 0, time.UTC)
	if c := serialDateCell(0.273611, at); c.Kind != CellTime || c.String() != "06:34:00" {
		t.Errorf("serial below one = %+v (%q), want time of day", c, c.String())
	}

	day := time.Date(1907, 7, 3, 0, 0, 0, 0, time.UTC)
	if c := serialDateCell(2741, day); c.Kind != CellDate || c.String() != "1907-07-03" {
		t.Errorf("whole serial = %+v (%q), want date", c, c.String())
	}
}

func TestTextCell_EmptyIsEmpty(t *testing.T) {
	if c := TextCell(""); c.Kind != CellEmpty {
		t.Errorf("TextCell(\"\").Kind = %v, want CellEmpty", c.Kind)
	}
}

func TestTableBuilder(t *testing.T) {
	b := newTableBuilder("S", 2)

	rows := [][]Cell{
		{{}, {}},
		{TextCell("h1"), TextCell("h2"), {}},
		{TextCell("a")},
		{},
		{TextCell("b"), NumberCell(1), TextCell("extra")},
		{TextCell("c")},
	}

	added := 0
	for _, r := range rows {
		if !b.add(r) {
			break
		}
		added++
	}
	table := b.build()

	if added != 5 {
		t.Errorf("add accepted %d rows before stopping, want 5", added)
	}
	if !table.Truncated {
		t.Error("expected Truncated")
	}
	if len(table.Header) != 2 {
		t.Errorf("header width = %d, want 2 (trailing empties trimmed)", len(table.Header))
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}
	if table.Width() != 3 {
		t.Errorf("Width = %d, want 3", table.Width())
	}
	for i, r := range table.Rows {
		if len(r) != 3 {
			t.Errorf("row %d width = %d, want 3", i, len(r))
		}
	}
	names := table.HeaderNames()
	if names[0] != "h1" || names[1] != "h2" || names[2] != "Unnamed: 2" {
		t.Errorf("HeaderNames = %v", names)
	}
}

func TestTableBuilder_NoLimit(t *testing.T) {
	b := newTableBuilder("S", 0)
	b.add([]Cell{TextCell("h")})
	for i := 0; i < 500; i++ {
		if !b.add([]Cell{NumberCell(float64(i))}) {
			t.Fatalf("add stopped at row %d with no limit", i)
		}
	}
	table := b.build()
	if len(table.Rows) != 500 || table.Truncated {
		t.Errorf("rows = %d truncated = %v, want 500 false", len(table.Rows), table.Truncated)
	}
}

func TestTable_Empty(t *testing.T) {
	var nilTable *Table
	if !nilTable.Empty() {
		t.Error("nil table should be empty")
	}
	if !(&Table{}).Empty() {
		t.Error("zero table should be empty")
	}
	if (&Table{Header: []Cell{TextCell("x")}}).Empty() {
		t.Error("table with header should not be empty")
	}
}
