package core

import "testing"

func TestResolveOptions_NoOverridesYieldsDefaults(t *testing.T) {
	got := ResolveOptions(Overrides{})
	want := ExportOptions{
		Delimiter:     ';',
		Encoding:      EncodingUTF8BOM,
		Decimal:       '.',
		IncludeHeader: true,
		Quoting:       QuoteMinimal,
	}
	if got != want {
		t.Errorf("ResolveOptions(empty) = %+v, want %+v", got, want)
	}
	if got != DefaultOptions() {
		t.Errorf("ResolveOptions(empty) = %+v, want DefaultOptions() %+v", got, DefaultOptions())
	}
}

func TestResolveOptions_FieldByField(t *testing.T) {
	off := false

	tests := []struct {
		name string
		in   Overrides
		want func(o *ExportOptions)
	}{
		{
			name: "delimiter only",
			in:   Overrides{Delimiter: ','},
			want: func(o *ExportOptions) { o.Delimiter = ',' },
		},
		{
			name: "tab delimiter",
			in:   Overrides{Delimiter: '\t'},
			want: func(o *ExportOptions) { o.Delimiter = '\t' },
		},
		{
			name: "encoding only",
			in:   Overrides{Encoding: EncodingLatin1},
			want: func(o *ExportOptions) { o.Encoding = EncodingLatin1 },
		},
		{
			name: "decimal only",
			in:   Overrides{Decimal: ','},
			want: func(o *ExportOptions) { o.Decimal = ',' },
		},
		{
			name: "header off",
			in:   Overrides{IncludeHeader: &off},
			want: func(o *ExportOptions) { o.IncludeHeader = false },
		},
		{
			name: "quoting only",
			in:   Overrides{Quoting: QuoteAll},
			want: func(o *ExportOptions) { o.Quoting = QuoteAll },
		},
		{
			name: "invalid values fall back",
			in:   Overrides{Delimiter: '|', Encoding: "utf-16", Decimal: '_', Quoting: "sometimes"},
			want: func(o *ExportOptions) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := DefaultOptions()
			tt.want(&want)
			if got := ResolveOptions(tt.in); got != want {
				t.Errorf("ResolveOptions(%+v) = %+v, want %+v", tt.in, got, want)
			}
		})
	}
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in   string
		want rune
	}{
		{";", ';'},
		{",", ','},
		{"\t", '\t'},
		{"tab", '\t'},
		{"TAB", '\t'},
		{`\t`, '\t'},
		{"x09", '\t'},
		{"|", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := ParseDelimiter(tt.in); got != tt.want {
			t.Errorf("ParseDelimiter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		in   string
		want Encoding
	}{
		{"utf-8-sig", EncodingUTF8BOM},
		{"UTF8-SIG", EncodingUTF8BOM},
		{"utf-8", EncodingUTF8},
		{"utf8", EncodingUTF8},
		{"latin-1", EncodingLatin1},
		{"ISO-8859-1", EncodingLatin1},
		{"cp1252", ""},
	}
	for _, tt := range tests {
		if got := ParseEncoding(tt.in); got != tt.want {
			t.Errorf("ParseEncoding(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseQuotingAndDecimal(t *testing.T) {
	if got := ParseQuoting("NonNumeric"); got != QuoteNonNumeric {
		t.Errorf("ParseQuoting(NonNumeric) = %q", got)
	}
	if got := ParseQuoting("never"); got != "" {
		t.Errorf("ParseQuoting(never) = %q, want empty", got)
	}
	if got := ParseDecimal(","); got != ',' {
		t.Errorf("ParseDecimal(,) = %q", got)
	}
	if got := ParseDecimal(";"); got != 0 {
		t.Errorf("ParseDecimal(;) = %q, want 0", got)
	}
}

func TestDelimiterLabel(t *testing.T) {
	if got := DelimiterLabel('\t'); got != "tab" {
		t.Errorf("DelimiterLabel(tab) = %q", got)
	}
	if got := DelimiterLabel(';'); got != ";" {
		t.Errorf("DelimiterLabel(;) = %q", got)
	}
}
