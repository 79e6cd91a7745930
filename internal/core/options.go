package core

import "strings"

// Encoding names a supported output text encoding.
type Encoding string

const (
	EncodingUTF8BOM Encoding = "utf-8-sig"
	EncodingUTF8    Encoding = "utf-8"
	EncodingLatin1  Encoding = "latin-1"
)

// Quoting controls when a field is wrapped in quote characters.
type Quoting string

const (
	QuoteMinimal    Quoting = "minimal"
	QuoteNonNumeric Quoting = "non-numeric"
	QuoteAll        Quoting = "all"
	QuoteNone       Quoting = "none"
)

// ExportOptions is a fully resolved formatting profile. Every field holds a
// concrete value; use ResolveOptions to build one from user input.
type ExportOptions struct {
	Delimiter     rune
	Encoding      Encoding
	Decimal       rune
	IncludeHeader bool
	Quoting       Quoting
}

// DefaultOptions returns the fixed default profile.
func DefaultOptions() ExportOptions {
	return ExportOptions{
		Delimiter:     ';',
		Encoding:      EncodingUTF8BOM,
		Decimal:       '.',
		IncludeHeader: true,
		Quoting:       QuoteMinimal,
	}
}

// Overrides is the user's form state. Zero values and nil pointers mean
// "left at default".
type Overrides struct {
	Delimiter     rune
	Encoding      Encoding
	Decimal       rune
	IncludeHeader *bool
	Quoting       Quoting
}

// ResolveOptions merges user overrides onto DefaultOptions field by field.
// Values outside the recognized sets are treated as unset.
func ResolveOptions(o Overrides) ExportOptions {
	opts := DefaultOptions()

	if validDelimiter(o.Delimiter) {
		opts.Delimiter = o.Delimiter
	}
	if validEncoding(o.Encoding) {
		opts.Encoding = o.Encoding
	}
	if validDecimal(o.Decimal) {
		opts.Decimal = o.Decimal
	}
	if o.IncludeHeader != nil {
		opts.IncludeHeader = *o.IncludeHeader
	}
	if validQuoting(o.Quoting) {
		opts.Quoting = o.Quoting
	}

	return opts
}

// ParseDelimiter accepts ";", ",", "\t", "tab" and "x09".
// Returns 0 for anything else.
func ParseDelimiter(s string) rune {
	switch strings.ToLower(s) {
	case ";":
		return ';'
	case ",":
		return ','
	case "\t", "tab", "\\t", "x09":
		return '\t'
	}
	return 0
}

// ParseEncoding normalizes common spellings of the supported encodings.
// Returns "" for anything else.
func ParseEncoding(s string) Encoding {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "utf-8-sig", "utf8-sig", "utf_8_sig":
		return EncodingUTF8BOM
	case "utf-8", "utf8", "utf_8":
		return EncodingUTF8
	case "latin-1", "latin1", "latin_1", "iso-8859-1", "iso8859-1":
		return EncodingLatin1
	}
	return ""
}

// ParseDecimal accepts "." and ",". Returns 0 for anything else.
func ParseDecimal(s string) rune {
	switch strings.TrimSpace(s) {
	case ".":
		return '.'
	case ",":
		return ','
	}
	return 0
}

// ParseQuoting accepts the quoting mode names, with or without the hyphen.
// Returns "" for anything else.
func ParseQuoting(s string) Quoting {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minimal":
		return QuoteMinimal
	case "non-numeric", "nonnumeric", "non_numeric":
		return QuoteNonNumeric
	case "all":
		return QuoteAll
	case "none":
		return QuoteNone
	}
	return ""
}

func validDelimiter(r rune) bool {
	return r == ';' || r == ',' || r == '\t'
}

func validEncoding(e Encoding) bool {
	return e == EncodingUTF8BOM || e == EncodingUTF8 || e == EncodingLatin1
}

func validDecimal(r rune) bool {
	return r == '.' || r == ','
}

func validQuoting(q Quoting) bool {
	switch q {
	case QuoteMinimal, QuoteNonNumeric, QuoteAll, QuoteNone:
		return true
	}
	return false
}

// DelimiterLabel returns the form value for a delimiter.
func DelimiterLabel(r rune) string {
	if r == '\t' {
		return "tab"
	}
	return string(r)
}
