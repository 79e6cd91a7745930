// Package templates renders the HTML pages of the converter as templ
// components.
package templates

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// Alert is a user-facing message with a suggested action and support code.
type Alert struct {
	Message string
	Action  string
	Code    string
}

// Choice is one <option> of a select.
type Choice struct {
	Value string
	Label string
}

// DelimiterChoices, EncodingChoices, DecimalChoices and QuotingChoices are
// the values offered by the options form.
var (
	DelimiterChoices = []Choice{{";", "Semicolon (;)"}, {",", "Comma (,)"}, {"tab", "Tab"}}
	EncodingChoices  = []Choice{{"utf-8-sig", "UTF-8 with BOM (Excel)"}, {"utf-8", "UTF-8"}, {"latin-1", "Latin-1"}}
	DecimalChoices   = []Choice{{".", "Dot (.)"}, {",", "Comma (,)"}}
	QuotingChoices   = []Choice{{"minimal", "Minimal"}, {"non-numeric", "Non-numeric"}, {"all", "All"}, {"none", "None"}}
)

// OptionsForm is the state of the export options form.
type OptionsForm struct {
	Delimiter     string
	Encoding      string
	Decimal       string
	IncludeHeader bool
	Quoting       string
}

// PreviewTable is a rendered slice of a sheet.
type PreviewTable struct {
	Header    []string
	Rows      [][]string
	Numeric   [][]bool
	Limit     int
	Truncated bool
}

// UploadPageData drives the landing page.
type UploadPageData struct {
	MaxFileSizeMB int64
	Error         *Alert
}

// WorkbookPageData drives the page for one uploaded workbook.
type WorkbookPageData struct {
	SessionID    string
	Filename     string
	Sheets       []string
	Sheet        string
	Preview      *PreviewTable
	PreviewError *Alert
	Error        *Alert
	Options      OptionsForm
}

// sessionURL builds the path of a session page, e.g. /s/{id}/export.
func sessionURL(id string, parts ...string) templ.SafeURL {
	p := "/s/" + url.PathEscape(id)
	if len(parts) > 0 {
		p += "/" + strings.Join(parts, "/")
	}
	return templ.SafeURL(p)
}

// sizeLimit renders the upload limit for the file picker caption.
func sizeLimit(mb int64) string {
	if mb <= 0 {
		return ""
	}
	return ", up to " + strconv.FormatInt(mb, 10) + " MB"
}

func numericCell(p *PreviewTable, row, col int) bool {
	return row < len(p.Numeric) && col < len(p.Numeric[row]) && p.Numeric[row][col]
}
