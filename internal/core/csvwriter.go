package core

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// delimitedWriter serializes rows of fields with a configurable delimiter
// and quoting mode. encoding/csv only knows minimal quoting, so the
// non-numeric, all and none modes need their own writer.
type delimitedWriter struct {
	buf            bytes.Buffer
	delimiter      rune
	quoting        Quoting
	lineTerminator string
}

var errNeedsQuoting = errors.New("needs quoting but quoting mode is none")

type field struct {
	text      string
	isNumeric bool
}

func newDelimitedWriter(delimiter rune, quoting Quoting) *delimitedWriter {
	return &delimitedWriter{
		delimiter:      delimiter,
		quoting:        quoting,
		lineTerminator: "\n",
	}
}

// writeRow appends one record. rowIndex is only used in error messages.
func (w *delimitedWriter) writeRow(fields []field, rowIndex int) error {
	// A lone empty field would read back as a blank line.
	if len(fields) == 1 && fields[0].text == "" && w.quoting != QuoteNone {
		w.buf.WriteString(`""`)
		w.buf.WriteString(w.lineTerminator)
		return nil
	}

	for i, f := range fields {
		if i > 0 {
			w.buf.WriteRune(w.delimiter)
		}
		if w.needsQuote(f) {
			w.buf.WriteByte('"')
			w.buf.WriteString(strings.ReplaceAll(f.text, `"`, `""`))
			w.buf.WriteByte('"')
			continue
		}
		if w.quoting == QuoteNone && w.special(f.text) {
			return fmt.Errorf("row %d column %d: value %q %w", rowIndex, i+1, truncate(f.text, 40), errNeedsQuoting)
		}
		w.buf.WriteString(f.text)
	}
	w.buf.WriteString(w.lineTerminator)
	return nil
}

func (w *delimitedWriter) needsQuote(f field) bool {
	switch w.quoting {
	case QuoteAll:
		return true
	case QuoteNonNumeric:
		return !f.isNumeric
	case QuoteMinimal:
		return w.special(f.text)
	default:
		return false
	}
}

// special reports whether s cannot be written bare.
func (w *delimitedWriter) special(s string) bool {
	return strings.ContainsRune(s, w.delimiter) || strings.ContainsAny(s, "\"\r\n")
}

func (w *delimitedWriter) String() string {
	return w.buf.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
