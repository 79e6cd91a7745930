package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "unsupported format maps by kind",
			err:         newError(KindUnsupportedFormat, "upload", errors.New(`"notes.txt": only .xls and .xlsx files are accepted`)),
			wantCode:    "FILE002",
			wantMessage: "Unsupported file format",
		},
		{
			name:        "read error maps by kind",
			err:         newError(KindRead, "read", errors.New("open xlsx: zip: not a valid zip file")),
			wantCode:    "XLS001",
			wantMessage: "The workbook could not be read",
		},
		{
			name:        "extension mismatch beats read kind",
			err:         newError(KindRead, "read", fmt.Errorf("%w: content is xlsx but the name says .xls", errContentMismatch)),
			wantCode:    "XLS002",
			wantMessage: "The file content does not match its extension",
		},
		{
			name:        "missing sheet",
			err:         newError(KindPreview, "preview", fmt.Errorf("%w: %q", errSheetNotFound, "Nope")),
			wantCode:    "XLS003",
			wantMessage: "The selected sheet does not exist in this workbook",
		},
		{
			name:        "preview error maps by kind",
			err:         newError(KindPreview, "preview", errors.New("row 12: bad cell")),
			wantCode:    "PRV001",
			wantMessage: "The preview could not be generated",
		},
		{
			name:        "empty sheet is a format error",
			err:         newError(KindFormat, "export", errors.New("sheet has no rows to export")),
			wantCode:    "EXP002",
			wantMessage: "The selected sheet has nothing to export",
		},
		{
			name:        "quoting none with special character",
			err:         newError(KindExport, "export", fmt.Errorf(`row 2 column 1: value "a;b" %w`, errNeedsQuoting)),
			wantCode:    "EXP003",
			wantMessage: "A value contains the delimiter, a quote or a line break and cannot be written without quotes",
		},
		{
			name:        "expired session",
			err:         newError(KindNotFound, "", errors.New(`session "abc"`)),
			wantCode:    "SES001",
			wantMessage: "Your upload has expired",
		},
		{
			name:        "busy limiter",
			err:         ErrTooManyConversions,
			wantCode:    "UPL002",
			wantMessage: "Too many conversions in progress",
		},
		{
			name:        "cancelled request",
			err:         context.Canceled,
			wantCode:    "UPL004",
			wantMessage: "Request was cancelled",
		},
		{
			name:        "file too large maps correctly",
			err:         errors.New("http: request body too large"),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the maximum upload size",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "empty upload",
			err:         newError(KindRead, "read", errEmptyFile),
			wantCode:    "FILE004",
			wantMessage: "The uploaded file is empty",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("Rate Limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "quoted cell text does not select a pattern",
			err:         newError(KindExport, "export", fmt.Errorf(`row 3 column 2: value "file too large" %w`, errNeedsQuoting)),
			wantCode:    "EXP003",
			wantMessage: "A value contains the delimiter, a quote or a line break and cannot be written without quotes",
		},
		{
			name:        "sheet name mentioning rate limit keeps the kind",
			err:         newError(KindRead, "read", fmt.Errorf(`read sheet "rate limit": %w`, errors.New("bad record"))),
			wantCode:    "XLS001",
			wantMessage: "The workbook could not be read",
		},
		{
			name:        "deadline wrapped in a preview error",
			err:         fmt.Errorf("preview: %w", context.DeadlineExceeded),
			wantCode:    "UPL005",
			wantMessage: "Request timed out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestErrorKinds(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", newError(KindFormat, "export", errors.New("sheet has no rows to export")))

	if !errors.Is(wrapped, ErrFormat) {
		t.Error("wrapped format error should match ErrFormat")
	}
	if !errors.Is(wrapped, ErrExport) {
		t.Error("format error should match ErrExport")
	}
	if errors.Is(wrapped, ErrRead) {
		t.Error("format error should not match ErrRead")
	}
	if errors.Is(newError(KindExport, "export", nil), ErrFormat) {
		t.Error("export error should not match ErrFormat")
	}
	if got := KindOf(wrapped); got != KindFormat {
		t.Errorf("KindOf = %v, want %v", got, KindFormat)
	}
	if got := KindOf(errors.New("plain")); got != KindUnknown {
		t.Errorf("KindOf(plain) = %v, want unknown", got)
	}

	e := newError(KindRead, "read", errors.New("boom"))
	if e.Error() != "read: read error: boom" {
		t.Errorf("Error() = %q", e.Error())
	}
}
