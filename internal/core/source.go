package core

// source.go abstracts the uploaded file as a seekable byte source.
//
// An upload handle behaves like a single forward cursor: every read consumes
// it. Readers therefore rewind the source before each independent read
// (sheet listing, preview, export) and never write to it.

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// Source is a named, rewindable byte stream.
type Source interface {
	io.ReadSeeker
	Name() string
}

// Format identifies the spreadsheet container format.
type Format string

const (
	FormatUnknown Format = ""
	FormatXLS     Format = "xls"
	FormatXLSX    Format = "xlsx"
)

// Upload is an uploaded spreadsheet held in memory for one session.
type Upload struct {
	name      string
	format    Format
	data      []byte
	createdAt time.Time
}

// NewUpload validates the file extension and wraps data. Files whose
// extension is not .xls or .xlsx are rejected before any parse attempt.
func NewUpload(name string, data []byte) (*Upload, error) {
	format := FormatFromName(name)
	if format == FormatUnknown {
		return nil, newError(KindUnsupportedFormat, "upload",
			fmt.Errorf("%q: only .xls and .xlsx files are accepted", filepath.Base(name)))
	}
	return &Upload{
		name:      name,
		format:    format,
		data:      data,
		createdAt: time.Now(),
	}, nil
}

// FormatFromName maps a file extension (case-insensitive) to a Format.
func FormatFromName(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return FormatXLSX
	case ".xls":
		return FormatXLS
	}
	return FormatUnknown
}

// Name returns the original file name.
func (u *Upload) Name() string { return u.name }

// Format returns the format implied by the file extension.
func (u *Upload) Format() Format { return u.format }

// Size returns the number of bytes uploaded.
func (u *Upload) Size() int { return len(u.data) }

// CreatedAt returns when the upload was received.
func (u *Upload) CreatedAt() time.Time { return u.createdAt }

// Open returns a fresh Source over the upload's bytes.
func (u *Upload) Open() Source {
	return &byteSource{Reader: bytes.NewReader(u.data), name: u.name}
}

type byteSource struct {
	*bytes.Reader
	name string
}

func (s *byteSource) Name() string { return s.name }

// Rewind seeks src back to its first byte.
func Rewind(src Source) error {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind %s: %w", src.Name(), err)
	}
	return nil
}

// readAll rewinds src and returns its full contents, leaving the cursor at
// the start again so the next reader sees the same bytes.
func readAll(src Source) ([]byte, error) {
	if err := Rewind(src); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src.Name(), err)
	}
	if err := Rewind(src); err != nil {
		return nil, err
	}
	return data, nil
}

// sniffFormat inspects the magic bytes of a workbook.
// OLE2 compound documents are .xls; ZIP containers are .xlsx.
func sniffFormat(data []byte) Format {
	if len(data) < 4 {
		return FormatUnknown
	}
	if data[0] == 0xd0 && data[1] == 0xcf && data[2] == 0x11 && data[3] == 0xe0 {
		return FormatXLS
	}
	if data[0] == 0x50 && data[1] == 0x4b && data[2] == 0x03 && data[3] == 0x04 {
		return FormatXLSX
	}
	return FormatUnknown
}
