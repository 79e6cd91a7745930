package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/JonMunkholm/sheetcsv/internal/core"
	"github.com/JonMunkholm/sheetcsv/internal/web/templates"
)

// multipartOverhead leaves room for boundaries and the other form fields on
// top of the file size limit.
const multipartOverhead = 1 << 20

// uploadedFile is a file read from a multipart request.
type uploadedFile struct {
	Name      string
	Data      []byte
	SessionID string
}

// readUpload reads the "file" field of a multipart request, enforcing the
// configured size limit. An optional "session_id" field selects the session
// whose upload is replaced.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*uploadedFile, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, fmt.Errorf("%w: %w", errFileTooLarge, err)
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, errNoFile
		}
		return nil, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, errNoFile
		}
		return nil, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	defer file.Close()

	if header.Size > maxSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", errFileTooLarge, header.Size, maxSize)
	}

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read upload: %w", errBadRequest, err)
	}
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%w: exceeds limit of %d bytes", errFileTooLarge, maxSize)
	}

	return &uploadedFile{
		Name:      header.Filename,
		Data:      data,
		SessionID: r.FormValue("session_id"),
	}, nil
}

// exportRequest carries the user's export choices. Empty fields fall back
// to the defaults.
type exportRequest struct {
	Sheet         string `json:"sheet"`
	Delimiter     string `json:"delimiter"`
	Encoding      string `json:"encoding"`
	Decimal       string `json:"decimal"`
	IncludeHeader *bool  `json:"include_header"`
	Quoting       string `json:"quoting"`
}

// parseExportRequest reads export options from a JSON body or form values.
func parseExportRequest(r *http.Request) (exportRequest, error) {
	var req exportRequest

	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		dec := json.NewDecoder(io.LimitReader(r.Body, 64<<10))
		if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			return req, fmt.Errorf("%w: %w", errBadRequest, err)
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return req, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	req.Sheet = r.FormValue("sheet")
	req.Delimiter = r.FormValue("delimiter")
	req.Encoding = r.FormValue("encoding")
	req.Decimal = r.FormValue("decimal")
	req.Quoting = r.FormValue("quoting")

	// The page posts a hidden "false" before the checkbox, so the last value wins.
	if values := r.Form["header"]; len(values) > 0 {
		if b, err := strconv.ParseBool(values[len(values)-1]); err == nil {
			req.IncludeHeader = &b
		}
	}
	return req, nil
}

// overrides converts the request to core overrides. Unrecognized values
// are left unset.
func (req exportRequest) overrides() core.Overrides {
	return core.Overrides{
		Delimiter:     core.ParseDelimiter(req.Delimiter),
		Encoding:      core.ParseEncoding(req.Encoding),
		Decimal:       core.ParseDecimal(req.Decimal),
		IncludeHeader: req.IncludeHeader,
		Quoting:       core.ParseQuoting(req.Quoting),
	}
}

// optionsForm renders resolved options back into the page form.
func optionsForm(o core.ExportOptions) templates.OptionsForm {
	return templates.OptionsForm{
		Delimiter:     core.DelimiterLabel(o.Delimiter),
		Encoding:      string(o.Encoding),
		Decimal:       string(o.Decimal),
		IncludeHeader: o.IncludeHeader,
		Quoting:       string(o.Quoting),
	}
}

// optionsResponse is the JSON form of export options.
type optionsResponse struct {
	Delimiter     string `json:"delimiter"`
	Encoding      string `json:"encoding"`
	Decimal       string `json:"decimal"`
	IncludeHeader bool   `json:"include_header"`
	Quoting       string `json:"quoting"`
}

func toOptionsResponse(o core.ExportOptions) optionsResponse {
	f := optionsForm(o)
	return optionsResponse{
		Delimiter:     f.Delimiter,
		Encoding:      f.Encoding,
		Decimal:       f.Decimal,
		IncludeHeader: f.IncludeHeader,
		Quoting:       f.Quoting,
	}
}

// writeCSV sends an export as a file download.
func writeCSV(w http.ResponseWriter, res *core.ExportResult, enc core.Encoding) {
	charset := "utf-8"
	if enc == core.EncodingLatin1 {
		charset = "iso-8859-1"
	}
	w.Header().Set("Content-Type", res.MIMEType+"; charset="+charset)
	w.Header().Set("Content-Disposition", contentDisposition(res.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(res.Data)
}

// contentDisposition builds an attachment header. Non-ASCII names get an
// ASCII fallback plus an RFC 5987 filename* parameter.
func contentDisposition(name string) string {
	ascii := strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, name)

	v := `attachment; filename="` + ascii + `"`
	if ascii != name {
		v += "; filename*=UTF-8''" + url.PathEscape(name)
	}
	return v
}
