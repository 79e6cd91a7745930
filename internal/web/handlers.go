package web

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/sheetcsv/internal/core"
	"github.com/JonMunkholm/sheetcsv/internal/logging"
	"github.com/JonMunkholm/sheetcsv/internal/web/templates"
)

// render writes a component with the given status.
func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render failed", "error", err)
	}
}

// sessionContext attaches the URL's session id to the request context for logging.
func sessionContext(r *http.Request) (*http.Request, string) {
	id := chi.URLParam(r, "sessionID")
	return r.WithContext(logging.WithSession(r.Context(), id)), id
}

func (s *Server) uploadPageData(alert *templates.Alert) templates.UploadPageData {
	return templates.UploadPageData{
		MaxFileSizeMB: s.cfg.Upload.MaxFileSize >> 20,
		Error:         alert,
	}
}

// renderUploadError re-renders the landing page with an error alert.
func (s *Server) renderUploadError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	alert := toAlert(err)
	logError(r, err, status, alert.Code)
	render(w, r, status, templates.UploadPage(s.uploadPageData(alert)))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	templ.Handler(templates.UploadPage(s.uploadPageData(nil))).ServeHTTP(w, r)
}

func (s *Server) handleUploadPage(w http.ResponseWriter, r *http.Request) {
	file, err := s.readUpload(w, r)
	if err != nil {
		s.renderUploadError(w, r, err)
		return
	}

	sess, _, err := s.service.Upload(r.Context(), file.SessionID, file.Name, file.Data)
	if err != nil {
		s.renderUploadError(w, r, err)
		return
	}

	http.Redirect(w, r, "/s/"+sess.ID, http.StatusSeeOther)
}

func (s *Server) handleWorkbook(w http.ResponseWriter, r *http.Request) {
	r, id := sessionContext(r)
	s.renderWorkbook(w, r, id, r.URL.Query().Get("sheet"), core.DefaultOptions(), nil)
}

// renderWorkbook renders the workbook page. A non-nil pageErr is shown at the
// top of the page and sets the response status.
func (s *Server) renderWorkbook(w http.ResponseWriter, r *http.Request, id, sheet string, opts core.ExportOptions, pageErr error) {
	ctx := r.Context()

	sess, err := s.service.Session(id)
	if err != nil {
		s.renderUploadError(w, r, err)
		return
	}
	sheets, err := s.service.Sheets(ctx, id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	sheet = pickSheet(sheets, sheet)

	data := templates.WorkbookPageData{
		SessionID: id,
		Filename:  sess.Upload.Name(),
		Sheets:    sheets,
		Sheet:     sheet,
		Options:   optionsForm(opts),
	}

	table, err := s.service.Preview(ctx, id, sheet)
	if err != nil {
		alert := toAlert(err)
		logError(r, err, statusFor(err), alert.Code)
		data.PreviewError = alert
	} else {
		data.Preview = previewTable(table, s.service.PreviewRows())
	}

	status := http.StatusOK
	if pageErr != nil {
		status = statusFor(pageErr)
		data.Error = toAlert(pageErr)
		logError(r, pageErr, status, data.Error.Code)
	}
	render(w, r, status, templates.WorkbookPage(data))
}

func (s *Server) handleExportPage(w http.ResponseWriter, r *http.Request) {
	r, id := sessionContext(r)

	req, err := parseExportRequest(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	overrides := req.overrides()

	res, err := s.service.Export(r.Context(), id, req.Sheet, overrides)
	if err != nil {
		if errors.Is(err, core.ErrSessionNotFound) {
			s.renderUploadError(w, r, err)
			return
		}
		s.renderWorkbook(w, r, id, req.Sheet, core.ResolveOptions(overrides), err)
		return
	}

	writeCSV(w, res, core.ResolveOptions(overrides).Encoding)
}

func (s *Server) handleDiscardPage(w http.ResponseWriter, r *http.Request) {
	r, id := sessionContext(r)
	if s.service.Discard(id) {
		logging.FromContext(r.Context()).Info("session discarded")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// pickSheet returns sheet when it exists, otherwise the first sheet.
func pickSheet(sheets []string, sheet string) string {
	for _, name := range sheets {
		if name == sheet {
			return sheet
		}
	}
	if len(sheets) > 0 {
		return sheets[0]
	}
	return ""
}

// previewTable converts a parsed table to display strings. Numbers use '.'
// since the preview shows raw values.
func previewTable(t *core.Table, limit int) *templates.PreviewTable {
	p := &templates.PreviewTable{
		Header:    t.HeaderNames(),
		Rows:      make([][]string, len(t.Rows)),
		Numeric:   make([][]bool, len(t.Rows)),
		Limit:     limit,
		Truncated: t.Truncated,
	}
	for i, row := range t.Rows {
		p.Rows[i] = make([]string, len(row))
		p.Numeric[i] = make([]bool, len(row))
		for j, c := range row {
			p.Rows[i][j] = c.String()
			p.Numeric[i][j] = c.IsNumeric()
		}
	}
	return p
}
