package web

import (
	"net/http"
	"time"

	"github.com/JonMunkholm/sheetcsv/internal/core"
	"github.com/JonMunkholm/sheetcsv/internal/logging"
)

type sessionResponse struct {
	SessionID  string    `json:"session_id"`
	Filename   string    `json:"filename"`
	Size       int       `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
	Sheets     []string  `json:"sheets"`
}

type sheetsResponse struct {
	Sheets []string `json:"sheets"`
}

type previewResponse struct {
	Sheet     string     `json:"sheet"`
	Header    []string   `json:"header"`
	Rows      [][]string `json:"rows"`
	Limit     int        `json:"limit"`
	Truncated bool       `json:"truncated"`
}

// handleDefaults returns the default export options.
func (s *Server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, toOptionsResponse(core.DefaultOptions()))
}

// handleCreateSession stores an uploaded workbook and lists its sheets.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	file, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	sess, sheets, err := s.service.Upload(r.Context(), file.SessionID, file.Name, file.Data)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, sessionResponse{
		SessionID:  sess.ID,
		Filename:   sess.Upload.Name(),
		Size:       sess.Upload.Size(),
		UploadedAt: sess.Upload.CreatedAt(),
		Sheets:     sheets,
	})
}

func (s *Server) handleListSheets(w http.ResponseWriter, r *http.Request) {
	r, id := sessionContext(r)

	sheets, err := s.service.Sheets(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sheetsResponse{Sheets: sheets})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	r, id := sessionContext(r)

	table, err := s.service.Preview(r.Context(), id, r.URL.Query().Get("sheet"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	p := previewTable(table, s.service.PreviewRows())
	writeJSON(w, r, http.StatusOK, previewResponse{
		Sheet:     table.Sheet,
		Header:    p.Header,
		Rows:      p.Rows,
		Limit:     p.Limit,
		Truncated: p.Truncated,
	})
}

// handleExport accepts options as JSON or form values and streams the CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	r, id := sessionContext(r)

	req, err := parseExportRequest(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	overrides := req.overrides()

	res, err := s.service.Export(r.Context(), id, req.Sheet, overrides)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeCSV(w, res, core.ResolveOptions(overrides).Encoding)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	r, id := sessionContext(r)

	if !s.service.Discard(id) {
		s.respondError(w, r, core.ErrSessionNotFound)
		return
	}
	logging.FromContext(r.Context()).Info("session discarded")
	w.WriteHeader(http.StatusNoContent)
}
