package web

// errors.go provides unified error response handling for the web layer.
//
// It ensures all errors are:
//   - Logged with full technical details for debugging (server-side)
//   - Returned to clients as user-friendly messages with action suggestions
//   - Formatted appropriately based on request type (HTMX, JSON, or HTML)
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err)
//  3. The status code is derived from the error kind via statusFor
//  4. Error is mapped via core.MapError to get user-friendly message
//  5. User message is rendered in appropriate format for the client

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/sheetcsv/internal/core"
	"github.com/JonMunkholm/sheetcsv/internal/logging"
	"github.com/JonMunkholm/sheetcsv/internal/web/templates"
)

var (
	errNoFile       = errors.New("no file provided")
	errFileTooLarge = errors.New("file too large")
	errRateLimited  = errors.New("rate limit exceeded")
	errBadRequest   = errors.New("invalid request body")
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor maps an error to its HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errNoFile), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, errFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, core.ErrTooManyConversions), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}

	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return http.StatusRequestEntityTooLarge
	}

	switch core.KindOf(err) {
	case core.KindUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case core.KindNotFound:
		return http.StatusNotFound
	case core.KindRead, core.KindPreview, core.KindExport, core.KindFormat:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// toAlert converts an error to the template alert shown to users.
func toAlert(err error) *templates.Alert {
	msg := core.MapError(err)
	return &templates.Alert{Message: msg.Message, Action: msg.Action, Code: msg.Code}
}

// logError logs the technical error behind a user-facing response.
// Server faults log at error level, user mistakes at warn.
func logError(r *http.Request, err error, status int, code string) {
	level := slog.LevelWarn
	if status >= 500 {
		level = slog.LevelError
	}
	logging.FromContext(r.Context()).Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", code,
	)
}

// respondError handles error responses with user-friendly messages.
// It logs the technical error server-side and returns an appropriate response
// based on the request type (HTMX, JSON, or HTML).
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := statusFor(err)
	userMsg := core.MapError(err)

	logError(r, err, statusCode, userMsg.Code)

	if isHTMX(r) {
		renderErrorPartial(w, r, userMsg, statusCode)
	} else if wantsJSON(r) {
		respondErrorJSON(w, userMsg, statusCode)
	} else {
		respondErrorHTML(w, r, userMsg, statusCode)
	}
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondErrorHTML writes a full error page.
func respondErrorHTML(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	templates.Layout("Error", templates.ErrorAlert(msg.Message, msg.Action, msg.Code)).Render(r.Context(), w)
}

// renderErrorPartial renders an HTMX-compatible error fragment.
func renderErrorPartial(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w)
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}

	// API routes default to JSON
	return strings.HasPrefix(r.URL.Path, "/api/")
}
