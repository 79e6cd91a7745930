package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/sheetcsv/internal/config"
	"github.com/JonMunkholm/sheetcsv/internal/logging"
)

// DefaultPreviewRows is the number of data rows shown in a preview.
const DefaultPreviewRows = 200

// Service is the entry point for every user action: upload, sheet listing,
// preview and export. It holds no state besides the session store.
type Service struct {
	sessions    *SessionStore
	limiter     *Limiter
	previewRows int

	now func() time.Time
}

// NewService creates a Service from configuration.
func NewService(cfg *config.Config) *Service {
	previewRows := cfg.Preview.Rows
	if previewRows <= 0 {
		previewRows = DefaultPreviewRows
	}
	return &Service{
		sessions:    NewSessionStore(cfg.Session.TTL, cfg.Session.MaxSessions),
		limiter:     NewLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
		previewRows: previewRows,
		now:         time.Now,
	}
}

// PreviewRows returns the preview row cap.
func (s *Service) PreviewRows() int { return s.previewRows }

// Upload validates and stores a file. An empty or expired sessionID starts a
// new session; otherwise the session's previous upload is replaced. The file
// is opened once to list its sheets, so unreadable files are rejected here.
func (s *Service) Upload(ctx context.Context, sessionID, name string, data []byte) (Session, []string, error) {
	log := logging.WithFields(ctx, "file", name)

	u, err := NewUpload(name, data)
	if err != nil {
		log.Info("upload rejected", "bytes", len(data), "error", err)
		return Session{}, nil, err
	}
	log = log.With("bytes", u.Size())

	sheets, err := s.sheetNames(ctx, u)
	if err != nil {
		return Session{}, nil, err
	}

	sess, err := s.sessions.Replace(sessionID, u)
	if err != nil {
		sess = s.sessions.Create(u)
	}

	log.Info("upload stored", "session_id", sess.ID, "format", u.Format(), "sheets", len(sheets))
	return sess, sheets, nil
}

// Session returns the session with the given id.
func (s *Service) Session(id string) (Session, error) {
	return s.sessions.Get(id)
}

// Sheets lists the sheet names of a session's upload in file order.
func (s *Service) Sheets(ctx context.Context, sessionID string) ([]string, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sheetNames(ctx, sess.Upload)
}

// Preview reads at most PreviewRows data rows of sheet. An empty sheet name
// selects the first sheet in file order. Failures are preview errors: the
// caller may still attempt an export.
func (s *Service) Preview(ctx context.Context, sessionID, sheet string) (*Table, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	var table *Table
	err = s.withWorkbook(ctx, sess.Upload, func(wb Workbook) error {
		var err error
		table, err = wb.ReadTable(sheet, s.previewRows)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrTooManyConversions) || ctx.Err() != nil {
			return nil, err
		}
		return nil, newError(KindPreview, "preview", err)
	}
	return table, nil
}

// Export reads the whole sheet and serializes it with the resolved options.
func (s *Service) Export(ctx context.Context, sessionID, sheet string, overrides Overrides) (*ExportResult, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	opts := ResolveOptions(overrides)

	var result *ExportResult
	err = s.withWorkbook(ctx, sess.Upload, func(wb Workbook) error {
		table, err := wb.ReadTable(sheet, 0)
		if err != nil {
			return newError(KindRead, "export", err)
		}
		result, err = Export(table, opts, sess.Upload.Name(), s.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("export completed",
		"filename", result.Filename,
		"bytes", len(result.Data),
		"delimiter", DelimiterLabel(opts.Delimiter),
		"encoding", opts.Encoding,
		"quoting", opts.Quoting,
	)
	return result, nil
}

// Discard drops a session and its upload.
func (s *Service) Discard(sessionID string) bool {
	return s.sessions.Delete(sessionID)
}

// StartSessionSweeper removes idle sessions until ctx is cancelled.
func (s *Service) StartSessionSweeper(ctx context.Context, interval time.Duration) {
	s.sessions.Run(ctx, interval)
}

// WaitForConversions blocks until in-flight conversions finish.
func (s *Service) WaitForConversions(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// Status reports limiter and session counts for health checks.
type Status struct {
	Conversions LimiterStatus `json:"conversions"`
	Sessions    int           `json:"sessions"`
}

// Status returns a snapshot of the service state.
func (s *Service) Status() Status {
	return Status{
		Conversions: s.limiter.Status(),
		Sessions:    s.sessions.Len(),
	}
}

func (s *Service) sheetNames(ctx context.Context, u *Upload) ([]string, error) {
	var names []string
	err := s.withWorkbook(ctx, u, func(wb Workbook) error {
		names = append([]string(nil), wb.SheetNames()...)
		return nil
	})
	return names, err
}

// withWorkbook opens a fresh source over u under a limiter slot and calls fn.
// Open failures and parser panics become read errors.
func (s *Service) withWorkbook(ctx context.Context, u *Upload, fn func(Workbook) error) (err error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return err
	}
	defer s.limiter.Release()

	defer func() {
		if r := recover(); r != nil {
			logging.FromContext(ctx).Error("panic while reading workbook",
				"file", u.Name(),
				"panic", r,
			)
			err = newError(KindRead, "read", fmt.Errorf("workbook could not be parsed: %v", r))
		}
	}()

	wb, err := OpenWorkbook(u.Open(), u.Format())
	if err != nil {
		return newError(KindRead, "read", err)
	}
	defer wb.Close()

	return fn(wb)
}
