package sink

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/uforiaio/network-share-test-helper/internal/domain"
	"github.com/uforiaio/network-share-test-helper/internal/ports"
)

// ReportFileSink writes each report as a JSON file inside a per-session
// directory, so repeated runs never clobber each other's output.
type ReportFileSink struct {
	sessionDir string
}

// NewReportFileSink creates the session directory under root. The
// directory name carries a timestamp and a random suffix.
func NewReportFileSink(root string) (*ReportFileSink, error) {
	name := fmt.Sprintf("session_%s_%04x", time.Now().Format("20060102_150405"), rand.Intn(1<<16))
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &ReportFileSink{sessionDir: dir}, nil
}

func (s *ReportFileSink) Name() string { return "reportfile" }

// SessionDir returns the directory reports are written into.
func (s *ReportFileSink) SessionDir() string { return s.sessionDir }

func (s *ReportFileSink) WriteReport(r *domain.Report) error {
	if r == nil {
		return nil
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	path := filepath.Join(s.sessionDir, fmt.Sprintf("report_%s.json", r.Timestamp.Format("20060102_150405")))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

var _ ports.ReportSink = (*ReportFileSink)(nil)
