package ports

import "github.com/uforiaio/network-share-test-helper/internal/domain"

// ReportSink persists one analysis report.
type ReportSink interface {
	WriteReport(report *domain.Report) error
	Name() string
}
