package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/moh-ammad/exceltovisual/logging"
	"github.com/moh-ammad/exceltovisual/metrics"
	"github.com/moh-ammad/exceltovisual/models"
	"github.com/moh-ammad/exceltovisual/reports"
)

type ReportService struct {
	importer *reports.Importer
	exporter *reports.Exporter
}

func NewReportService(importer *reports.Importer, exporter *reports.Exporter) *ReportService {
	return &ReportService{importer: importer, exporter: exporter}
}

// Export builds the named report. Only my-tasks is open to members.
func (s *ReportService) Export(ctx context.Context, kind reports.ReportKind, actor models.User) (*reports.Report, error) {
	if kind.AdminOnly() && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	report, err := s.exporter.Build(ctx, kind, actor)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s report: %w", kind, err)
	}
	metrics.Exports.WithLabelValues(string(kind)).Inc()
	logging.Logger.Infof("Event ID: REPORT_EXPORTED, Description: %s exported by %s", kind, actor.Email)
	return report, nil
}

// ImportFile reads an uploaded workbook from path and reconciles it. The
// file is removed on every exit path.
func (s *ReportService) ImportFile(ctx context.Context, path string, actor models.User, selfScoped bool) (*reports.ImportResult, error) {
	if path == "" {
		return nil, reports.ErrNoFile
	}
	defer removeUpload(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, reports.ErrNoFile
		}
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return s.Import(ctx, data, actor, selfScoped)
}

// Import reconciles an in-memory workbook.
func (s *ReportService) Import(ctx context.Context, data []byte, actor models.User, selfScoped bool) (*reports.ImportResult, error) {
	if len(data) == 0 {
		return nil, reports.ErrNoFile
	}
	wb, err := reports.ReadWorkbook(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return s.importer.Import(ctx, wb, reports.ImportOptions{Actor: actor, SelfScoped: selfScoped || !actor.IsAdmin()})
}

func removeUpload(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.Logger.Warnf("Event ID: UPLOAD_CLEANUP_FAILED, Description: Could not remove %s: %v", path, err)
	}
}
