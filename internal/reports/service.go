package reports

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/vibra-events/vibra-backend/internal/auditlog"
)

var (
	ErrUnknownReportType = errors.New("Unknown report type")
	ErrUnknownFormat     = errors.New("Unknown export format")
)

type ReportService interface {
	Export(ctx context.Context, req ReportRequest, adminID uint, ip string) ([]byte, string, string, error)
}

type reportService struct {
	repo     ReportRepository
	exporter ReportExporter
	auditSvc auditlog.Service
	now      func() time.Time
}

func NewReportService(repo ReportRepository, exporter ReportExporter, auditSvc auditlog.Service) ReportService {
	return &reportService{repo: repo, exporter: exporter, auditSvc: auditSvc, now: time.Now}
}

// Export loads the rows for req.Type and renders them in req.Format.
func (s *reportService) Export(ctx context.Context, req ReportRequest, adminID uint, ip string) ([]byte, string, string, error) {
	switch req.Format {
	case FormatCSV, FormatExcel, FormatPDF:
	default:
		return nil, "", "", ErrUnknownFormat
	}

	var data ReportData
	var err error
	switch req.Type {
	case ReportTypeRegistrations:
		data.Registrations, err = s.repo.GetRegistrations(ctx, req.From, req.To)
	case ReportTypeEvents:
		data.Events, err = s.repo.GetEvents(ctx, req.From, req.To)
	default:
		return nil, "", "", ErrUnknownReportType
	}
	if err != nil {
		return nil, "", "", err
	}

	out, filename, mime, err := s.exporter.Export(req.Type, req.Format, data, s.now())
	if err != nil {
		return nil, "", "", err
	}

	if s.auditSvc != nil {
		details := map[string]interface{}{
			"report_type": req.Type,
			"format":      req.Format,
			"rows":        len(data.Registrations) + len(data.Events),
		}
		if err := s.auditSvc.LogAction(ctx, auditlog.Entry{
			UserID:  auditlog.Ptr(adminID),
			Action:  "REPORT_EXPORTED",
			Details: details,
			IP:      ip,
		}); err != nil {
			log.Printf("⚠️ report audit: %v", err)
		}
	}
	return out, filename, mime, nil
}
