package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

const (
	mimeCSV   = "text/csv"
	mimeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF   = "application/pdf"
)

// ReportExporter renders report rows as a downloadable file.
type ReportExporter interface {
	Export(reportType, format string, data ReportData, at time.Time) ([]byte, string, string, error)
}

type reportExporter struct{}

func NewReportExporter() ReportExporter {
	return &reportExporter{}
}

// Export returns the file bytes, its filename and its MIME type.
func (e *reportExporter) Export(reportType, format string, data ReportData, at time.Time) ([]byte, string, string, error) {
	var header []string
	var records [][]string
	var title string

	switch reportType {
	case ReportTypeRegistrations:
		title = "Student Registrations Report"
		header, records = registrationTable(data.Registrations)
	case ReportTypeEvents:
		title = "Events Report"
		header, records = eventTable(data.Events)
	default:
		return nil, "", "", fmt.Errorf("unsupported report type: %s", reportType)
	}

	base := fmt.Sprintf("%s_report_%s", reportType, at.UTC().Format("20060102_150405"))

	switch format {
	case FormatCSV:
		b, err := writeCSV(header, records)
		return b, base + ".csv", mimeCSV, err
	case FormatExcel:
		b, err := writeExcel(title, header, records)
		return b, base + ".xlsx", mimeExcel, err
	case FormatPDF:
		b, err := writePDF(title, header, records, at)
		return b, base + ".pdf", mimePDF, err
	default:
		return nil, "", "", fmt.Errorf("unsupported format: %s", format)
	}
}

//// ============================
/// TABLES
//// ============================

func registrationTable(rows []RegistrationReportRow) ([]string, [][]string) {
	header := []string{"Name", "Email", "Department", "Event", "Event Date", "Registered On", "Status"}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Name,
			r.Email,
			r.Department,
			r.EventTitle,
			formatDate(r.EventDate),
			r.RegisteredAt.UTC().Format("2006-01-02 15:04"),
			r.Status,
		})
	}
	return header, records
}

func eventTable(rows []EventReportRow) ([]string, [][]string) {
	header := []string{"Title", "Category", "Date", "Time", "Location", "Capacity", "Registered", "Selected", "Active", "Created By"}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Title,
			r.Category,
			formatDate(r.Date),
			r.StartTime + "-" + r.EndTime,
			r.Location,
			strconv.Itoa(r.MaxParticipants),
			strconv.Itoa(r.Registered),
			strconv.FormatInt(r.Selected, 10),
			strconv.FormatBool(r.IsActive),
			r.CreatedBy,
		})
	}
	return header, records
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

//// ============================
/// WRITERS
//// ============================

func writeCSV(header []string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(header); err != nil {
		return nil, err
	}
	if err := writer.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeExcel(title string, header []string, records [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Report"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}
	_ = f.SetDocProps(&excelize.DocProperties{Title: title})

	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, err
	}
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := rec
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writePDF(title string, header []string, records [][]string, at time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, title)
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 8, fmt.Sprintf("Generated on: %s    Total Records: %d", at.UTC().Format("2006-01-02"), len(records)))
	pdf.Ln(12)

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	width := (pageWidth - left - right) / float64(len(header))

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(139, 106, 58)
	pdf.SetTextColor(255, 255, 255)
	for _, h := range header {
		pdf.CellFormat(width, 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(250, 246, 243)
	for i, rec := range records {
		for _, v := range rec {
			pdf.CellFormat(width, 6, truncate(v, 28), "1", 0, "L", i%2 == 0, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
