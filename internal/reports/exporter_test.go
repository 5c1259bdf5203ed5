package reports

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

var exportAt = time.Date(2030, 2, 1, 9, 30, 0, 0, time.UTC)

func sampleData() ReportData {
	return ReportData{
		Registrations: []RegistrationReportRow{
			{Name: "Asha", Email: "asha@college.edu", Department: "CSE", EventTitle: "Hackathon", EventDate: exportAt, RegisteredAt: exportAt, Status: StatusSelected},
			{Name: "Ravi, Jr", Email: "ravi@college.edu", Department: "ECE", EventTitle: "Event Deleted", RegisteredAt: exportAt, Status: StatusRegistered},
		},
		Events: []EventReportRow{
			{Title: "Hackathon", Category: "workshop", Date: exportAt, StartTime: "09:00", EndTime: "17:00", Location: "Main Hall", MaxParticipants: 50, Registered: 2, Selected: 1, IsActive: true, CreatedBy: "Admin"},
		},
	}
}

func TestExportRegistrationsCSV(t *testing.T) {
	out, name, mime, err := NewReportExporter().Export(ReportTypeRegistrations, FormatCSV, sampleData(), exportAt)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if name != "registrations_report_20300201_093000.csv" || mime != "text/csv" {
		t.Fatalf("name/mime = %s %s", name, mime)
	}
	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want header + 2", len(records))
	}
	if records[0][0] != "Name" || records[2][0] != "Ravi, Jr" || records[2][4] != "" || records[1][6] != StatusSelected {
		t.Fatalf("records = %v", records)
	}
}

func TestExportEventsExcel(t *testing.T) {
	out, name, _, err := NewReportExporter().Export(ReportTypeEvents, FormatExcel, sampleData(), exportAt)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.HasSuffix(name, ".xlsx") {
		t.Fatalf("name = %s", name)
	}
	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Report")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 2 || rows[0][0] != "Title" || rows[1][0] != "Hackathon" || rows[1][6] != "2" {
		t.Fatalf("rows = %v", rows)
	}
}

func TestExportPDF(t *testing.T) {
	out, _, mime, err := NewReportExporter().Export(ReportTypeRegistrations, FormatPDF, sampleData(), exportAt)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if mime != "application/pdf" || !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("not a pdf: %s %q", mime, out[:8])
	}
}

func TestExportRejectsUnknownInputs(t *testing.T) {
	if _, _, _, err := NewReportExporter().Export("donations", FormatCSV, ReportData{}, exportAt); err == nil {
		t.Fatal("expected error for unknown type")
	}
	if _, _, _, err := NewReportExporter().Export(ReportTypeEvents, "docx", ReportData{}, exportAt); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestGetDateRange(t *testing.T) {
	now := time.Date(2030, 5, 15, 18, 0, 0, 0, time.UTC)

	from, to, err := GetDateRange("", "", "", now)
	if err != nil || from != nil || to != nil {
		t.Fatalf("empty range = %v %v %v", from, to, err)
	}

	from, to, err = GetDateRange(DateRangeMonthly, "", "", now)
	if err != nil {
		t.Fatal(err)
	}
	if !from.Equal(time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC)) || to.Month() != time.May || to.Day() != 31 {
		t.Fatalf("monthly = %v..%v", from, to)
	}

	from, to, err = GetDateRange(DateRangeCustom, "2030-01-01", "2030-01-01", now)
	if err != nil {
		t.Fatal(err)
	}
	if !to.After(*from) || to.Day() != 1 {
		t.Fatalf("custom single day = %v..%v", from, to)
	}

	if _, _, err := GetDateRange(DateRangeCustom, "2030-02-01", "2030-01-01", now); err == nil {
		t.Fatal("expected error for reversed range")
	}
	if _, _, err := GetDateRange("fortnightly", "", "", now); err == nil {
		t.Fatal("expected error for unknown preset")
	}
}
