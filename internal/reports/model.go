package reports

import (
	"time"
)

// Report types
const (
	ReportTypeRegistrations = "registrations"
	ReportTypeEvents        = "events"
)

// Formats
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

// Date range presets
const (
	DateRangeDaily   = "daily"
	DateRangeWeekly  = "weekly"
	DateRangeMonthly = "monthly"
	DateRangeYearly  = "yearly"
	DateRangeCustom  = "custom"
)

// Registration statuses as the admin dashboard shows them.
const (
	StatusSelected   = "Selected"
	StatusPending    = "Pending"
	StatusRegistered = "Registered"
)

// ReportRequest is a parsed export query. From and To are nil when no range was asked for.
type ReportRequest struct {
	Type   string
	Format string
	From   *time.Time
	To     *time.Time
}

// RegistrationReportRow is one (student, event) registration.
type RegistrationReportRow struct {
	Name         string
	Email        string
	Department   string
	EventTitle   string
	EventDate    time.Time
	RegisteredAt time.Time
	Status       string
}

type EventReportRow struct {
	Title           string
	Category        string
	Date            time.Time
	StartTime       string
	EndTime         string
	Location        string
	MaxParticipants int
	Registered      int
	Selected        int64
	IsActive        bool
	CreatedBy       string
	CreatedAt       time.Time
}

// ReportData holds whichever rows the requested report type needs.
type ReportData struct {
	Registrations []RegistrationReportRow
	Events        []EventReportRow
}
