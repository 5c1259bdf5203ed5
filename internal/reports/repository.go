package reports

import (
	"context"
	"time"

	"github.com/vibra-events/vibra-backend/internal/auth"
	"github.com/vibra-events/vibra-backend/internal/event"
	"gorm.io/gorm"
)

type ReportRepository interface {
	GetRegistrations(ctx context.Context, from, to *time.Time) ([]RegistrationReportRow, error)
	GetEvents(ctx context.Context, from, to *time.Time) ([]EventReportRow, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// GetRegistrations flattens every student's registrations, optionally bounded by registration time.
func (r *reportRepository) GetRegistrations(ctx context.Context, from, to *time.Time) ([]RegistrationReportRow, error) {
	var users []auth.User
	err := r.db.WithContext(ctx).
		Preload("RegisteredEvents", func(tx *gorm.DB) *gorm.DB {
			if from != nil && to != nil {
				tx = tx.Where("registered_at BETWEEN ? AND ?", *from, *to)
			}
			return tx.Order("registered_at ASC")
		}).
		Preload("RegisteredEvents.Event").
		Where("role = ?", auth.RoleStudent).
		Order("full_name ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	rows := []RegistrationReportRow{}
	for _, u := range users {
		for _, reg := range u.RegisteredEvents {
			row := RegistrationReportRow{
				Name:         u.FullName,
				Email:        u.Email,
				Department:   u.Department,
				RegisteredAt: reg.RegisteredAt,
				Status:       registrationStatus(reg),
			}
			if reg.Event != nil {
				row.EventTitle = reg.Event.Title
				row.EventDate = reg.Event.Date
			} else {
				row.EventTitle = "Event Deleted"
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// GetEvents lists events by date, optionally bounded by event date.
func (r *reportRepository) GetEvents(ctx context.Context, from, to *time.Time) ([]EventReportRow, error) {
	db := r.db.WithContext(ctx)

	q := db.Preload("Creator").Preload("Participants")
	if from != nil && to != nil {
		q = q.Where("date BETWEEN ? AND ?", *from, *to)
	}
	var events []event.Event
	if err := q.Order("date ASC").Order("id ASC").Find(&events).Error; err != nil {
		return nil, err
	}

	var selected []struct {
		EventID uint
		N       int64
	}
	if err := db.Table("user_registered_events").
		Select("event_id, COUNT(*) AS n").
		Where("selected = ?", true).
		Group("event_id").
		Scan(&selected).Error; err != nil {
		return nil, err
	}
	selectedBy := make(map[uint]int64, len(selected))
	for _, s := range selected {
		selectedBy[s.EventID] = s.N
	}

	rows := make([]EventReportRow, 0, len(events))
	for _, e := range events {
		row := EventReportRow{
			Title:           e.Title,
			Category:        e.Category,
			Date:            e.Date,
			StartTime:       e.StartTime,
			EndTime:         e.EndTime,
			Location:        e.Location,
			MaxParticipants: e.MaxParticipants,
			Registered:      len(e.Participants),
			Selected:        selectedBy[e.ID],
			IsActive:        e.IsActive,
			CreatedAt:       e.CreatedAt,
		}
		if e.Creator != nil {
			row.CreatedBy = e.Creator.FullName
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func registrationStatus(reg auth.RegisteredEvent) string {
	switch {
	case reg.Selected:
		return StatusSelected
	case reg.Event != nil && reg.Event.SelectionRequired:
		return StatusPending
	default:
		return StatusRegistered
	}
}
