package event

import (
	"context"
	"errors"
	"strings"

	"github.com/vibra-events/vibra-backend/internal/auth"
	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// withRelations populates creator and participants the way every event response shows them.
func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Creator").
		Preload("Participants", func(tx *gorm.DB) *gorm.DB { return tx.Order("registered_at ASC") }).
		Preload("Participants.User")
}

// ===========================
// ➕ Create Event
func (r *Repository) CreateEvent(ctx context.Context, e *Event) error {
	return r.DB.WithContext(ctx).Omit("Creator", "Participants").Create(e).Error
}

// ===========================
// 🔍 Get Event by ID
func (r *Repository) GetEventByID(ctx context.Context, id uint) (*Event, error) {
	var e Event
	err := withRelations(r.DB.WithContext(ctx)).First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	e.fillCounts()
	return &e, nil
}

// ===========================
// 📃 List Events (filter + search + pagination)
func (r *Repository) ListEvents(ctx context.Context, f ListFilter) ([]Event, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []Event
	err := withRelations(r.filtered(ctx, f)).
		Order("date ASC").
		Order("id ASC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	for i := range events {
		events[i].fillCounts()
	}
	return events, total, nil
}

func (r *Repository) filtered(ctx context.Context, f ListFilter) *gorm.DB {
	query := r.DB.WithContext(ctx).Model(&Event{})
	if !f.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}
	return query
}

// ===========================
// 🔁 Update Event
// UpdateEvent applies fields under a row lock. A capacity below the live participant count is rejected.
func (r *Repository) UpdateEvent(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e Event
		if err := lockEvent(tx, id, &e); err != nil {
			return err
		}

		if max, ok := fields["max_participants"].(int); ok {
			var count int64
			if err := tx.Model(&Participant{}).Where("event_id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if int64(max) < count {
				return ErrCapacityBelowRegistrations
			}
		}

		if len(fields) == 0 {
			return nil
		}
		return tx.Model(&Event{}).Where("id = ?", id).Updates(fields).Error
	})
}

// ===========================
// 📊 Admin stats
func (r *Repository) GetAdminStats(ctx context.Context) (*AdminStats, error) {
	db := r.DB.WithContext(ctx)
	stats := &AdminStats{}

	if err := db.Model(&Event{}).Where("is_active = ?", true).Count(&stats.TotalEvents).Error; err != nil {
		return nil, err
	}
	if err := db.Table("users").Where("role = ?", auth.RoleStudent).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Table("event_participants ep").
		Joins("JOIN events e ON e.id = ep.event_id").
		Where("e.is_active = ?", true).
		Count(&stats.TotalRegistrations).Error; err != nil {
		return nil, err
	}
	if err := db.Table("user_registered_events ure").
		Joins("JOIN users u ON u.id = ure.user_id").
		Where("u.role = ? AND ure.selected = ?", auth.RoleStudent, true).
		Count(&stats.SelectedStudents).Error; err != nil {
		return nil, err
	}

	if err := withRelations(db).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Order("id DESC").
		Limit(5).
		Find(&stats.RecentEvents).Error; err != nil {
		return nil, err
	}
	for i := range stats.RecentEvents {
		stats.RecentEvents[i].fillCounts()
	}
	return stats, nil
}
