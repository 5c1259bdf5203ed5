package notification

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	CreateInApp(ctx context.Context, items []InAppNotification) error
	ListInAppByUser(ctx context.Context, userID uint, limit int) ([]InAppNotification, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	MarkInAppAsRead(ctx context.Context, id uint, userID uint) error
	DueReminders(ctx context.Context, from, to time.Time) ([]ReminderCandidate, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateInApp(ctx context.Context, items []InAppNotification) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) ListInAppByUser(ctx context.Context, userID uint, limit int) ([]InAppNotification, error) {
	if limit <= 0 {
		limit = 20
	}
	var items []InAppNotification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *repository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&InAppNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

// MarkInAppAsRead only touches notifications owned by userID.
func (r *repository) MarkInAppAsRead(ctx context.Context, id uint, userID uint) error {
	res := r.db.WithContext(ctx).
		Model(&InAppNotification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// DueReminders lists registrations for active events dated in [from, to] that have no reminder notification yet.
func (r *repository) DueReminders(ctx context.Context, from, to time.Time) ([]ReminderCandidate, error) {
	var out []ReminderCandidate
	err := r.db.WithContext(ctx).
		Table("user_registered_events ure").
		Select("ure.user_id, ure.event_id, e.title AS event_title, e.date AS event_date, e.start_time").
		Joins("JOIN events e ON e.id = ure.event_id").
		Where("e.is_active = ? AND e.date >= ? AND e.date <= ?", true, from, to).
		Where(`NOT EXISTS (SELECT 1 FROM in_app_notifications n
			WHERE n.user_id = ure.user_id AND n.event_id = ure.event_id AND n.kind = ?)`, KindReminder).
		Order("e.date ASC").
		Scan(&out).Error
	return out, err
}
