package userprofile

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/vibra-events/vibra-backend/internal/auth"
	"gorm.io/gorm"
)

// Repository reads and edits accounts together with the user side of their registrations.
type Repository interface {
	GetWithRegistrations(ctx context.Context, userID uint) (*auth.User, error)
	UpdateFields(ctx context.Context, userID uint, fields map[string]interface{}) error
	EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error)
	ListUsers(ctx context.Context, role string, page, limit int) ([]auth.User, int64, error)
	ListRegistrations(ctx context.Context, userID uint) ([]auth.RegisteredEvent, error)
	CountUpcoming(ctx context.Context, userID uint, now time.Time) (int64, error)
	StudentsWithRegistrations(ctx context.Context) ([]auth.User, error)
	CountAdminTotals(ctx context.Context, adminID uint) (*AdminCounts, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func withRegistrations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("RegisteredEvents", func(tx *gorm.DB) *gorm.DB { return tx.Order("registered_at DESC") }).
		Preload("RegisteredEvents.Event")
}

// ==============================
// 🔹 Profile
// ==============================

func (r *repository) GetWithRegistrations(ctx context.Context, userID uint) (*auth.User, error) {
	var u auth.User
	err := withRegistrations(r.db.WithContext(ctx)).First(&u, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, auth.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateFields writes the given columns. A missing user surfaces as auth.ErrUserNotFound.
func (r *repository) UpdateFields(ctx context.Context, userID uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		var n int64
		if err := r.db.WithContext(ctx).Model(&auth.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return auth.ErrUserNotFound
		}
		return nil
	}
	res := r.db.WithContext(ctx).Model(&auth.User{}).Where("id = ?", userID).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

func (r *repository) EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&auth.User{}).
		Where("email = ? AND id <> ?", strings.ToLower(strings.TrimSpace(email)), exceptID).
		Count(&n).Error
	return n > 0, err
}

// ==============================
// 🔹 Admin user management
// ==============================

func (r *repository) ListUsers(ctx context.Context, role string, page, limit int) ([]auth.User, int64, error) {
	filtered := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&auth.User{})
		if role != "" {
			q = q.Where("role = ?", role)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []auth.User
	err := withRegistrations(filtered()).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&users).Error
	return users, total, err
}

// StudentsWithRegistrations lists every student holding at least one registration.
func (r *repository) StudentsWithRegistrations(ctx context.Context) ([]auth.User, error) {
	var users []auth.User
	err := withRegistrations(r.db.WithContext(ctx)).
		Where("role = ?", auth.RoleStudent).
		Where("EXISTS (SELECT 1 FROM user_registered_events ure WHERE ure.user_id = users.id)").
		Order("full_name ASC").
		Find(&users).Error
	return users, err
}

// ==============================
// 🔹 Registrations & stats
// ==============================

func (r *repository) ListRegistrations(ctx context.Context, userID uint) ([]auth.RegisteredEvent, error) {
	var regs []auth.RegisteredEvent
	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("user_id = ?", userID).
		Order("registered_at DESC").
		Find(&regs).Error
	return regs, err
}

func (r *repository) CountUpcoming(ctx context.Context, userID uint, now time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Table("user_registered_events ure").
		Joins("JOIN events e ON e.id = ure.event_id").
		Where("ure.user_id = ? AND e.date > ?", userID, now.UTC()).
		Count(&n).Error
	return n, err
}

func (r *repository) CountAdminTotals(ctx context.Context, adminID uint) (*AdminCounts, error) {
	db := r.db.WithContext(ctx)
	var out AdminCounts
	if err := db.Table("events").Where("is_active = ?", true).Count(&out.TotalEvents).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&auth.User{}).Where("role = ?", auth.RoleStudent).Count(&out.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Table("events").Where("created_by = ?", adminID).Count(&out.EventsCreated).Error; err != nil {
		return nil, err
	}
	return &out, nil
}
