package registration

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/vibra-events/vibra-backend/internal/auth"
	"github.com/vibra-events/vibra-backend/internal/event"
	"gorm.io/gorm"
)

// Repository keeps event_participants and user_registered_events in step. Every method
// runs in a single transaction so the two sides cannot drift apart.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Register adds userID to eventID on both sides. Checks run in this order: event exists,
// event active, capacity, duplicate. The event row stays locked until commit, so concurrent
// registrations for one event are serialized against the capacity check.
func (r *Repository) Register(ctx context.Context, userID, eventID uint, at time.Time) (*event.Event, error) {
	var registered *event.Event
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		e, err := event.LockEvent(tx, eventID)
		if err != nil {
			return err
		}
		if !e.IsActive {
			return ErrEventInactive
		}

		var count int64
		if err := tx.Model(&event.Participant{}).Where("event_id = ?", eventID).Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(e.MaxParticipants) {
			return ErrEventFull
		}

		var existing int64
		if err := tx.Model(&event.Participant{}).
			Where("event_id = ? AND user_id = ?", eventID, userID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyRegistered
		}

		if err := ensureUser(tx, userID); err != nil {
			return err
		}

		participant := event.Participant{EventID: eventID, UserID: userID, RegisteredAt: at}
		if err := tx.Omit("User").Create(&participant).Error; err != nil {
			return duplicateAs(err, ErrAlreadyRegistered)
		}
		entry := auth.RegisteredEvent{UserID: userID, EventID: eventID, RegisteredAt: at}
		if err := tx.Omit("Event").Create(&entry).Error; err != nil {
			return duplicateAs(err, ErrAlreadyRegistered)
		}

		registered = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return registered, nil
}

// Unregister removes userID from eventID on both sides. It reports whether the user was a
// participant; absence is not an error.
func (r *Repository) Unregister(ctx context.Context, userID, eventID uint) (*event.Event, bool, error) {
	var (
		e       event.Event
		removed bool
	)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&e, eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		res := tx.Where("event_id = ? AND user_id = ?", eventID, userID).Delete(&event.Participant{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected > 0

		res = tx.Where("user_id = ? AND event_id = ?", userID, eventID).Delete(&auth.RegisteredEvent{})
		if res.Error != nil {
			return res.Error
		}
		removed = removed || res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &e, removed, nil
}

// DeleteEvent removes the event and every registration of it, returning the ids of the users
// whose registration lists changed.
func (r *Repository) DeleteEvent(ctx context.Context, eventID uint) (*event.Event, []uint, error) {
	var (
		deleted *event.Event
		userIDs []uint
	)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		e, err := event.LockEvent(tx, eventID)
		if err != nil {
			return err
		}

		if err := tx.Model(&auth.RegisteredEvent{}).
			Where("event_id = ?", eventID).
			Order("user_id ASC").
			Pluck("user_id", &userIDs).Error; err != nil {
			return err
		}

		if err := tx.Where("event_id = ?", eventID).Delete(&auth.RegisteredEvent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", eventID).Delete(&event.Participant{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&event.Event{}, eventID).Error; err != nil {
			return err
		}

		deleted = e
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return deleted, userIDs, nil
}

// SelectStudent flags the user's registration for eventID as selected and returns the event summary.
func (r *Repository) SelectStudent(ctx context.Context, userID, eventID uint) (*auth.RegisteredEvent, error) {
	var entry auth.RegisteredEvent
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUser(tx, userID); err != nil {
			return err
		}

		res := tx.Model(&auth.RegisteredEvent{}).
			Where("user_id = ? AND event_id = ?", userID, eventID).
			Update("selected", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRegistrationNotFound
		}

		return tx.Preload("Event").
			Where("user_id = ? AND event_id = ?", userID, eventID).
			First(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ClearUser removes userID from every event on both sides and returns the affected event ids.
func (r *Repository) ClearUser(ctx context.Context, userID uint) ([]uint, error) {
	var eventIDs []uint
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUser(tx, userID); err != nil {
			return err
		}

		var fromUser, fromEvents []uint
		if err := tx.Model(&auth.RegisteredEvent{}).Where("user_id = ?", userID).Pluck("event_id", &fromUser).Error; err != nil {
			return err
		}
		if err := tx.Model(&event.Participant{}).Where("user_id = ?", userID).Pluck("event_id", &fromEvents).Error; err != nil {
			return err
		}
		eventIDs = union(fromUser, fromEvents)

		if err := tx.Where("user_id = ?", userID).Delete(&event.Participant{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&auth.RegisteredEvent{}).Error
	})
	if err != nil {
		return nil, err
	}
	return eventIDs, nil
}

func ensureUser(tx *gorm.DB, userID uint) error {
	var n int64
	if err := tx.Model(&auth.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func duplicateAs(err, target error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return target
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key") {
		return target
	}
	return err
}

func union(a, b []uint) []uint {
	seen := make(map[uint]bool, len(a)+len(b))
	out := make([]uint, 0, len(a)+len(b))
	for _, ids := range [][]uint{a, b} {
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}
