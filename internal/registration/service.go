package registration

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/vibra-events/vibra-backend/internal/auditlog"
	"github.com/vibra-events/vibra-backend/internal/auth"
	"github.com/vibra-events/vibra-backend/internal/event"
	"github.com/vibra-events/vibra-backend/internal/metrics"
	"github.com/vibra-events/vibra-backend/internal/notification"
)

var (
	ErrEventNotFound        = event.ErrEventNotFound
	ErrEventInactive        = errors.New("Event is not active")
	ErrEventFull            = errors.New("Event is full")
	ErrAlreadyRegistered    = errors.New("You are already registered for this event")
	ErrUserNotFound         = auth.ErrUserNotFound
	ErrRegistrationNotFound = errors.New("Registration not found")
)

type Service struct {
	Repo       *Repository
	Dispatcher notification.Dispatcher
	AuditSvc   auditlog.Service
	now        func() time.Time
}

func NewService(repo *Repository, d notification.Dispatcher, auditSvc auditlog.Service) *Service {
	return &Service{Repo: repo, Dispatcher: d, AuditSvc: auditSvc, now: time.Now}
}

// Register enrolls userID in eventID.
func (s *Service) Register(ctx context.Context, userID, eventID uint) (*event.Event, error) {
	e, err := s.Repo.Register(ctx, userID, eventID, s.now().UTC())
	metrics.RegistrationOutcomes.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, notification.Activity{
		Kind:       notification.KindRegistration,
		UserIDs:    []uint{userID},
		EventID:    e.ID,
		EventTitle: e.Title,
		EventDate:  e.Date,
		EventStart: e.StartTime,
	})
	return e, nil
}

// Unregister removes userID from eventID. Not being registered is not an error.
func (s *Service) Unregister(ctx context.Context, userID, eventID uint) error {
	e, removed, err := s.Repo.Unregister(ctx, userID, eventID)
	if err != nil {
		return err
	}
	if !removed {
		return nil
	}

	metrics.Unregistrations.Inc()
	s.dispatch(ctx, notification.Activity{
		Kind:       notification.KindUnregistration,
		UserIDs:    []uint{userID},
		EventID:    e.ID,
		EventTitle: e.Title,
		EventDate:  e.Date,
	})
	return nil
}

// DeleteEvent removes the event with all of its registrations and returns how many users were updated.
func (s *Service) DeleteEvent(ctx context.Context, adminID, eventID uint, ip string) (int, error) {
	e, userIDs, err := s.Repo.DeleteEvent(ctx, eventID)
	if err != nil {
		if !errors.Is(err, ErrEventNotFound) {
			s.audit(ctx, adminID, auditlog.TargetEvent, eventID, "EVENT_DELETE_FAILED", map[string]interface{}{"error": err.Error()}, ip, auditlog.StatusFailure)
		}
		return 0, err
	}

	s.audit(ctx, adminID, auditlog.TargetEvent, eventID, "EVENT_DELETED", map[string]interface{}{
		"title":         e.Title,
		"users_updated": len(userIDs),
	}, ip, auditlog.StatusSuccess)

	s.dispatch(ctx, notification.Activity{
		Kind:       notification.KindCancellation,
		UserIDs:    userIDs,
		EventID:    e.ID,
		EventTitle: e.Title,
		EventDate:  e.Date,
	})
	return len(userIDs), nil
}

// SelectStudent marks an existing registration as selected.
func (s *Service) SelectStudent(ctx context.Context, adminID, userID, eventID uint, ip string) error {
	entry, err := s.Repo.SelectStudent(ctx, userID, eventID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrRegistrationNotFound) {
			return err
		}
		s.audit(ctx, adminID, auditlog.TargetUser, userID, "STUDENT_SELECT_FAILED", map[string]interface{}{"event_id": eventID, "error": err.Error()}, ip, auditlog.StatusFailure)
		return err
	}

	s.audit(ctx, adminID, auditlog.TargetUser, userID, "STUDENT_SELECTED", map[string]interface{}{"event_id": eventID}, ip, auditlog.StatusSuccess)

	a := notification.Activity{Kind: notification.KindSelection, UserIDs: []uint{userID}, EventID: eventID}
	if entry.Event != nil {
		a.EventTitle = entry.Event.Title
		a.EventDate = entry.Event.Date
	}
	s.dispatch(ctx, a)
	return nil
}

// ClearUserRegistrations removes the user from every event and returns how many events changed.
func (s *Service) ClearUserRegistrations(ctx context.Context, adminID, userID uint, ip string) (int, error) {
	eventIDs, err := s.Repo.ClearUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.audit(ctx, adminID, auditlog.TargetUser, userID, "USER_REGISTRATIONS_CLEARED", map[string]interface{}{"event_ids": eventIDs}, ip, auditlog.StatusSuccess)
	return len(eventIDs), nil
}

// dispatch runs after commit. Notification failures never undo a registration change.
func (s *Service) dispatch(ctx context.Context, a notification.Activity) {
	if s.Dispatcher == nil || len(a.UserIDs) == 0 {
		return
	}
	a.OccurredAt = s.now().UTC()
	if err := s.Dispatcher.Dispatch(ctx, a); err != nil {
		metrics.NotificationsDispatched.WithLabelValues(a.Kind, "error").Inc()
		log.Printf("⚠️ dispatch %s for event %d: %v", a.Kind, a.EventID, err)
		return
	}
	metrics.NotificationsDispatched.WithLabelValues(a.Kind, "ok").Inc()
}

func (s *Service) audit(ctx context.Context, adminID uint, targetType string, targetID uint, action string, details map[string]interface{}, ip, status string) {
	if s.AuditSvc == nil {
		return
	}
	_ = s.AuditSvc.LogAction(ctx, auditlog.Entry{
		UserID:     auditlog.Ptr(adminID),
		TargetType: targetType,
		TargetID:   auditlog.Ptr(targetID),
		Action:     action,
		Details:    details,
		IP:         ip,
		Status:     status,
	})
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrEventNotFound):
		return "not_found"
	case errors.Is(err, ErrEventInactive):
		return "inactive"
	case errors.Is(err, ErrEventFull):
		return "full"
	case errors.Is(err, ErrAlreadyRegistered):
		return "duplicate"
	default:
		return "error"
	}
}
