package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/redis/go-redis/v9"
)

var (
	ErrNotificationNotFound = errors.New("Notification not found")
	ErrStreamUnavailable    = errors.New("notification stream is not available")
	ErrUnknownActivity      = errors.New("unknown activity kind")
)

// Dispatcher hands an Activity to whatever turns it into notifications.
type Dispatcher interface {
	Dispatch(ctx context.Context, a Activity) error
}

type Service interface {
	Dispatcher
	HandleActivity(ctx context.Context, a Activity) error
	ListForUser(ctx context.Context, userID uint, limit int) ([]View, int64, error)
	MarkAsRead(ctx context.Context, id uint, userID uint) error
	Subscribe(ctx context.Context, userID uint) (*redis.PubSub, error)
}

type service struct {
	repo Repository
	rdb  *redis.Client
	now  func() time.Time
}

// NewService returns the notification service. rdb may be nil; live fan-out is then skipped.
func NewService(repo Repository, rdb *redis.Client) Service {
	return &service{repo: repo, rdb: rdb, now: time.Now}
}

func userChannel(userID uint) string {
	return fmt.Sprintf("notifications:user:%d", userID)
}

// Dispatch handles the activity in-process.
func (s *service) Dispatch(ctx context.Context, a Activity) error {
	return s.HandleActivity(ctx, a)
}

// HandleActivity stores one notification per affected user and publishes each on the user's channel.
func (s *service) HandleActivity(ctx context.Context, a Activity) error {
	title, message, err := render(a)
	if err != nil {
		return err
	}
	if len(a.UserIDs) == 0 {
		return nil
	}

	var eventID *uint
	if a.EventID != 0 {
		id := a.EventID
		eventID = &id
	}
	now := s.now()
	items := make([]InAppNotification, 0, len(a.UserIDs))
	for _, uid := range a.UserIDs {
		items = append(items, InAppNotification{
			UserID:    uid,
			EventID:   eventID,
			Kind:      a.Kind,
			Title:     title,
			Message:   message,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if err := s.repo.CreateInApp(ctx, items); err != nil {
		return fmt.Errorf("store %s notifications: %w", a.Kind, err)
	}

	if s.rdb == nil {
		return nil
	}
	for _, item := range items {
		payload, _ := json.Marshal(s.view(item))
		if err := s.rdb.Publish(ctx, userChannel(item.UserID), string(payload)).Err(); err != nil {
			log.Printf("⚠️ publish notification %d: %v", item.ID, err)
		}
	}
	return nil
}

func render(a Activity) (title, message string, err error) {
	date := a.EventDate.Format("Jan 2, 2006")
	switch a.Kind {
	case KindWelcome:
		name := a.UserName
		if name == "" {
			name = "there"
		}
		return "Welcome to Vibra!", fmt.Sprintf("Welcome %s! Explore upcoming events and register for the ones you like.", name), nil
	case KindRegistration:
		return "Registration confirmed", fmt.Sprintf("You have successfully registered for %s on %s.", a.EventTitle, date), nil
	case KindUnregistration:
		return "Registration cancelled", fmt.Sprintf("You have unregistered from %s.", a.EventTitle), nil
	case KindSelection:
		return "You have been selected!", fmt.Sprintf("Congratulations! You have been selected for %s.", a.EventTitle), nil
	case KindCancellation:
		return "Event cancelled", fmt.Sprintf("%s scheduled for %s has been cancelled.", a.EventTitle, date), nil
	case KindReminder:
		msg := fmt.Sprintf("Reminder: %s is coming up on %s", a.EventTitle, date)
		if a.EventStart != "" {
			msg += " at " + a.EventStart
		}
		return "Upcoming event", msg + ".", nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnknownActivity, a.Kind)
	}
}

func (s *service) view(n InAppNotification) View {
	return View{
		ID:        n.ID,
		Type:      n.Kind,
		Title:     n.Title,
		Message:   n.Message,
		EventID:   n.EventID,
		Read:      n.IsRead,
		Time:      humanize.RelTime(n.CreatedAt, s.now(), "ago", "from now"),
		CreatedAt: n.CreatedAt,
	}
}

func (s *service) ListForUser(ctx context.Context, userID uint, limit int) ([]View, int64, error) {
	items, err := s.repo.ListInAppByUser(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	views := make([]View, 0, len(items))
	for _, n := range items {
		views = append(views, s.view(n))
	}
	return views, unread, nil
}

func (s *service) MarkAsRead(ctx context.Context, id uint, userID uint) error {
	return s.repo.MarkInAppAsRead(ctx, id, userID)
}

// Subscribe opens a redis subscription on the user's channel. The caller closes it.
func (s *service) Subscribe(ctx context.Context, userID uint) (*redis.PubSub, error) {
	if s.rdb == nil {
		return nil, ErrStreamUnavailable
	}
	sub := s.rdb.Subscribe(ctx, userChannel(userID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	return sub, nil
}
