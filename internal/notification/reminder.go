package notification

import (
	"context"
	"log"
	"strings"
	"time"
)

const DefaultReminderInterval = time.Hour

// ReminderWorker periodically notifies registered users about events coming up within Window.
type ReminderWorker struct {
	repo     Repository
	svc      Service
	Interval time.Duration
	Window   time.Duration
	now      func() time.Time
}

// NewReminderWorker falls back to DefaultReminderInterval when interval is not positive.
func NewReminderWorker(repo Repository, svc Service, interval, window time.Duration) *ReminderWorker {
	if interval <= 0 {
		interval = DefaultReminderInterval
	}
	return &ReminderWorker{repo: repo, svc: svc, Interval: interval, Window: window, now: time.Now}
}

func (w *ReminderWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	log.Printf("⏰ reminder worker started (every %s, window %s)", w.Interval, w.Window)
	for {
		if n, err := w.RunOnce(ctx); err != nil {
			log.Printf("❌ reminder run: %v", err)
		} else if n > 0 {
			log.Printf("⏰ sent %d event reminders", n)
		}

		select {
		case <-ctx.Done():
			log.Println("⏰ reminder worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce sends reminders for events dated from today through now+Window and returns how many were sent.
// Events that have already started are skipped.
func (w *ReminderWorker) RunOnce(ctx context.Context) (int, error) {
	now := w.now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := now.Add(w.Window)

	due, err := w.repo.DueReminders(ctx, from, to)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, c := range due {
		if startsAt(c).Before(now) {
			continue
		}
		err := w.svc.HandleActivity(ctx, Activity{
			Kind:       KindReminder,
			UserIDs:    []uint{c.UserID},
			EventID:    c.EventID,
			EventTitle: c.EventTitle,
			EventDate:  c.EventDate,
			EventStart: c.StartTime,
			OccurredAt: now,
		})
		if err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

// startsAt combines the event date with its HH:MM start time. An unparsable start time counts as midnight.
func startsAt(c ReminderCandidate) time.Time {
	d := c.EventDate.UTC()
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	clock, err := time.Parse("15:04", strings.TrimSpace(c.StartTime))
	if err != nil {
		return day
	}
	return day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
}
