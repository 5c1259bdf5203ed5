package notification

import (
	"time"
)

const (
	KindWelcome        = "welcome"
	KindRegistration   = "registration"
	KindUnregistration = "unregistration"
	KindSelection      = "selection"
	KindCancellation   = "cancellation"
	KindReminder       = "reminder"
)

// InAppNotification - per-user, in-app bell notifications
type InAppNotification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_inapp_user_event_kind,priority:1" json:"userId"`
	EventID   *uint     `gorm:"index:idx_inapp_user_event_kind,priority:2" json:"eventId,omitempty"`
	Kind      string    `gorm:"size:30;not null;index:idx_inapp_user_event_kind,priority:3" json:"type"`
	Title     string    `gorm:"size:150;not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IsRead    bool      `gorm:"not null" json:"read"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// View is the shape served to clients; Time is relative ("3 hours ago").
type View struct {
	ID        uint      `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	EventID   *uint     `json:"eventId,omitempty"`
	Read      bool      `json:"read"`
	Time      string    `json:"time"`
	CreatedAt time.Time `json:"createdAt"`
}

// Activity is something that happened to one or more users and should become notifications.
// It is the payload on the kafka activity topic.
type Activity struct {
	Kind       string    `json:"kind"`
	UserIDs    []uint    `json:"userIds"`
	UserName   string    `json:"userName,omitempty"`
	EventID    uint      `json:"eventId,omitempty"`
	EventTitle string    `json:"eventTitle,omitempty"`
	EventDate  time.Time `json:"eventDate,omitempty"`
	EventStart string    `json:"eventStart,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// ReminderCandidate is a registration whose event is close and has not been reminded yet.
type ReminderCandidate struct {
	UserID     uint
	EventID    uint
	EventTitle string
	EventDate  time.Time
	StartTime  string
}
