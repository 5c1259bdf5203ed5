package auth

import (
	"time"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// ValidRole reports whether r is one of the two account roles.
func ValidRole(r string) bool {
	return r == RoleStudent || r == RoleAdmin
}

// ============================
// 🔷 GORM User Model
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	FullName     string `gorm:"type:varchar(100);not null" json:"fullName"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"type:varchar(20);not null;index" json:"role"`

	Department   string `gorm:"type:varchar(100)" json:"department"`
	Year         string `gorm:"type:varchar(20)" json:"year"`
	StudentID    string `gorm:"type:varchar(50)" json:"studentId"`
	PhoneNumber  string `gorm:"type:varchar(20)" json:"phoneNumber"`
	ProfileImage string `gorm:"type:text" json:"profileImage"`

	RegisteredEvents []RegisteredEvent `gorm:"foreignKey:UserID" json:"registeredEvents,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// ============================
// 🔷 User side of a registration (User.registeredEvents)
type RegisteredEvent struct {
	ID           uint          `gorm:"primaryKey" json:"-"`
	UserID       uint          `gorm:"not null;uniqueIndex:idx_user_registered_event" json:"-"`
	EventID      uint          `gorm:"not null;uniqueIndex:idx_user_registered_event;index" json:"eventId"`
	Event        *EventSummary `gorm:"foreignKey:EventID;-:migration" json:"event,omitempty"`
	RegisteredAt time.Time     `gorm:"not null" json:"registeredAt"`
	Selected     bool          `gorm:"not null" json:"selected"`
}

func (RegisteredEvent) TableName() string {
	return "user_registered_events"
}

// EventSummary is the read-only slice of an event shown inside a user's registrations.
type EventSummary struct {
	ID                uint      `json:"id"`
	Title             string    `json:"title"`
	Category          string    `json:"category"`
	Date              time.Time `json:"date"`
	StartTime         string    `json:"startTime"`
	EndTime           string    `json:"endTime"`
	Location          string    `json:"location"`
	IsActive          bool      `json:"isActive"`
	SelectionRequired bool      `json:"selectionRequired"`
}

func (EventSummary) TableName() string {
	return "events"
}
