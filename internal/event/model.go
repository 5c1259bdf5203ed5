package event

import (
	"time"

	"gorm.io/datatypes"
)

var Categories = []string{"academic", "cultural", "sports", "workshop", "seminar"}

const DefaultMaxParticipants = 100

// ============================
// 🔷 GORM Event Model
type Event struct {
	ID                uint                        `gorm:"primaryKey" json:"id"`
	Title             string                      `gorm:"type:varchar(200);not null" json:"title"`
	Description       string                      `gorm:"type:varchar(1000);not null" json:"description"`
	Category          string                      `gorm:"type:varchar(20);not null;index:idx_events_date_category,priority:2" json:"category"`
	Date              time.Time                   `gorm:"not null;index:idx_events_date_category,priority:1" json:"date"`
	StartTime         string                      `gorm:"type:varchar(5);not null" json:"startTime"`
	EndTime           string                      `gorm:"type:varchar(5);not null" json:"endTime"`
	Location          string                      `gorm:"type:varchar(200);not null" json:"location"`
	Image             string                      `gorm:"type:text" json:"image"`
	MaxParticipants   int                         `gorm:"not null" json:"maxParticipants"`
	CreatedBy         uint                        `gorm:"not null;index" json:"createdById"`
	Creator           *UserRef                    `gorm:"foreignKey:CreatedBy;-:migration" json:"createdBy,omitempty"`
	IsActive          bool                        `gorm:"not null;index" json:"isActive"`
	SelectionRequired bool                        `gorm:"not null" json:"selectionRequired"`
	Tags              datatypes.JSONSlice[string] `json:"tags"`
	Participants      []Participant               `gorm:"foreignKey:EventID;-:migration" json:"registeredParticipants"`
	CreatedAt         time.Time                   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time                   `gorm:"autoUpdateTime" json:"updatedAt"`

	RegistrationCount int   `gorm:"-" json:"registrationCount"`
	AvailableSpots    int   `gorm:"-" json:"availableSpots"`
	IsRegistered      *bool `gorm:"-" json:"isRegistered,omitempty"`
}

// fillCounts derives the count fields from the loaded participant list.
func (e *Event) fillCounts() {
	if e.Participants == nil {
		e.Participants = []Participant{}
	}
	e.RegistrationCount = len(e.Participants)
	e.AvailableSpots = e.MaxParticipants - e.RegistrationCount
	if e.AvailableSpots < 0 {
		e.AvailableSpots = 0
	}
}

// HasParticipant reports whether userID is in the loaded participant list.
func (e *Event) HasParticipant(userID uint) bool {
	for _, p := range e.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// ============================
// 🔷 Event side of a registration (Event.registeredParticipants)
type Participant struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	EventID      uint      `gorm:"not null;uniqueIndex:idx_event_participant" json:"-"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_event_participant;index" json:"userId"`
	User         *UserRef  `gorm:"foreignKey:UserID;-:migration" json:"user,omitempty"`
	RegisteredAt time.Time `gorm:"not null" json:"registeredAt"`
}

func (Participant) TableName() string {
	return "event_participants"
}

// UserRef is the public slice of a user populated into events.
type UserRef struct {
	ID       uint   `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func (UserRef) TableName() string {
	return "users"
}

// ============================
// 🟡 Create Event Request
type CreateEventRequest struct {
	Title             string   `json:"title" binding:"required"`
	Description       string   `json:"description" binding:"required"`
	Category          string   `json:"category" binding:"required"`
	Date              string   `json:"date" binding:"required"` // "2006-01-02" or RFC3339
	StartTime         string   `json:"startTime" binding:"required"`
	EndTime           string   `json:"endTime" binding:"required"`
	Location          string   `json:"location" binding:"required"`
	Image             string   `json:"image"`
	MaxParticipants   *int     `json:"maxParticipants"`
	IsActive          *bool    `json:"isActive"`
	SelectionRequired *bool    `json:"selectionRequired"`
	Tags              []string `json:"tags"`
}

// ============================
// 🟠 Update Event Request (only provided fields change)
type UpdateEventRequest struct {
	Title             *string   `json:"title"`
	Description       *string   `json:"description"`
	Category          *string   `json:"category"`
	Date              *string   `json:"date"`
	StartTime         *string   `json:"startTime"`
	EndTime           *string   `json:"endTime"`
	Location          *string   `json:"location"`
	Image             *string   `json:"image"`
	MaxParticipants   *int      `json:"maxParticipants"`
	IsActive          *bool     `json:"isActive"`
	SelectionRequired *bool     `json:"selectionRequired"`
	Tags              *[]string `json:"tags"`
}

// ListFilter drives GET /api/events.
type ListFilter struct {
	Category        string
	Search          string
	Page            int
	Limit           int
	IncludeInactive bool
}

type ListResult struct {
	Events      []Event `json:"events"`
	TotalPages  int     `json:"totalPages"`
	CurrentPage int     `json:"currentPage"`
	Total       int64   `json:"total"`
}

// AdminStats backs GET /api/events/admin/stats.
type AdminStats struct {
	TotalEvents        int64   `json:"totalEvents"`
	TotalUsers         int64   `json:"totalUsers"`
	TotalRegistrations int64   `json:"totalRegistrations"`
	SelectedStudents   int64   `json:"selectedStudents"`
	RecentEvents       []Event `json:"recentEvents"`
}
