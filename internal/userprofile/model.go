package userprofile

import (
	"time"

	"github.com/vibra-events/vibra-backend/internal/auth"
)

// ========== REQUEST DTOs ==========

// UpdateProfileRequest is the self-service profile edit. Empty strings leave a field unchanged.
type UpdateProfileRequest struct {
	FullName        string `json:"fullName" binding:"omitempty,max=100"`
	ProfileImage    string `json:"profileImage"`
	Department      string `json:"department" binding:"omitempty,max=100"`
	Year            string `json:"year" binding:"omitempty,max=20"`
	StudentID       string `json:"studentId" binding:"omitempty,max=50"`
	PhoneNumber     string `json:"phoneNumber" binding:"omitempty,max=20"`
	CurrentPassword string `json:"currentPassword" binding:"required_with=NewPassword"`
	NewPassword     string `json:"newPassword" binding:"omitempty,min=6"`
}

// AdminUpdateUserRequest is an administrator's edit of another account.
type AdminUpdateUserRequest struct {
	FullName    string `json:"fullName" binding:"omitempty,max=100"`
	Email       string `json:"email" binding:"omitempty,email"`
	Department  string `json:"department" binding:"omitempty,max=100"`
	PhoneNumber string `json:"phoneNumber" binding:"omitempty,max=20"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// ========== RESPONSE DTOs ==========

// RegisteredEventView is one entry of GET /registered-events.
type RegisteredEventView struct {
	Event        *auth.EventSummary `json:"event"`
	RegisteredAt time.Time          `json:"registeredAt"`
	Selected     bool               `json:"selected"`
}

// DashboardStats always carries the caller's own counts; the admin block is nil for students.
type DashboardStats struct {
	TotalRegistered int64 `json:"totalRegistered"`
	UpcomingEvents  int64 `json:"upcomingEvents"`
	CompletedEvents int64 `json:"completedEvents"`

	*AdminCounts
}

type AdminCounts struct {
	TotalEvents   int64 `json:"totalEvents"`
	TotalUsers    int64 `json:"totalUsers"`
	EventsCreated int64 `json:"eventsCreated"`
}

type UserListFilter struct {
	Role  string
	Page  int
	Limit int
}

type UserList struct {
	Users       []auth.User `json:"users"`
	TotalPages  int         `json:"totalPages"`
	CurrentPage int         `json:"currentPage"`
	Total       int64       `json:"total"`
}
