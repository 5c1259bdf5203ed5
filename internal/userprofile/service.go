package userprofile

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/vibra-events/vibra-backend/internal/auditlog"
	"github.com/vibra-events/vibra-backend/internal/auth"
)

var (
	ErrIncorrectPassword = errors.New("Current password is incorrect")
	ErrInvalidRole       = errors.New("Invalid role")
	ErrEmailTaken        = errors.New("Email is already in use")
)

// ========== INTERFACES ==========

type Service interface {
	GetProfile(ctx context.Context, userID uint) (*auth.User, error)
	UpdateProfile(ctx context.Context, userID uint, req UpdateProfileRequest) (*auth.User, error)
	RegisteredEvents(ctx context.Context, userID uint) ([]RegisteredEventView, error)
	DashboardStats(ctx context.Context, user auth.User) (*DashboardStats, error)

	ListUsers(ctx context.Context, f UserListFilter) (*UserList, error)
	UpdateRole(ctx context.Context, adminID, userID uint, role, ip string) (*auth.User, error)
	UpdateUser(ctx context.Context, adminID, userID uint, req AdminUpdateUserRequest, ip string) (*auth.User, error)
	StudentsWithRegistrations(ctx context.Context) ([]auth.User, error)
}

// ========== SERVICE INIT ==========

type service struct {
	repo     Repository
	auditSvc auditlog.Service
	now      func() time.Time
}

func NewService(repo Repository, auditSvc auditlog.Service) Service {
	return &service{
		repo:     repo,
		auditSvc: auditSvc,
		now:      time.Now,
	}
}

// ========== PROFILE LOGIC ==========

func (s *service) GetProfile(ctx context.Context, userID uint) (*auth.User, error) {
	return s.repo.GetWithRegistrations(ctx, userID)
}

// UpdateProfile changes only the non-empty fields. The password changes only when the
// current one matches; role is never writable here.
func (s *service) UpdateProfile(ctx context.Context, userID uint, req UpdateProfileRequest) (*auth.User, error) {
	user, err := s.repo.GetWithRegistrations(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	setIfPresent(fields, "full_name", req.FullName)
	setIfPresent(fields, "profile_image", req.ProfileImage)
	setIfPresent(fields, "department", req.Department)
	setIfPresent(fields, "year", req.Year)
	setIfPresent(fields, "student_id", req.StudentID)
	setIfPresent(fields, "phone_number", req.PhoneNumber)

	if req.CurrentPassword != "" && req.NewPassword != "" {
		if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
			return nil, ErrIncorrectPassword
		}
		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = hash
	}

	if err := s.repo.UpdateFields(ctx, userID, fields); err != nil {
		return nil, err
	}
	return s.repo.GetWithRegistrations(ctx, userID)
}

// RegisteredEvents drops entries whose event no longer resolves.
func (s *service) RegisteredEvents(ctx context.Context, userID uint) ([]RegisteredEventView, error) {
	regs, err := s.repo.ListRegistrations(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]RegisteredEventView, 0, len(regs))
	for _, r := range regs {
		if r.Event == nil {
			continue
		}
		views = append(views, RegisteredEventView{Event: r.Event, RegisteredAt: r.RegisteredAt, Selected: r.Selected})
	}
	return views, nil
}

func (s *service) DashboardStats(ctx context.Context, user auth.User) (*DashboardStats, error) {
	regs, err := s.repo.ListRegistrations(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.repo.CountUpcoming(ctx, user.ID, s.now())
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalRegistered: int64(len(regs)),
		UpcomingEvents:  upcoming,
		CompletedEvents: int64(len(regs)) - upcoming,
	}
	if user.IsAdmin() {
		if stats.AdminCounts, err = s.repo.CountAdminTotals(ctx, user.ID); err != nil {
			return nil, err
		}
	}
	return stats, nil
}

// ========== ADMIN LOGIC ==========

func (s *service) ListUsers(ctx context.Context, f UserListFilter) (*UserList, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 10
	}
	role := strings.ToLower(strings.TrimSpace(f.Role))
	if role == "all" {
		role = ""
	}

	users, total, err := s.repo.ListUsers(ctx, role, f.Page, f.Limit)
	if err != nil {
		return nil, err
	}
	return &UserList{
		Users:       users,
		TotalPages:  int(math.Ceil(float64(total) / float64(f.Limit))),
		CurrentPage: f.Page,
		Total:       total,
	}, nil
}

func (s *service) UpdateRole(ctx context.Context, adminID, userID uint, role, ip string) (*auth.User, error) {
	if !auth.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	if err := s.repo.UpdateFields(ctx, userID, map[string]interface{}{"role": role}); err != nil {
		s.audit(ctx, adminID, userID, "USER_ROLE_UPDATE_FAILED", map[string]interface{}{"role": role, "error": err.Error()}, ip, auditlog.StatusFailure)
		return nil, err
	}
	s.audit(ctx, adminID, userID, "USER_ROLE_UPDATED", map[string]interface{}{"role": role}, ip, auditlog.StatusSuccess)
	return s.repo.GetWithRegistrations(ctx, userID)
}

func (s *service) UpdateUser(ctx context.Context, adminID, userID uint, req AdminUpdateUserRequest, ip string) (*auth.User, error) {
	fields := map[string]interface{}{}
	setIfPresent(fields, "full_name", req.FullName)
	setIfPresent(fields, "department", req.Department)
	setIfPresent(fields, "phone_number", req.PhoneNumber)

	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" {
		taken, err := s.repo.EmailTaken(ctx, email, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailTaken
		}
		fields["email"] = email
	}

	if err := s.repo.UpdateFields(ctx, userID, fields); err != nil {
		return nil, err
	}

	changed := make([]string, 0, len(fields))
	for k := range fields {
		changed = append(changed, k)
	}
	s.audit(ctx, adminID, userID, "USER_UPDATED", map[string]interface{}{"fields": changed}, ip, auditlog.StatusSuccess)
	return s.repo.GetWithRegistrations(ctx, userID)
}

func (s *service) StudentsWithRegistrations(ctx context.Context) ([]auth.User, error) {
	return s.repo.StudentsWithRegistrations(ctx)
}

func (s *service) audit(ctx context.Context, adminID, userID uint, action string, details map[string]interface{}, ip, status string) {
	if s.auditSvc == nil {
		return
	}
	_ = s.auditSvc.LogAction(ctx, auditlog.Entry{
		UserID:     auditlog.Ptr(adminID),
		TargetType: auditlog.TargetUser,
		TargetID:   auditlog.Ptr(userID),
		Action:     action,
		Details:    details,
		IP:         ip,
		Status:     status,
	})
}

func setIfPresent(fields map[string]interface{}, column, value string) {
	if v := strings.TrimSpace(value); v != "" {
		fields[column] = v
	}
}
