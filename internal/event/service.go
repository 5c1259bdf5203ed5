package event

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/vibra-events/vibra-backend/internal/auditlog"
	"gorm.io/datatypes"
)

type Service struct {
	Repo     *Repository
	AuditSvc auditlog.Service
}

func NewService(repo *Repository, auditSvc auditlog.Service) *Service {
	return &Service{Repo: repo, AuditSvc: auditSvc}
}

// ===========================
// ➕ Create Event
func (s *Service) CreateEvent(ctx context.Context, req *CreateEventRequest, adminID uint, ip string) (*Event, error) {
	v := &checker{}
	e := &Event{
		Title:             v.text("title", req.Title, ruleTitle),
		Description:       v.text("description", req.Description, ruleDescription),
		Category:          v.category(req.Category),
		Date:              v.date(req.Date),
		StartTime:         v.text("startTime", req.StartTime, ruleClock),
		EndTime:           v.text("endTime", req.EndTime, ruleClock),
		Location:          v.text("location", req.Location, ruleLocation),
		Image:             strings.TrimSpace(req.Image),
		MaxParticipants:   DefaultMaxParticipants,
		CreatedBy:         adminID,
		IsActive:          true,
		SelectionRequired: false,
		Tags:              datatypes.NewJSONSlice(cleanTags(req.Tags)),
	}
	if req.MaxParticipants != nil {
		e.MaxParticipants = v.capacity(*req.MaxParticipants)
	}
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}
	if req.SelectionRequired != nil {
		e.SelectionRequired = *req.SelectionRequired
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	if err := s.Repo.CreateEvent(ctx, e); err != nil {
		s.audit(ctx, adminID, 0, "EVENT_CREATE_FAILED", map[string]interface{}{"title": e.Title, "error": err.Error()}, ip, auditlog.StatusFailure)
		return nil, err
	}
	s.audit(ctx, adminID, e.ID, "EVENT_CREATED", map[string]interface{}{
		"title":    e.Title,
		"category": e.Category,
		"date":     e.Date.Format("2006-01-02"),
	}, ip, auditlog.StatusSuccess)

	return s.Repo.GetEventByID(ctx, e.ID)
}

// ===========================
// 🔍 Get Event
// GetEvent marks IsRegistered when viewerID is a logged-in user.
func (s *Service) GetEvent(ctx context.Context, id uint, viewerID uint) (*Event, error) {
	e, err := s.Repo.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	markViewer(e, viewerID)
	return e, nil
}

func markViewer(e *Event, viewerID uint) {
	if viewerID == 0 {
		return
	}
	registered := e.HasParticipant(viewerID)
	e.IsRegistered = &registered
}

// ===========================
// 📃 List Events
func (s *Service) ListEvents(ctx context.Context, f ListFilter, viewerID uint) (*ListResult, error) {
	f.Category = strings.ToLower(strings.TrimSpace(f.Category))
	if f.Category == "all" {
		f.Category = ""
	}
	f.Search = strings.TrimSpace(f.Search)
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 10
	}
	if f.Limit > 100 {
		f.Limit = 100
	}

	events, total, err := s.Repo.ListEvents(ctx, f)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []Event{}
	}
	for i := range events {
		markViewer(&events[i], viewerID)
	}

	return &ListResult{
		Events:      events,
		TotalPages:  int(math.Ceil(float64(total) / float64(f.Limit))),
		CurrentPage: f.Page,
		Total:       total,
	}, nil
}

// ===========================
// 🔁 Update Event
func (s *Service) UpdateEvent(ctx context.Context, id uint, req *UpdateEventRequest, adminID uint, ip string) (*Event, error) {
	v := &checker{}
	fields := map[string]interface{}{}

	if req.Title != nil {
		fields["title"] = v.text("title", *req.Title, ruleTitle)
	}
	if req.Description != nil {
		fields["description"] = v.text("description", *req.Description, ruleDescription)
	}
	if req.Category != nil {
		fields["category"] = v.category(*req.Category)
	}
	if req.Date != nil {
		fields["date"] = v.date(*req.Date)
	}
	if req.StartTime != nil {
		fields["start_time"] = v.text("startTime", *req.StartTime, ruleClock)
	}
	if req.EndTime != nil {
		fields["end_time"] = v.text("endTime", *req.EndTime, ruleClock)
	}
	if req.Location != nil {
		fields["location"] = v.text("location", *req.Location, ruleLocation)
	}
	if req.Image != nil {
		fields["image"] = strings.TrimSpace(*req.Image)
	}
	if req.MaxParticipants != nil {
		fields["max_participants"] = v.capacity(*req.MaxParticipants)
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if req.SelectionRequired != nil {
		fields["selection_required"] = *req.SelectionRequired
	}
	if req.Tags != nil {
		fields["tags"] = datatypes.NewJSONSlice(cleanTags(*req.Tags))
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	if err := s.Repo.UpdateEvent(ctx, id, fields); err != nil {
		if !errors.Is(err, ErrEventNotFound) {
			s.audit(ctx, adminID, id, "EVENT_UPDATE_FAILED", map[string]interface{}{"error": err.Error()}, ip, auditlog.StatusFailure)
		}
		return nil, err
	}

	changed := make([]string, 0, len(fields))
	for k := range fields {
		changed = append(changed, k)
	}
	s.audit(ctx, adminID, id, "EVENT_UPDATED", map[string]interface{}{"fields": changed}, ip, auditlog.StatusSuccess)

	return s.Repo.GetEventByID(ctx, id)
}

// ===========================
// 📊 Admin stats
func (s *Service) GetAdminStats(ctx context.Context) (*AdminStats, error) {
	stats, err := s.Repo.GetAdminStats(ctx)
	if err != nil {
		return nil, err
	}
	if stats.RecentEvents == nil {
		stats.RecentEvents = []Event{}
	}
	return stats, nil
}

func (s *Service) audit(ctx context.Context, adminID, eventID uint, action string, details map[string]interface{}, ip, status string) {
	if s.AuditSvc == nil {
		return
	}
	entry := auditlog.Entry{
		UserID:     auditlog.Ptr(adminID),
		TargetType: auditlog.TargetEvent,
		Action:     action,
		Details:    details,
		IP:         ip,
		Status:     status,
	}
	if eventID != 0 {
		entry.TargetID = auditlog.Ptr(eventID)
	}
	_ = s.AuditSvc.LogAction(ctx, entry)
}
