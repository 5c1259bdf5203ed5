package auditlog

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
)

var ErrAuditLogNotFound = errors.New("Audit log not found")

type Service interface {
	LogAction(ctx context.Context, e Entry) error
	GetAuditLogs(ctx context.Context, filter AuditLogFilter) (*PaginatedAuditLogs, error)
	GetAuditLogByID(ctx context.Context, id uint) (*AuditLogResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// LogAction records an audit entry. Failures are logged and returned; callers treat them as non-fatal.
func (s *service) LogAction(ctx context.Context, e Entry) error {
	if e.Details == nil {
		e.Details = map[string]interface{}{}
	}
	detailsJSON, err := json.Marshal(e.Details)
	if err != nil {
		detailsJSON = []byte("{}")
	}
	if e.Status == "" {
		e.Status = StatusSuccess
	}

	entry := &AuditLog{
		UserID:     e.UserID,
		TargetType: e.TargetType,
		TargetID:   e.TargetID,
		Action:     e.Action,
		Details:    detailsJSON,
		IPAddress:  e.IP,
		Status:     e.Status,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		log.Printf("⚠️ audit %s: %v", e.Action, err)
		return err
	}
	return nil
}

func (s *service) GetAuditLogs(ctx context.Context, filter AuditLogFilter) (*PaginatedAuditLogs, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	logs, total, err := s.repo.GetByFilter(ctx, filter)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []AuditLogResponse{}
	}

	return &PaginatedAuditLogs{
		Data:       logs,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (s *service) GetAuditLogByID(ctx context.Context, id uint) (*AuditLogResponse, error) {
	return s.repo.GetByID(ctx, id)
}

// Ptr returns a pointer to id, for Entry.UserID and Entry.TargetID.
func Ptr(id uint) *uint {
	return &id
}
