package auditlog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/vibra-events/vibra-backend/internal/testutil"
)

type auditUser struct {
	ID       uint
	FullName string
}

func (auditUser) TableName() string { return "users" }

func setup(t *testing.T) Service {
	t.Helper()
	db := testutil.NewDB(t, &AuditLog{}, &auditUser{})
	if err := db.Create(&auditUser{ID: 1, FullName: "Root Admin"}).Error; err != nil {
		t.Fatal(err)
	}
	return NewService(NewRepository(db))
}

func TestLogActionAndLookup(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	err := svc.LogAction(ctx, Entry{
		UserID:     Ptr(1),
		TargetType: TargetEvent,
		TargetID:   Ptr(7),
		Action:     "EVENT_CREATED",
		Details:    map[string]interface{}{"title": "Fest"},
		IP:         "10.0.0.1",
	})
	if err != nil {
		t.Fatalf("LogAction: %v", err)
	}

	page, err := svc.GetAuditLogs(ctx, AuditLogFilter{})
	if err != nil {
		t.Fatalf("GetAuditLogs: %v", err)
	}
	if page.Total != 1 || page.Page != 1 || page.Limit != 20 || page.TotalPages != 1 {
		t.Fatalf("page = %+v", page)
	}
	got := page.Data[0]
	if got.Status != StatusSuccess || got.UserName == nil || *got.UserName != "Root Admin" || got.IPAddress != "10.0.0.1" {
		t.Fatalf("entry = %+v", got)
	}
	var details map[string]interface{}
	if err := json.Unmarshal(got.Details, &details); err != nil || details["title"] != "Fest" {
		t.Fatalf("details = %s (%v)", got.Details, err)
	}

	one, err := svc.GetAuditLogByID(ctx, got.ID)
	if err != nil || one.Action != "EVENT_CREATED" {
		t.Fatalf("GetAuditLogByID = %+v, %v", one, err)
	}
	if _, err := svc.GetAuditLogByID(ctx, 999); !errors.Is(err, ErrAuditLogNotFound) {
		t.Fatalf("err = %v, want ErrAuditLogNotFound", err)
	}
}

func TestGetAuditLogsFilters(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	for _, e := range []Entry{
		{UserID: Ptr(1), TargetType: TargetUser, Action: "USER_ROLE_UPDATED"},
		{UserID: Ptr(1), TargetType: TargetUser, Action: "USER_ROLE_UPDATE_FAILED", Status: StatusFailure},
		{UserID: Ptr(2), TargetType: TargetEvent, Action: "EVENT_DELETED"},
	} {
		if err := svc.LogAction(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	page, err := svc.GetAuditLogs(ctx, AuditLogFilter{Action: "role", Limit: 500})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 2 || page.Limit != 20 {
		t.Fatalf("role filter = total %d limit %d", page.Total, page.Limit)
	}

	page, err = svc.GetAuditLogs(ctx, AuditLogFilter{Status: StatusFailure})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || page.Data[0].Action != "USER_ROLE_UPDATE_FAILED" {
		t.Fatalf("failure filter = %+v", page.Data)
	}

	page, err = svc.GetAuditLogs(ctx, AuditLogFilter{UserID: Ptr(2), Page: 3, Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || len(page.Data) != 0 || page.Page != 3 {
		t.Fatalf("out of range page = %+v", page)
	}
	if page.Data == nil {
		t.Fatal("data must be an empty list, not null")
	}
}
