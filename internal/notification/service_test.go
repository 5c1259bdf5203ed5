package notification

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vibra-events/vibra-backend/internal/testutil"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2030, 1, 10, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*service, Repository, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t, &InAppNotification{})
	repo := NewRepository(db)
	svc := NewService(repo, nil).(*service)
	svc.now = func() time.Time { return fixedNow }
	return svc, repo, db
}

func TestHandleActivityStoresOnePerUser(t *testing.T) {
	svc, _, db := setup(t)
	ctx := context.Background()

	err := svc.Dispatch(ctx, Activity{
		Kind:       KindCancellation,
		UserIDs:    []uint{1, 2, 3},
		EventID:    9,
		EventTitle: "Tech Talk",
		EventDate:  time.Date(2030, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	var count int64
	db.Model(&InAppNotification{}).Where("event_id = ? AND kind = ?", 9, KindCancellation).Count(&count)
	if count != 3 {
		t.Fatalf("stored = %d, want 3", count)
	}

	views, unread, err := svc.ListForUser(ctx, 2, 20)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(views) != 1 || unread != 1 {
		t.Fatalf("views %d unread %d", len(views), unread)
	}
	v := views[0]
	if v.Type != KindCancellation || v.Title != "Event cancelled" || v.Read || v.EventID == nil || *v.EventID != 9 {
		t.Fatalf("view = %+v", v)
	}
	if v.Message != "Tech Talk scheduled for Feb 1, 2030 has been cancelled." || v.Time == "" {
		t.Fatalf("message/time = %q/%q", v.Message, v.Time)
	}
}

func TestHandleActivityRejectsUnknownKind(t *testing.T) {
	svc, _, db := setup(t)
	err := svc.HandleActivity(context.Background(), Activity{Kind: "party", UserIDs: []uint{1}})
	if !errors.Is(err, ErrUnknownActivity) {
		t.Fatalf("err = %v, want ErrUnknownActivity", err)
	}
	var count int64
	db.Model(&InAppNotification{}).Count(&count)
	if count != 0 {
		t.Fatalf("stored %d notifications for unknown kind", count)
	}
}

func TestRender(t *testing.T) {
	date := time.Date(2030, 3, 5, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		a     Activity
		title string
		want  string
	}{
		{Activity{Kind: KindWelcome}, "Welcome to Vibra!", "Welcome there!"},
		{Activity{Kind: KindWelcome, UserName: "Asha"}, "Welcome to Vibra!", "Welcome Asha!"},
		{Activity{Kind: KindRegistration, EventTitle: "Fest", EventDate: date}, "Registration confirmed", "registered for Fest on Mar 5, 2030"},
		{Activity{Kind: KindUnregistration, EventTitle: "Fest"}, "Registration cancelled", "unregistered from Fest"},
		{Activity{Kind: KindSelection, EventTitle: "Fest"}, "You have been selected!", "selected for Fest"},
		{Activity{Kind: KindReminder, EventTitle: "Fest", EventDate: date, EventStart: "10:00"}, "Upcoming event", "on Mar 5, 2030 at 10:00."},
	}
	for _, tc := range cases {
		title, msg, err := render(tc.a)
		if err != nil {
			t.Fatalf("render %s: %v", tc.a.Kind, err)
		}
		if title != tc.title || !strings.Contains(msg, tc.want) {
			t.Errorf("render %s = %q %q", tc.a.Kind, title, msg)
		}
	}
}

func TestMarkAsReadOwnOnly(t *testing.T) {
	svc, _, db := setup(t)
	ctx := context.Background()
	if err := svc.HandleActivity(ctx, Activity{Kind: KindSelection, UserIDs: []uint{5}, EventID: 1, EventTitle: "Quiz"}); err != nil {
		t.Fatal(err)
	}
	var n InAppNotification
	if err := db.Where("user_id = ?", 5).First(&n).Error; err != nil {
		t.Fatal(err)
	}

	if err := svc.MarkAsRead(ctx, n.ID, 6); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("other user err = %v, want ErrNotificationNotFound", err)
	}
	if err := svc.MarkAsRead(ctx, n.ID, 5); err != nil {
		t.Fatalf("MarkAsRead: %v", err)
	}
	if _, unread, _ := svc.ListForUser(ctx, 5, 20); unread != 0 {
		t.Fatalf("unread = %d after read", unread)
	}
}

func TestSubscribeWithoutRedis(t *testing.T) {
	svc, _, _ := setup(t)
	if _, err := svc.Subscribe(context.Background(), 1); !errors.Is(err, ErrStreamUnavailable) {
		t.Fatalf("err = %v, want ErrStreamUnavailable", err)
	}
}
