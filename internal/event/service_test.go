package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vibra-events/vibra-backend/internal/auth"
	"github.com/vibra-events/vibra-backend/internal/testutil"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*Service, *gorm.DB, uint) {
	t.Helper()
	db := testutil.NewDB(t, &auth.User{}, &auth.RegisteredEvent{}, &Event{}, &Participant{})
	admin := auth.User{FullName: "Admin", Email: "admin@college.edu", PasswordHash: "x", Role: auth.RoleAdmin}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatal(err)
	}
	return NewService(NewRepository(db), nil), db, admin.ID
}

func ptr[T any](v T) *T { return &v }

func validRequest(title, date string) *CreateEventRequest {
	return &CreateEventRequest{
		Title:       title,
		Description: "An event",
		Category:    "Cultural",
		Date:        date,
		StartTime:   "9:30",
		EndTime:     "18:00",
		Location:    "Auditorium",
	}
}

func TestCreateEventDefaults(t *testing.T) {
	svc, _, admin := setup(t)

	e, err := svc.CreateEvent(context.Background(), validRequest("  Fest  ", "2030-04-02"), admin, "127.0.0.1")
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if e.Title != "Fest" || e.Category != "cultural" {
		t.Fatalf("title/category = %q/%q", e.Title, e.Category)
	}
	if e.MaxParticipants != DefaultMaxParticipants || !e.IsActive || e.SelectionRequired {
		t.Fatalf("defaults = max %d active %v selection %v", e.MaxParticipants, e.IsActive, e.SelectionRequired)
	}
	if !e.Date.Equal(time.Date(2030, 4, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date = %v", e.Date)
	}
	if e.Creator == nil || e.Creator.FullName != "Admin" {
		t.Fatalf("creator = %+v", e.Creator)
	}
	if e.RegistrationCount != 0 || e.AvailableSpots != DefaultMaxParticipants {
		t.Fatalf("counts = %d/%d", e.RegistrationCount, e.AvailableSpots)
	}
}

func TestCreateEventValidation(t *testing.T) {
	svc, _, admin := setup(t)
	req := validRequest("", "next tuesday")
	req.Category = "party"
	req.StartTime = "25:00"
	req.MaxParticipants = ptr(0)

	_, err := svc.CreateEvent(context.Background(), req, admin, "")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	got := map[string]bool{}
	for _, f := range verr.Fields {
		got[f.Field] = true
	}
	for _, field := range []string{"title", "category", "date", "startTime", "maxParticipants"} {
		if !got[field] {
			t.Errorf("missing error for %s in %+v", field, verr.Fields)
		}
	}
	if got["endTime"] || got["location"] {
		t.Errorf("valid fields reported: %+v", verr.Fields)
	}
}

func TestListEventsFilterSearchPaginate(t *testing.T) {
	svc, _, admin := setup(t)
	ctx := context.Background()

	mk := func(title, category, date string, active bool) {
		req := validRequest(title, date)
		req.Category = category
		req.IsActive = ptr(active)
		if _, err := svc.CreateEvent(ctx, req, admin, ""); err != nil {
			t.Fatalf("CreateEvent %s: %v", title, err)
		}
	}
	mk("Robotics Workshop", "workshop", "2030-05-03", true)
	mk("Dance Night", "cultural", "2030-05-01", true)
	mk("Music Night", "cultural", "2030-05-02", true)
	mk("Hidden Rehearsal", "cultural", "2030-04-01", false)

	res, err := svc.ListEvents(ctx, ListFilter{Category: "ALL", Limit: 2}, 0)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if res.Total != 3 || res.TotalPages != 2 || len(res.Events) != 2 || res.Events[0].Title != "Dance Night" {
		t.Fatalf("page 1 = total %d pages %d first %q", res.Total, res.TotalPages, res.Events[0].Title)
	}

	res, err = svc.ListEvents(ctx, ListFilter{Category: "cultural", Search: "NIGHT"}, 0)
	if err != nil {
		t.Fatalf("ListEvents search: %v", err)
	}
	if res.Total != 2 {
		t.Fatalf("cultural nights = %d", res.Total)
	}

	res, err = svc.ListEvents(ctx, ListFilter{IncludeInactive: true}, 0)
	if err != nil {
		t.Fatalf("ListEvents inactive: %v", err)
	}
	if res.Total != 4 || res.Events[0].Title != "Hidden Rehearsal" {
		t.Fatalf("with inactive = %d first %q", res.Total, res.Events[0].Title)
	}
}

func TestGetEventMarksViewer(t *testing.T) {
	svc, db, admin := setup(t)
	ctx := context.Background()
	e, err := svc.CreateEvent(ctx, validRequest("Quiz", "2030-06-01"), admin, "")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&Participant{EventID: e.ID, UserID: admin, RegisteredAt: time.Now()}).Error; err != nil {
		t.Fatal(err)
	}

	got, err := svc.GetEvent(ctx, e.ID, admin)
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	if got.IsRegistered == nil || !*got.IsRegistered || got.RegistrationCount != 1 {
		t.Fatalf("viewer registration = %v count %d", got.IsRegistered, got.RegistrationCount)
	}
	if len(got.Participants) != 1 || got.Participants[0].User == nil || got.Participants[0].User.FullName != "Admin" {
		t.Fatalf("participants = %+v", got.Participants)
	}

	anon, err := svc.GetEvent(ctx, e.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if anon.IsRegistered != nil {
		t.Fatal("anonymous viewers get no isRegistered flag")
	}

	if _, err := svc.GetEvent(ctx, 9999, 0); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("err = %v, want ErrEventNotFound", err)
	}
}

func TestUpdateEventCapacityGuard(t *testing.T) {
	svc, db, admin := setup(t)
	ctx := context.Background()
	e, err := svc.CreateEvent(ctx, validRequest("Trek", "2030-07-01"), admin, "")
	if err != nil {
		t.Fatal(err)
	}
	for uid := uint(10); uid < 13; uid++ {
		if err := db.Create(&Participant{EventID: e.ID, UserID: uid, RegisteredAt: time.Now()}).Error; err != nil {
			t.Fatal(err)
		}
	}

	if _, err := svc.UpdateEvent(ctx, e.ID, &UpdateEventRequest{MaxParticipants: ptr(2)}, admin, ""); !errors.Is(err, ErrCapacityBelowRegistrations) {
		t.Fatalf("err = %v, want ErrCapacityBelowRegistrations", err)
	}

	upd, err := svc.UpdateEvent(ctx, e.ID, &UpdateEventRequest{MaxParticipants: ptr(3), Location: ptr(" Hills "), Tags: &[]string{"outdoor", "outdoor", " "}}, admin, "")
	if err != nil {
		t.Fatalf("UpdateEvent: %v", err)
	}
	if upd.MaxParticipants != 3 || upd.AvailableSpots != 0 || upd.Location != "Hills" || upd.Title != "Trek" {
		t.Fatalf("updated = %+v", upd)
	}
	if len(upd.Tags) != 1 || upd.Tags[0] != "outdoor" {
		t.Fatalf("tags = %v", upd.Tags)
	}

	if _, err := svc.UpdateEvent(ctx, 9999, &UpdateEventRequest{Title: ptr("x")}, admin, ""); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("err = %v, want ErrEventNotFound", err)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2030-01-02T15:04:05+05:30")
	if err != nil {
		t.Fatal(err)
	}
	if d.Location() != time.UTC || d.Hour() != 9 {
		t.Fatalf("date = %v", d)
	}
	if _, err := ParseDate("02/01/2030"); err == nil {
		t.Fatal("expected error for non-ISO date")
	}
}

func TestValidationMessages(t *testing.T) {
	svc, _, admin := setup(t)
	ctx := context.Background()
	e, err := svc.CreateEvent(ctx, validRequest("Debate", "2030-09-01"), admin, "")
	if err != nil {
		t.Fatal(err)
	}

	long := make([]byte, 201)
	for i := range long {
		long[i] = 'x'
	}
	_, err = svc.UpdateEvent(ctx, e.ID, &UpdateEventRequest{
		Title:     ptr(string(long)),
		Location:  ptr("   "),
		StartTime: ptr("7:75"),
		Date:      ptr("01/09/2030"),
	}, admin, "")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	want := map[string]string{
		"title":     "title must be at most 200",
		"location":  "location is required",
		"startTime": "startTime must be in HH:MM format",
		"date":      "date must be a valid date (YYYY-MM-DD)",
	}
	if len(verr.Fields) != len(want) {
		t.Fatalf("fields = %+v", verr.Fields)
	}
	for _, f := range verr.Fields {
		if want[f.Field] != f.Message {
			t.Errorf("%s: %q, want %q", f.Field, f.Message, want[f.Field])
		}
	}
}

func TestGetAdminStatsCounting(t *testing.T) {
	svc, db, admin := setup(t)
	ctx := context.Background()

	var students []auth.User
	for _, name := range []string{"s1", "s2"} {
		u := auth.User{FullName: name, Email: name + "@college.edu", PasswordHash: "x", Role: auth.RoleStudent}
		if err := db.Create(&u).Error; err != nil {
			t.Fatal(err)
		}
		students = append(students, u)
	}

	mk := func(title string, active bool) uint {
		req := validRequest(title, "2030-10-01")
		req.IsActive = ptr(active)
		e, err := svc.CreateEvent(ctx, req, admin, "")
		if err != nil {
			t.Fatalf("CreateEvent %s: %v", title, err)
		}
		return e.ID
	}
	a := mk("A", true)
	b := mk("B", true)
	hidden := mk("Hidden", false)
	for _, title := range []string{"C", "D", "E", "F"} {
		mk(title, true)
	}

	join := func(userID, eventID uint, selected bool) {
		if err := db.Create(&Participant{EventID: eventID, UserID: userID, RegisteredAt: time.Now()}).Error; err != nil {
			t.Fatal(err)
		}
		if err := db.Create(&auth.RegisteredEvent{UserID: userID, EventID: eventID, RegisteredAt: time.Now(), Selected: selected}).Error; err != nil {
			t.Fatal(err)
		}
	}
	join(students[0].ID, a, true)
	join(students[1].ID, a, false)
	join(students[0].ID, hidden, true)
	join(admin, b, true)

	stats, err := svc.GetAdminStats(ctx)
	if err != nil {
		t.Fatalf("GetAdminStats: %v", err)
	}
	if stats.TotalEvents != 6 {
		t.Errorf("totalEvents = %d, want 6 active", stats.TotalEvents)
	}
	if stats.TotalUsers != 2 {
		t.Errorf("totalUsers = %d, want 2 students", stats.TotalUsers)
	}
	if stats.TotalRegistrations != 3 {
		t.Errorf("totalRegistrations = %d, want 3 on active events", stats.TotalRegistrations)
	}
	if stats.SelectedStudents != 2 {
		t.Errorf("selectedStudents = %d, want 2 student selections", stats.SelectedStudents)
	}
	if len(stats.RecentEvents) != 5 {
		t.Fatalf("recentEvents = %d, want 5", len(stats.RecentEvents))
	}
	if stats.RecentEvents[0].Title != "F" {
		t.Errorf("newest recent event = %q, want F", stats.RecentEvents[0].Title)
	}
	for _, e := range stats.RecentEvents {
		if !e.IsActive {
			t.Errorf("inactive event %q in recentEvents", e.Title)
		}
	}
}
