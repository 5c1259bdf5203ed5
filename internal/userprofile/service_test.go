package userprofile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vibra-events/vibra-backend/internal/auth"
	"github.com/vibra-events/vibra-backend/internal/event"
	"github.com/vibra-events/vibra-backend/internal/testutil"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2030, 1, 10, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*service, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t, &auth.User{}, &auth.RegisteredEvent{}, &event.Event{}, &event.Participant{})
	svc := NewService(NewRepository(db), nil).(*service)
	svc.now = func() time.Time { return fixedNow }
	return svc, db
}

func createUser(t *testing.T, db *gorm.DB, name, role, password string) auth.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := auth.User{FullName: name, Email: name + "@college.edu", PasswordHash: hash, Role: role, Department: "CSE"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func createEvent(t *testing.T, db *gorm.DB, title string, date time.Time, createdBy uint) uint {
	t.Helper()
	e := event.Event{
		Title:           title,
		Description:     "desc",
		Category:        "seminar",
		Date:            date,
		StartTime:       "10:00",
		EndTime:         "11:00",
		Location:        "Room 1",
		MaxParticipants: 10,
		CreatedBy:       createdBy,
		IsActive:        true,
	}
	if err := db.Omit("Creator", "Participants").Create(&e).Error; err != nil {
		t.Fatalf("create event: %v", err)
	}
	return e.ID
}

func register(t *testing.T, db *gorm.DB, userID, eventID uint, at time.Time) {
	t.Helper()
	if err := db.Create(&auth.RegisteredEvent{UserID: userID, EventID: eventID, RegisteredAt: at}).Error; err != nil {
		t.Fatalf("create registration: %v", err)
	}
	if err := db.Create(&event.Participant{EventID: eventID, UserID: userID, RegisteredAt: at}).Error; err != nil {
		t.Fatalf("create participant: %v", err)
	}
}

func TestUpdateProfileChangesOnlyProvidedFields(t *testing.T) {
	svc, db := setup(t)
	u := createUser(t, db, "asha", auth.RoleStudent, "secret1")

	got, err := svc.UpdateProfile(context.Background(), u.ID, UpdateProfileRequest{Year: "3", PhoneNumber: "  99999  "})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if got.Year != "3" || got.PhoneNumber != "99999" {
		t.Fatalf("year/phone = %q/%q", got.Year, got.PhoneNumber)
	}
	if got.FullName != "asha" || got.Department != "CSE" || got.Role != auth.RoleStudent {
		t.Fatalf("untouched fields changed: %+v", got)
	}
}

func TestUpdateProfilePassword(t *testing.T) {
	svc, db := setup(t)
	u := createUser(t, db, "ravi", auth.RoleStudent, "secret1")
	ctx := context.Background()

	_, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileRequest{CurrentPassword: "wrong", NewPassword: "newpass"})
	if !errors.Is(err, ErrIncorrectPassword) {
		t.Fatalf("err = %v, want ErrIncorrectPassword", err)
	}

	if _, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileRequest{CurrentPassword: "secret1", NewPassword: "newpass"}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	var stored auth.User
	if err := db.First(&stored, u.ID).Error; err != nil {
		t.Fatal(err)
	}
	if !auth.CheckPassword(stored.PasswordHash, "newpass") {
		t.Fatal("password was not changed")
	}
}

func TestUpdateProfileMissingUser(t *testing.T) {
	svc, _ := setup(t)
	if _, err := svc.UpdateProfile(context.Background(), 404, UpdateProfileRequest{FullName: "x"}); !errors.Is(err, auth.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestRegisteredEventsAndDashboardStats(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	admin := createUser(t, db, "admin", auth.RoleAdmin, "secret1")
	student := createUser(t, db, "meera", auth.RoleStudent, "secret1")
	createUser(t, db, "kiran", auth.RoleStudent, "secret1")

	past := createEvent(t, db, "Orientation", fixedNow.AddDate(0, 0, -5), admin.ID)
	future := createEvent(t, db, "Fest", fixedNow.AddDate(0, 0, 5), admin.ID)
	register(t, db, student.ID, past, fixedNow.AddDate(0, 0, -6))
	register(t, db, student.ID, future, fixedNow.AddDate(0, 0, -1))

	views, err := svc.RegisteredEvents(ctx, student.ID)
	if err != nil {
		t.Fatalf("RegisteredEvents: %v", err)
	}
	if len(views) != 2 || views[0].Event == nil || views[0].Event.Title != "Fest" {
		t.Fatalf("views = %+v", views)
	}

	stats, err := svc.DashboardStats(ctx, student)
	if err != nil {
		t.Fatalf("DashboardStats: %v", err)
	}
	if stats.TotalRegistered != 2 || stats.UpcomingEvents != 1 || stats.CompletedEvents != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.AdminCounts != nil {
		t.Fatal("students must not see admin counts")
	}

	adminStats, err := svc.DashboardStats(ctx, admin)
	if err != nil {
		t.Fatalf("DashboardStats admin: %v", err)
	}
	if adminStats.AdminCounts == nil {
		t.Fatal("admin counts missing")
	}
	if adminStats.TotalEvents != 2 || adminStats.TotalUsers != 2 || adminStats.EventsCreated != 2 {
		t.Fatalf("admin counts = %+v", adminStats.AdminCounts)
	}
}

func TestListUsersPaginationAndRole(t *testing.T) {
	svc, db := setup(t)
	createUser(t, db, "admin", auth.RoleAdmin, "secret1")
	for _, n := range []string{"a", "b", "c"} {
		createUser(t, db, n, auth.RoleStudent, "secret1")
	}

	list, err := svc.ListUsers(context.Background(), UserListFilter{Role: "student", Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if list.Total != 3 || list.TotalPages != 2 || list.CurrentPage != 2 || len(list.Users) != 1 {
		t.Fatalf("list = total %d pages %d page %d users %d", list.Total, list.TotalPages, list.CurrentPage, len(list.Users))
	}

	all, err := svc.ListUsers(context.Background(), UserListFilter{Role: "all"})
	if err != nil {
		t.Fatalf("ListUsers all: %v", err)
	}
	if all.Total != 4 || all.CurrentPage != 1 {
		t.Fatalf("all = %+v", all)
	}
}

func TestUpdateRole(t *testing.T) {
	svc, db := setup(t)
	u := createUser(t, db, "dev", auth.RoleStudent, "secret1")
	ctx := context.Background()

	if _, err := svc.UpdateRole(ctx, 1, u.ID, "superuser", ""); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("err = %v, want ErrInvalidRole", err)
	}
	if _, err := svc.UpdateRole(ctx, 1, 999, auth.RoleAdmin, ""); !errors.Is(err, auth.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
	got, err := svc.UpdateRole(ctx, 1, u.ID, auth.RoleAdmin, "")
	if err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}
	if got.Role != auth.RoleAdmin {
		t.Fatalf("role = %q", got.Role)
	}
}

func TestUpdateUserRejectsTakenEmail(t *testing.T) {
	svc, db := setup(t)
	a := createUser(t, db, "anu", auth.RoleStudent, "secret1")
	createUser(t, db, "bala", auth.RoleStudent, "secret1")
	ctx := context.Background()

	if _, err := svc.UpdateUser(ctx, 1, a.ID, AdminUpdateUserRequest{Email: "BALA@college.edu"}, ""); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
	got, err := svc.UpdateUser(ctx, 1, a.ID, AdminUpdateUserRequest{Email: "anu.k@college.edu", Department: "ECE"}, "")
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if got.Email != "anu.k@college.edu" || got.Department != "ECE" || got.FullName != "anu" {
		t.Fatalf("user = %+v", got)
	}
}

func TestStudentsWithRegistrations(t *testing.T) {
	svc, db := setup(t)
	admin := createUser(t, db, "admin", auth.RoleAdmin, "secret1")
	with := createUser(t, db, "neha", auth.RoleStudent, "secret1")
	createUser(t, db, "omar", auth.RoleStudent, "secret1")
	e := createEvent(t, db, "Quiz", fixedNow.AddDate(0, 1, 0), admin.ID)
	register(t, db, with.ID, e, fixedNow)
	register(t, db, admin.ID, e, fixedNow)

	users, err := svc.StudentsWithRegistrations(context.Background())
	if err != nil {
		t.Fatalf("StudentsWithRegistrations: %v", err)
	}
	if len(users) != 1 || users[0].ID != with.ID {
		t.Fatalf("users = %+v", users)
	}
	if len(users[0].RegisteredEvents) != 1 || users[0].RegisteredEvents[0].Event == nil || users[0].RegisteredEvents[0].Event.Title != "Quiz" {
		t.Fatalf("registrations = %+v", users[0].RegisteredEvents)
	}
}
