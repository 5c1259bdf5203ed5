package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/vibra-events/vibra-backend/config"
	"github.com/vibra-events/vibra-backend/internal/notification"
	"github.com/vibra-events/vibra-backend/internal/testutil"
	"gorm.io/gorm"
)

type recorder struct{ activities []notification.Activity }

func (r *recorder) Dispatch(_ context.Context, a notification.Activity) error {
	r.activities = append(r.activities, a)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTAccessSecret:    "access-secret",
		JWTRefreshSecret:   "refresh-secret",
		JWTAccessTTLHours:  1,
		JWTRefreshTTLHours: 24,
		AdminEmail:         "Admin@EventApp.com",
		AdminPassword:      "Admin@123",
		AdminName:          "System Administrator",
	}
}

func setup(t *testing.T) (Service, *gorm.DB, *recorder) {
	t.Helper()
	db := testutil.NewDB(t, &User{}, &RegisteredEvent{})
	rec := &recorder{}
	return NewService(NewRepository(db), rec, testConfig()), db, rec
}

func TestRegisterCreatesStudentAndWelcomes(t *testing.T) {
	svc, _, rec := setup(t)

	tokens, user, err := svc.Register(context.Background(), RegisterInput{
		FullName: " Asha Rao ", Email: " Asha@College.edu ", Password: "secret1", Department: "CSE",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "asha@college.edu" || user.FullName != "Asha Rao" || user.Role != RoleStudent {
		t.Fatalf("user = %+v", user)
	}
	if user.PasswordHash == "secret1" || !CheckPassword(user.PasswordHash, "secret1") {
		t.Fatal("password must be stored hashed")
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatal("missing tokens")
	}
	if len(rec.activities) != 1 || rec.activities[0].Kind != notification.KindWelcome || rec.activities[0].UserIDs[0] != user.ID {
		t.Fatalf("activities = %+v", rec.activities)
	}

	id, err := svc.ParseAccessToken(tokens.AccessToken)
	if err != nil || id != user.ID {
		t.Fatalf("ParseAccessToken = %d, %v", id, err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()
	in := RegisterInput{FullName: "Ravi", Email: "ravi@college.edu", Password: "secret1"}

	if _, _, err := svc.Register(ctx, in); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	in.Email = "RAVI@college.edu"
	if _, _, err := svc.Register(ctx, in); !errors.Is(err, ErrUserExists) {
		t.Fatalf("err = %v, want ErrUserExists", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()
	if _, _, err := svc.Register(ctx, RegisterInput{FullName: "Meera", Email: "meera@college.edu", Password: "secret1"}); err != nil {
		t.Fatal(err)
	}

	if _, _, err := svc.Login(ctx, LoginInput{Email: "meera@college.edu", Password: "nope"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v", err)
	}
	if _, _, err := svc.Login(ctx, LoginInput{Email: "ghost@college.edu", Password: "secret1"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email err = %v", err)
	}
	_, user, err := svc.Login(ctx, LoginInput{Email: "MEERA@college.edu", Password: "secret1"})
	if err != nil || user.FullName != "Meera" {
		t.Fatalf("Login = %+v, %v", user, err)
	}
}

func TestRefreshAndTokenSeparation(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()
	tokens, user, err := svc.Register(ctx, RegisterInput{FullName: "Kiran", Email: "kiran@college.edu", Password: "secret1"})
	if err != nil {
		t.Fatal(err)
	}

	access, err := svc.Refresh(ctx, tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if id, err := svc.ParseAccessToken(access); err != nil || id != user.ID {
		t.Fatalf("refreshed token = %d, %v", id, err)
	}

	if _, err := svc.Refresh(ctx, tokens.AccessToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("access token accepted as refresh token: %v", err)
	}
	if _, err := svc.ParseAccessToken(tokens.RefreshToken); err == nil {
		t.Fatal("refresh token accepted as access token")
	}
	if _, err := svc.ParseAccessToken("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage err = %v", err)
	}
}

func TestSeedAdminUserIsIdempotent(t *testing.T) {
	_, db, _ := setup(t)
	cfg := testConfig()

	for i := 0; i < 2; i++ {
		if err := SeedAdminUser(db, cfg); err != nil {
			t.Fatalf("SeedAdminUser #%d: %v", i, err)
		}
	}
	var admins []User
	if err := db.Where("role = ?", RoleAdmin).Find(&admins).Error; err != nil {
		t.Fatal(err)
	}
	if len(admins) != 1 || admins[0].Email != "admin@eventapp.com" {
		t.Fatalf("admins = %+v", admins)
	}
}
