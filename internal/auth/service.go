package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vibra-events/vibra-backend/config"
	"github.com/vibra-events/vibra-backend/internal/notification"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists          = errors.New("User already exists")
	ErrUserNotFound        = errors.New("User not found")
	ErrInvalidCredentials  = errors.New("Invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrInvalidToken        = errors.New("invalid token")
)

type TokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type Service interface {
	Register(ctx context.Context, input RegisterInput) (*TokenPair, *User, error)
	Login(ctx context.Context, input LoginInput) (*TokenPair, *User, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	GetUserByID(ctx context.Context, userID uint) (User, error)
	ParseAccessToken(tokenStr string) (uint, error)
}

type service struct {
	repo          Repository
	dispatcher    notification.Dispatcher
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewService wires the auth service. dispatcher may be nil; signups then produce no welcome notification.
func NewService(r Repository, d notification.Dispatcher, cfg *config.Config) Service {
	return &service{
		repo:          r,
		dispatcher:    d,
		accessSecret:  cfg.JWTAccessSecret,
		refreshSecret: cfg.JWTRefreshSecret,
		accessTTL:     time.Duration(cfg.JWTAccessTTLHours) * time.Hour,
		refreshTTL:    time.Duration(cfg.JWTRefreshTTLHours) * time.Hour,
	}
}

// =============================
// Register
// =============================

type RegisterInput struct {
	FullName    string
	Email       string
	Password    string
	Department  string
	Year        string
	StudentID   string
	PhoneNumber string
}

// Register creates a student account and logs it in. Admin accounts are only seeded or promoted.
func (s *service) Register(ctx context.Context, in RegisterInput) (*TokenPair, *User, error) {
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, nil, err
	}

	user := &User{
		FullName:     strings.TrimSpace(in.FullName),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		Role:         RoleStudent,
		Department:   strings.TrimSpace(in.Department),
		Year:         strings.TrimSpace(in.Year),
		StudentID:    strings.TrimSpace(in.StudentID),
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	if s.dispatcher != nil {
		err := s.dispatcher.Dispatch(ctx, notification.Activity{
			Kind:     notification.KindWelcome,
			UserIDs:  []uint{user.ID},
			UserName: user.FullName,
		})
		if err != nil {
			log.Printf("⚠️ welcome notification for user %d: %v", user.ID, err)
		}
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return tokens, user, nil
}

// =============================
// Login
// =============================

type LoginInput struct {
	Email    string
	Password string
}

func (s *service) Login(ctx context.Context, in LoginInput) (*TokenPair, *User, error) {
	user, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !CheckPassword(user.PasswordHash, in.Password) {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return tokens, user, nil
}

func (s *service) issueTokens(user *User) (*TokenPair, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *service) generateAccessToken(user *User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(s.accessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.accessSecret))
}

func (s *service) generateRefreshToken(user *User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"jti":     uuid.NewString(),
		"exp":     time.Now().Add(s.refreshTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.refreshSecret))
}

// =============================
// Refresh
// =============================

func (s *service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := parseUserID(refreshToken, s.refreshSecret)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return s.generateAccessToken(&user)
}

// ParseAccessToken validates an access token and returns the user id it was issued for.
func (s *service) ParseAccessToken(tokenStr string) (uint, error) {
	return parseUserID(tokenStr, s.accessSecret)
}

func parseUserID(tokenStr, secret string) (uint, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok || userIDFloat <= 0 {
		return 0, ErrInvalidToken
	}
	return uint(userIDFloat), nil
}

func (s *service) GetUserByID(ctx context.Context, userID uint) (User, error) {
	return s.repo.FindByID(ctx, userID)
}

// =============================
// Password helpers
// =============================

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
