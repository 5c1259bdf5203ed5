package auth

import (
	"errors"
	"fmt"
	"log"

	"github.com/vibra-events/vibra-backend/config"
	"gorm.io/gorm"
)

// SeedAdminUser creates the default administrator when no user owns ADMIN_EMAIL yet.
func SeedAdminUser(db *gorm.DB, cfg *config.Config) error {
	email := normalizeEmail(cfg.AdminEmail)

	var existing User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}

	hash, err := HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	admin := User{
		FullName:     cfg.AdminName,
		Email:        email,
		PasswordHash: hash,
		Role:         RoleAdmin,
		Department:   "Administration",
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Printf("✅ Default admin user created: %s", email)
	return nil
}
