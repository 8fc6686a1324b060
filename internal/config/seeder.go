package config

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"mealscan-api/internal/adapters/persistence/models"
	"mealscan-api/internal/pkg/password"
)

// SeedDefaultAdmin creates the initial admin account if no admin exists yet.
// Credentials come from env so a fresh deployment is never locked out.
func SeedDefaultAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.ScannerAccount{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count admin accounts: %w", err)
	}

	if count > 0 {
		log.Println("✅ Admin account already exists, skipping seed")
		return nil
	}

	username := getEnv("SEED_ADMIN_USERNAME", "admin")
	plaintext := getEnv("SEED_ADMIN_PASSWORD", "ChangeMe_123!")

	hash, err := password.Hash(plaintext)
	if err != nil {
		return fmt.Errorf("failed to hash seed admin password: %w", err)
	}

	admin := models.ScannerAccount{
		Username:     username,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}

	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}

	log.Printf("✅ Default admin account seeded [username: %s]", username)
	return nil
}
