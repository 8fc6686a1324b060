package repositories

import (
	"context"
	"time"

	"mealscan-api/internal/adapters/persistence/models"
	"mealscan-api/internal/core/domain"

	"gorm.io/gorm"
)

// scannerAccountRepository implements ScannerAccountRepository interface
type scannerAccountRepository struct {
	db *gorm.DB
}

// NewScannerAccountRepository creates a new scanner account repository
func NewScannerAccountRepository(db *gorm.DB) ScannerAccountRepository {
	return &scannerAccountRepository{db: db}
}

// Create creates a new scanner account
func (r *scannerAccountRepository) Create(ctx context.Context, account *models.ScannerAccount) error {
	return translateError(r.db.WithContext(ctx).Create(account).Error)
}

// GetByID gets an account by ID
func (r *scannerAccountRepository) GetByID(ctx context.Context, id uint) (*models.ScannerAccount, error) {
	var account models.ScannerAccount
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &account, nil
}

// GetByUsername gets an account by username
func (r *scannerAccountRepository) GetByUsername(ctx context.Context, username string) (*models.ScannerAccount, error) {
	var account models.ScannerAccount
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&account).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &account, nil
}

// Update updates an account
func (r *scannerAccountRepository) Update(ctx context.Context, account *models.ScannerAccount) error {
	return translateError(r.db.WithContext(ctx).Save(account).Error)
}

// SetActive flips the active flag (soft deactivation)
func (r *scannerAccountRepository) SetActive(ctx context.Context, id uint, active bool) error {
	result := r.db.WithContext(ctx).Model(&models.ScannerAccount{}).
		Where("id = ?", id).
		Update("is_active", active)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateLastLogin stamps the last successful authentication time
func (r *scannerAccountRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return translateError(r.db.WithContext(ctx).Model(&models.ScannerAccount{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error)
}

// List lists accounts with pagination
func (r *scannerAccountRepository) List(ctx context.Context, offset, limit int) ([]*models.ScannerAccount, int64, error) {
	var accounts []*models.ScannerAccount
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.ScannerAccount{}).Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&accounts).Error
	if err != nil {
		return nil, 0, translateError(err)
	}
	return accounts, total, nil
}

// ExistsByUsername checks if a username is taken
func (r *scannerAccountRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ScannerAccount{}).
		Where("username = ?", username).Count(&count).Error
	return count > 0, translateError(err)
}

// CountAdmins counts active admin accounts
func (r *scannerAccountRepository) CountAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ScannerAccount{}).
		Where("role = ? AND is_active = ?", models.RoleAdmin, true).
		Count(&count).Error
	return count, translateError(err)
}
