package repositories

import (
	"context"
	"time"

	"mealscan-api/internal/adapters/persistence/models"
)

// EmployeeRepository defines employee repository interface
type EmployeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	GetByPhone(ctx context.Context, phone string) (*models.Employee, error)
	GetByCode(ctx context.Context, code string) (*models.Employee, error)
	Update(ctx context.Context, employee *models.Employee) error
	SetActive(ctx context.Context, phone string, active bool) error
	List(ctx context.Context, offset, limit int, search string, activeOnly bool) ([]*models.Employee, int64, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	CountActive(ctx context.Context) (int64, error)
}

// AttendanceRepository defines attendance record repository interface.
// Records are append-only; Insert reports duplicate-key failures on the
// success dedup index as domain.ErrConstraintViolation.
type AttendanceRepository interface {
	Insert(ctx context.Context, record *models.AttendanceRecord) error
	ExistsSuccessOn(ctx context.Context, phone string, scanDate time.Time) (bool, error)
	ListByScanDate(ctx context.Context, scanDate time.Time, successOnly bool) ([]*models.AttendanceRecord, error)
	ListByEmployee(ctx context.Context, phone string, offset, limit int) ([]*models.AttendanceRecord, int64, error)
	ListByScannerOn(ctx context.Context, scannerAccountID uint, scanDate time.Time) ([]*models.AttendanceRecord, error)
	CountByStatusOn(ctx context.Context, scanDate time.Time) (map[string]int64, error)
	CountSuccessByDate(ctx context.Context, from, to time.Time) (map[string]int64, error)
	Recent(ctx context.Context, limit int) ([]*models.AttendanceRecord, error)
}

// ScannerAccountRepository defines scanner account repository interface
type ScannerAccountRepository interface {
	Create(ctx context.Context, account *models.ScannerAccount) error
	GetByID(ctx context.Context, id uint) (*models.ScannerAccount, error)
	GetByUsername(ctx context.Context, username string) (*models.ScannerAccount, error)
	Update(ctx context.Context, account *models.ScannerAccount) error
	SetActive(ctx context.Context, id uint, active bool) error
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	List(ctx context.Context, offset, limit int) ([]*models.ScannerAccount, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	CountAdmins(ctx context.Context) (int64, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByAccountID(ctx context.Context, accountID uint) error
	DeleteExpired(ctx context.Context) error
}
