package repositories

import (
	"context"

	"mealscan-api/internal/adapters/persistence/models"
	"mealscan-api/internal/core/domain"

	"gorm.io/gorm"
)

// employeeRepository implements EmployeeRepository interface
type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

// Create creates a new employee
func (r *employeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	return translateError(r.db.WithContext(ctx).Create(employee).Error)
}

// GetByPhone gets an employee by phone number
func (r *employeeRepository) GetByPhone(ctx context.Context, phone string) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&employee).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &employee, nil
}

// GetByCode gets an employee by QR code string (exact match)
func (r *employeeRepository) GetByCode(ctx context.Context, code string) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).Where("qr_code = ?", code).First(&employee).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &employee, nil
}

// Update updates an employee
func (r *employeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	return translateError(r.db.WithContext(ctx).Save(employee).Error)
}

// SetActive flips the active flag (soft delete / reactivate)
func (r *employeeRepository) SetActive(ctx context.Context, phone string, active bool) error {
	result := r.db.WithContext(ctx).Model(&models.Employee{}).
		Where("phone = ?", phone).
		Update("is_active", active)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lists employees with pagination and optional search/active filter
func (r *employeeRepository) List(ctx context.Context, offset, limit int, search string, activeOnly bool) ([]*models.Employee, int64, error) {
	var employees []*models.Employee
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Employee{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("phone LIKE ? OR name LIKE ? OR department LIKE ? OR employee_id LIKE ?",
			like, like, like, like)
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&employees).Error
	if err != nil {
		return nil, 0, translateError(err)
	}
	return employees, total, nil
}

// ExistsByPhone checks if an employee with the phone exists
func (r *employeeRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Employee{}).
		Where("phone = ?", phone).Count(&count).Error
	return count > 0, translateError(err)
}

// CountActive counts active employees
func (r *employeeRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Employee{}).
		Where("is_active = ?", true).Count(&count).Error
	return count, translateError(err)
}
