package repositories

import (
	"context"
	"time"

	"mealscan-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// attendanceRepository implements AttendanceRepository interface
type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

// Insert appends a new attendance record. A duplicate-key failure on the
// success dedup index comes back as domain.ErrConstraintViolation so the
// scan workflow can downgrade a racing success to duplicate.
func (r *attendanceRepository) Insert(ctx context.Context, record *models.AttendanceRecord) error {
	return translateError(r.db.WithContext(ctx).Create(record).Error)
}

// ExistsSuccessOn checks whether a success record exists for the employee
// on the given calendar date
func (r *attendanceRepository) ExistsSuccessOn(ctx context.Context, phone string, scanDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AttendanceRecord{}).
		Where("employee_phone = ? AND scan_date = ? AND status = ?",
			phone, scanDate.Format("2006-01-02"), models.ScanStatusSuccess).
		Count(&count).Error
	return count > 0, translateError(err)
}

// ListByScanDate returns records for a calendar date, newest first
func (r *attendanceRepository) ListByScanDate(ctx context.Context, scanDate time.Time, successOnly bool) ([]*models.AttendanceRecord, error) {
	var records []*models.AttendanceRecord
	query := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Scanner").
		Where("scan_date = ?", scanDate.Format("2006-01-02"))
	if successOnly {
		query = query.Where("status = ?", models.ScanStatusSuccess)
	}
	err := query.Order("scanned_at DESC").Find(&records).Error
	return records, translateError(err)
}

// ListByEmployee returns an employee's scan history with pagination
func (r *attendanceRepository) ListByEmployee(ctx context.Context, phone string, offset, limit int) ([]*models.AttendanceRecord, int64, error) {
	var records []*models.AttendanceRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&models.AttendanceRecord{}).
		Where("employee_phone = ?", phone)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	err := query.Preload("Scanner").
		Order("scanned_at DESC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, translateError(err)
	}
	return records, total, nil
}

// ListByScannerOn returns the records a scanner account produced on a date
func (r *attendanceRepository) ListByScannerOn(ctx context.Context, scannerAccountID uint, scanDate time.Time) ([]*models.AttendanceRecord, error) {
	var records []*models.AttendanceRecord
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("scanner_account_id = ? AND scan_date = ?",
			scannerAccountID, scanDate.Format("2006-01-02")).
		Order("scanned_at DESC").
		Find(&records).Error
	return records, translateError(err)
}

// CountByStatusOn returns record counts by status for a calendar date
func (r *attendanceRepository) CountByStatusOn(ctx context.Context, scanDate time.Time) (map[string]int64, error) {
	type result struct {
		Status string
		Count  int64
	}
	var results []result

	err := r.db.WithContext(ctx).Model(&models.AttendanceRecord{}).
		Select("status, COUNT(*) as count").
		Where("scan_date = ?", scanDate.Format("2006-01-02")).
		Group("status").
		Find(&results).Error
	if err != nil {
		return nil, translateError(err)
	}

	statusMap := map[string]int64{
		models.ScanStatusSuccess:   0,
		models.ScanStatusDuplicate: 0,
		models.ScanStatusInvalid:   0,
		models.ScanStatusInactive:  0,
	}
	for _, res := range results {
		statusMap[res.Status] = res.Count
	}
	return statusMap, nil
}

// CountSuccessByDate returns success counts per calendar date in [from, to]
func (r *attendanceRepository) CountSuccessByDate(ctx context.Context, from, to time.Time) (map[string]int64, error) {
	type result struct {
		ScanDate time.Time
		Count    int64
	}
	var results []result

	err := r.db.WithContext(ctx).Model(&models.AttendanceRecord{}).
		Select("scan_date, COUNT(*) as count").
		Where("scan_date BETWEEN ? AND ? AND status = ?",
			from.Format("2006-01-02"), to.Format("2006-01-02"), models.ScanStatusSuccess).
		Group("scan_date").
		Find(&results).Error
	if err != nil {
		return nil, translateError(err)
	}

	counts := make(map[string]int64, len(results))
	for _, res := range results {
		counts[res.ScanDate.Format("2006-01-02")] = res.Count
	}
	return counts, nil
}

// Recent returns the most recent records across all employees
func (r *attendanceRepository) Recent(ctx context.Context, limit int) ([]*models.AttendanceRecord, error) {
	var records []*models.AttendanceRecord
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Scanner").
		Order("scanned_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, translateError(err)
}
