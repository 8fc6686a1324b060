package services

import (
	"context"
	"strings"
	"time"

	"mealscan-api/internal/adapters/persistence/models"
	"mealscan-api/internal/core/domain"
)

// In-memory repository fakes. They mirror the persistence contracts closely
// enough for service tests: not-found and duplicate-key conditions surface
// as the same domain errors the GORM implementations translate to.

// ---- employees ----

type fakeEmployeeRepo struct {
	employees map[string]*models.Employee
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[string]*models.Employee)}
}

func (r *fakeEmployeeRepo) Create(_ context.Context, employee *models.Employee) error {
	if _, ok := r.employees[employee.Phone]; ok {
		return domain.ErrConstraintViolation
	}
	clone := *employee
	r.employees[employee.Phone] = &clone
	return nil
}

func (r *fakeEmployeeRepo) GetByPhone(_ context.Context, phone string) (*models.Employee, error) {
	employee, ok := r.employees[phone]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *employee
	return &clone, nil
}

func (r *fakeEmployeeRepo) GetByCode(_ context.Context, code string) (*models.Employee, error) {
	for _, employee := range r.employees {
		if employee.QRCode == code {
			clone := *employee
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeEmployeeRepo) Update(_ context.Context, employee *models.Employee) error {
	if _, ok := r.employees[employee.Phone]; !ok {
		return domain.ErrNotFound
	}
	clone := *employee
	r.employees[employee.Phone] = &clone
	return nil
}

func (r *fakeEmployeeRepo) SetActive(_ context.Context, phone string, active bool) error {
	employee, ok := r.employees[phone]
	if !ok {
		return domain.ErrNotFound
	}
	employee.IsActive = active
	return nil
}

func (r *fakeEmployeeRepo) List(_ context.Context, offset, limit int, search string, activeOnly bool) ([]*models.Employee, int64, error) {
	var matched []*models.Employee
	for _, employee := range r.employees {
		if activeOnly && !employee.IsActive {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(employee.Name), strings.ToLower(search)) &&
			!strings.Contains(employee.Phone, search) {
			continue
		}
		clone := *employee
		matched = append(matched, &clone)
	}

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *fakeEmployeeRepo) ExistsByPhone(_ context.Context, phone string) (bool, error) {
	_, ok := r.employees[phone]
	return ok, nil
}

func (r *fakeEmployeeRepo) CountActive(_ context.Context) (int64, error) {
	var count int64
	for _, employee := range r.employees {
		if employee.IsActive {
			count++
		}
	}
	return count, nil
}

// ---- attendance records ----

type fakeAttendanceRepo struct {
	records    []*models.AttendanceRecord
	nextID     uint
	insertErrs []error // queued, consumed one per Insert call
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{nextID: 1}
}

func (r *fakeAttendanceRepo) Insert(_ context.Context, record *models.AttendanceRecord) error {
	if len(r.insertErrs) > 0 {
		err := r.insertErrs[0]
		r.insertErrs = r.insertErrs[1:]
		if err != nil {
			return err
		}
	}

	// The success dedup index rejects a second success row per employee-day
	if record.DedupKey != nil {
		for _, existing := range r.records {
			if existing.DedupKey != nil && *existing.DedupKey == *record.DedupKey {
				return domain.ErrConstraintViolation
			}
		}
	}

	clone := *record
	clone.ID = r.nextID
	r.nextID++
	r.records = append(r.records, &clone)
	record.ID = clone.ID
	return nil
}

func (r *fakeAttendanceRepo) ExistsSuccessOn(_ context.Context, phone string, scanDate time.Time) (bool, error) {
	for _, record := range r.records {
		if record.EmployeePhone == phone &&
			record.Status == models.ScanStatusSuccess &&
			record.ScanDate.Equal(scanDate) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAttendanceRepo) ListByScanDate(_ context.Context, scanDate time.Time, successOnly bool) ([]*models.AttendanceRecord, error) {
	var matched []*models.AttendanceRecord
	for _, record := range r.records {
		if !record.ScanDate.Equal(scanDate) {
			continue
		}
		if successOnly && record.Status != models.ScanStatusSuccess {
			continue
		}
		matched = append(matched, record)
	}
	return matched, nil
}

func (r *fakeAttendanceRepo) ListByEmployee(_ context.Context, phone string, offset, limit int) ([]*models.AttendanceRecord, int64, error) {
	var matched []*models.AttendanceRecord
	for _, record := range r.records {
		if record.EmployeePhone == phone {
			matched = append(matched, record)
		}
	}

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *fakeAttendanceRepo) ListByScannerOn(_ context.Context, scannerAccountID uint, scanDate time.Time) ([]*models.AttendanceRecord, error) {
	var matched []*models.AttendanceRecord
	for _, record := range r.records {
		if record.ScannerAccountID == scannerAccountID && record.ScanDate.Equal(scanDate) {
			matched = append(matched, record)
		}
	}
	return matched, nil
}

func (r *fakeAttendanceRepo) CountByStatusOn(_ context.Context, scanDate time.Time) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, record := range r.records {
		if record.ScanDate.Equal(scanDate) {
			counts[record.Status]++
		}
	}
	return counts, nil
}

func (r *fakeAttendanceRepo) CountSuccessByDate(_ context.Context, from, to time.Time) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, record := range r.records {
		if record.Status != models.ScanStatusSuccess {
			continue
		}
		if record.ScanDate.Before(from) || record.ScanDate.After(to) {
			continue
		}
		counts[record.ScanDate.Format("2006-01-02")]++
	}
	return counts, nil
}

func (r *fakeAttendanceRepo) Recent(_ context.Context, limit int) ([]*models.AttendanceRecord, error) {
	var matched []*models.AttendanceRecord
	for i := len(r.records) - 1; i >= 0 && len(matched) < limit; i-- {
		matched = append(matched, r.records[i])
	}
	return matched, nil
}

// ---- scanner accounts ----

type fakeScannerAccountRepo struct {
	accounts map[uint]*models.ScannerAccount
	nextID   uint
}

func newFakeScannerAccountRepo() *fakeScannerAccountRepo {
	return &fakeScannerAccountRepo{accounts: make(map[uint]*models.ScannerAccount), nextID: 1}
}

func (r *fakeScannerAccountRepo) Create(_ context.Context, account *models.ScannerAccount) error {
	for _, existing := range r.accounts {
		if existing.Username == account.Username {
			return domain.ErrConstraintViolation
		}
	}
	clone := *account
	clone.ID = r.nextID
	r.nextID++
	r.accounts[clone.ID] = &clone
	account.ID = clone.ID
	return nil
}

func (r *fakeScannerAccountRepo) GetByID(_ context.Context, id uint) (*models.ScannerAccount, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *account
	return &clone, nil
}

func (r *fakeScannerAccountRepo) GetByUsername(_ context.Context, username string) (*models.ScannerAccount, error) {
	for _, account := range r.accounts {
		if account.Username == username {
			clone := *account
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeScannerAccountRepo) Update(_ context.Context, account *models.ScannerAccount) error {
	if _, ok := r.accounts[account.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *account
	r.accounts[account.ID] = &clone
	return nil
}

func (r *fakeScannerAccountRepo) SetActive(_ context.Context, id uint, active bool) error {
	account, ok := r.accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	account.IsActive = active
	return nil
}

func (r *fakeScannerAccountRepo) UpdateLastLogin(_ context.Context, id uint, at time.Time) error {
	account, ok := r.accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	account.LastLoginAt = &at
	return nil
}

func (r *fakeScannerAccountRepo) List(_ context.Context, offset, limit int) ([]*models.ScannerAccount, int64, error) {
	var all []*models.ScannerAccount
	for id := uint(1); id < r.nextID; id++ {
		if account, ok := r.accounts[id]; ok {
			clone := *account
			all = append(all, &clone)
		}
	}

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeScannerAccountRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, account := range r.accounts {
		if account.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeScannerAccountRepo) CountAdmins(_ context.Context) (int64, error) {
	var count int64
	for _, account := range r.accounts {
		if account.Role == models.RoleAdmin && account.IsActive {
			count++
		}
	}
	return count, nil
}
