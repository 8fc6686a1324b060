package services

import (
	"context"
	"errors"
	"log"
	"time"

	"mealscan-api/internal/adapters/persistence/models"
	"mealscan-api/internal/adapters/persistence/repositories"
	"mealscan-api/internal/core/domain"
)

// Scan errors (caller contract violations, not scan outcomes)
var (
	ErrEmptyCode        = errors.New("scan code must not be empty")
	ErrMissingScannerID = errors.New("scanner account id must not be empty")
)

// Outcome messages shown to the operator and persisted on the audit record
const (
	msgScanSuccess   = "Scan successful"
	msgScanDuplicate = "Employee already scanned today"
	msgScanInactive  = "Employee account is inactive"
	msgScanInvalid   = "Invalid QR code"
)

// ScanResult is the outcome of one scan attempt. Rejections are results,
// not errors: the service returns a Go error only for infrastructure
// failures (store unreachable, timeout).
type ScanResult struct {
	Outcome      string     `json:"outcome"`
	Message      string     `json:"message"`
	EmployeeName string     `json:"employee_name,omitempty"`
	Timestamp    *time.Time `json:"timestamp,omitempty"`
}

// Success reports whether the scan registered an attendance
func (r *ScanResult) Success() bool {
	return r.Outcome == models.ScanStatusSuccess
}

// ScanService executes the daily-attendance workflow: validate the code,
// check the employee, dedup against today's successes, and append exactly
// one audit record per attempt (except unknown codes, which have no
// employee phone to key a record on).
type ScanService struct {
	employeeRepo   repositories.EmployeeRepository
	attendanceRepo repositories.AttendanceRepository
	qrService      *QRCodeService
	loc            *time.Location
	now            func() time.Time
}

// NewScanService creates a new scan service. loc is the organizational
// timezone that defines the "today" boundary for dedup.
func NewScanService(
	employeeRepo repositories.EmployeeRepository,
	attendanceRepo repositories.AttendanceRepository,
	qrService *QRCodeService,
	loc *time.Location,
) *ScanService {
	return &ScanService{
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		qrService:      qrService,
		loc:            loc,
		now:            time.Now,
	}
}

// ScanDateOf maps an instant to its calendar date in the org timezone.
// The result is a date-only value; dedup compares these for equality.
func (s *ScanService) ScanDateOf(t time.Time) time.Time {
	year, month, day := t.In(s.loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// RecordScan decides the outcome of one scan event and persists it.
// Order matters: lookup → code re-check → active check → dedup → insert.
// Inactive takes precedence over duplicate so operators see the real
// reason even when the employee also scanned earlier under a prior
// active period.
func (s *ScanService) RecordScan(ctx context.Context, code string, scannerAccountID uint) (*ScanResult, error) {
	if code == "" {
		return nil, ErrEmptyCode
	}
	if scannerAccountID == 0 {
		return nil, ErrMissingScannerID
	}

	// 1. Look up the employee by stored code (exact match)
	employee, err := s.employeeRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// No employee phone to key an audit record on
			return &ScanResult{Outcome: models.ScanStatusInvalid, Message: msgScanInvalid}, nil
		}
		return nil, err
	}

	// 2. Re-derive and compare: a mismatch means the stored code is stale
	// (name changed without regeneration) or tampered, same as not found
	if !s.qrService.Validate(code, employee.Phone, employee.Name) {
		return &ScanResult{Outcome: models.ScanStatusInvalid, Message: msgScanInvalid}, nil
	}

	scannedAt := s.now()
	scanDate := s.ScanDateOf(scannedAt)

	// 3. Active check
	if !employee.IsActive {
		if err := s.insertRecord(ctx, employee.Phone, scannerAccountID, scannedAt, scanDate,
			models.ScanStatusInactive, msgScanInactive, false); err != nil {
			return nil, err
		}
		return &ScanResult{
			Outcome:      models.ScanStatusInactive,
			Message:      msgScanInactive,
			EmployeeName: employee.Name,
		}, nil
	}

	// 4. Already scanned today?
	exists, err := s.attendanceRepo.ExistsSuccessOn(ctx, employee.Phone, scanDate)
	if err != nil {
		return nil, err
	}
	if exists {
		if err := s.insertRecord(ctx, employee.Phone, scannerAccountID, scannedAt, scanDate,
			models.ScanStatusDuplicate, msgScanDuplicate, false); err != nil {
			return nil, err
		}
		return &ScanResult{
			Outcome:      models.ScanStatusDuplicate,
			Message:      msgScanDuplicate,
			EmployeeName: employee.Name,
		}, nil
	}

	// 5. Register attendance. A constraint violation here means another
	// scanner won the race since step 4; that is a duplicate, not an error.
	err = s.insertRecord(ctx, employee.Phone, scannerAccountID, scannedAt, scanDate,
		models.ScanStatusSuccess, msgScanSuccess, true)
	if errors.Is(err, domain.ErrConstraintViolation) {
		if err := s.insertRecord(ctx, employee.Phone, scannerAccountID, scannedAt, scanDate,
			models.ScanStatusDuplicate, msgScanDuplicate, false); err != nil {
			return nil, err
		}
		return &ScanResult{
			Outcome:      models.ScanStatusDuplicate,
			Message:      msgScanDuplicate,
			EmployeeName: employee.Name,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Attendance registered: %s (%s) by scanner %d", employee.Name, employee.Phone, scannerAccountID)

	return &ScanResult{
		Outcome:      models.ScanStatusSuccess,
		Message:      msgScanSuccess,
		EmployeeName: employee.Name,
		Timestamp:    &scannedAt,
	}, nil
}

// MyScansToday returns the records the acting scanner produced today
func (s *ScanService) MyScansToday(ctx context.Context, scannerAccountID uint) ([]*models.AttendanceRecordResponse, error) {
	records, err := s.attendanceRepo.ListByScannerOn(ctx, scannerAccountID, s.ScanDateOf(s.now()))
	if err != nil {
		return nil, err
	}

	responses := make([]*models.AttendanceRecordResponse, len(records))
	for i, record := range records {
		responses[i] = record.ToResponse()
	}
	return responses, nil
}

// insertRecord appends one audit row; success rows carry the dedup key
func (s *ScanService) insertRecord(ctx context.Context, phone string, scannerAccountID uint,
	scannedAt, scanDate time.Time, status, message string, success bool) error {

	record := &models.AttendanceRecord{
		EmployeePhone:    phone,
		ScannerAccountID: scannerAccountID,
		ScannedAt:        scannedAt,
		ScanDate:         scanDate,
		Status:           status,
		Message:          message,
	}
	if success {
		key := models.SuccessDedupKey(phone, scanDate)
		record.DedupKey = &key
	}
	return s.attendanceRepo.Insert(ctx, record)
}
