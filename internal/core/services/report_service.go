package services

import (
	"context"
	"errors"
	"time"

	"mealscan-api/internal/adapters/persistence/models"
	"mealscan-api/internal/adapters/persistence/repositories"
)

// Report errors
var (
	ErrInvalidDateRange = errors.New("invalid date range")
)

// recentScanLimit caps the dashboard activity feed
const recentScanLimit = 20

// ReportService aggregates attendance records for dashboards and audits
type ReportService struct {
	attendanceRepo repositories.AttendanceRepository
	employeeRepo   repositories.EmployeeRepository
	loc            *time.Location
	now            func() time.Time
}

// NewReportService creates a new report service
func NewReportService(
	attendanceRepo repositories.AttendanceRepository,
	employeeRepo repositories.EmployeeRepository,
	loc *time.Location,
) *ReportService {
	return &ReportService{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		loc:            loc,
		now:            time.Now,
	}
}

// DailyReport represents the per-day attendance breakdown
type DailyReport struct {
	Date       string                             `json:"date"`
	Counts     map[string]int64                   `json:"counts"`
	TotalScans int64                              `json:"total_scans"`
	Attendees  []*models.AttendanceRecordResponse `json:"attendees"`
}

// GetDailyReport returns the status breakdown and attendee list for a date
func (s *ReportService) GetDailyReport(ctx context.Context, date time.Time) (*DailyReport, error) {
	counts, err := s.attendanceRepo.CountByStatusOn(ctx, date)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, count := range counts {
		total += count
	}

	records, err := s.attendanceRepo.ListByScanDate(ctx, date, true)
	if err != nil {
		return nil, err
	}

	attendees := make([]*models.AttendanceRecordResponse, len(records))
	for i, record := range records {
		attendees[i] = record.ToResponse()
	}

	return &DailyReport{
		Date:       date.Format("2006-01-02"),
		Counts:     counts,
		TotalScans: total,
		Attendees:  attendees,
	}, nil
}

// RangeEntry is one day's success count in a range report
type RangeEntry struct {
	Date      string `json:"date"`
	Attendees int64  `json:"attendees"`
}

// GetRangeReport returns per-day success counts for [from, to], inclusive,
// with zero-filled days so charts have a contiguous series
func (s *ReportService) GetRangeReport(ctx context.Context, from, to time.Time) ([]RangeEntry, error) {
	if to.Before(from) {
		return nil, ErrInvalidDateRange
	}

	counts, err := s.attendanceRepo.CountSuccessByDate(ctx, from, to)
	if err != nil {
		return nil, err
	}

	var entries []RangeEntry
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		entries = append(entries, RangeEntry{Date: key, Attendees: counts[key]})
	}
	return entries, nil
}

// EmployeeHistory returns one employee's scan history with pagination
func (s *ReportService) EmployeeHistory(ctx context.Context, phone string, offset, limit int) ([]*models.AttendanceRecordResponse, int64, error) {
	records, total, err := s.attendanceRepo.ListByEmployee(ctx, phone, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*models.AttendanceRecordResponse, len(records))
	for i, record := range records {
		responses[i] = record.ToResponse()
	}
	return responses, total, nil
}

// Dashboard represents today's operational overview
type Dashboard struct {
	Date            string                             `json:"date"`
	Counts          map[string]int64                   `json:"counts"`
	ActiveEmployees int64                              `json:"active_employees"`
	Attended        int64                              `json:"attended"`
	RecentScans     []*models.AttendanceRecordResponse `json:"recent_scans"`
}

// GetDashboard returns today's counts, active headcount and recent activity
func (s *ReportService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	today := s.today()

	counts, err := s.attendanceRepo.CountByStatusOn(ctx, today)
	if err != nil {
		return nil, err
	}

	activeEmployees, err := s.employeeRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.attendanceRepo.Recent(ctx, recentScanLimit)
	if err != nil {
		return nil, err
	}

	recentResponses := make([]*models.AttendanceRecordResponse, len(recent))
	for i, record := range recent {
		recentResponses[i] = record.ToResponse()
	}

	return &Dashboard{
		Date:            today.Format("2006-01-02"),
		Counts:          counts,
		ActiveEmployees: activeEmployees,
		Attended:        counts[models.ScanStatusSuccess],
		RecentScans:     recentResponses,
	}, nil
}

// today is the current calendar date in the org timezone
func (s *ReportService) today() time.Time {
	year, month, day := s.now().In(s.loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
