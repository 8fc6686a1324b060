package services

import (
	"context"
	"log"
	"time"

	"mealscan-api/internal/adapters/persistence/models"

	"github.com/robfig/cron/v3"
)

// CronService runs scheduled attendance jobs: a post-breakfast summary log
// each morning. Schedules are evaluated in the org timezone so the summary
// fires after the breakfast window regardless of server locale.
type CronService struct {
	cron          *cron.Cron
	reportService *ReportService
	summarySpec   string
}

// NewCronService creates a new cron service
func NewCronService(reportService *ReportService, loc *time.Location, summarySpec string) *CronService {
	return &CronService{
		cron:          cron.New(cron.WithLocation(loc)),
		reportService: reportService,
		summarySpec:   summarySpec,
	}
}

// Start registers and launches all scheduled jobs
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(s.summarySpec, s.logDailySummary); err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("🚀 CronService started (daily summary: %q)", s.summarySpec)
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 CronService stopped")
}

// logDailySummary logs today's attendance breakdown
func (s *CronService) logDailySummary() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dashboard, err := s.reportService.GetDashboard(ctx)
	if err != nil {
		log.Printf("❌ Daily summary query error: %v", err)
		return
	}

	log.Printf("📅 Attendance summary %s: %d/%d attended (duplicates: %d, inactive: %d, invalid: %d)",
		dashboard.Date,
		dashboard.Attended,
		dashboard.ActiveEmployees,
		dashboard.Counts[models.ScanStatusDuplicate],
		dashboard.Counts[models.ScanStatusInactive],
		dashboard.Counts[models.ScanStatusInvalid],
	)
}
