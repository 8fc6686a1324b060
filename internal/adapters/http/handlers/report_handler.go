package handlers

import (
	"errors"
	"time"

	"mealscan-api/internal/config"
	"mealscan-api/internal/core/services"
	"mealscan-api/internal/pkg/pagination"
	"mealscan-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles attendance report endpoints (admin only)
type ReportHandler struct {
	reportService *services.ReportService
	cfg           *config.Config
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService, cfg *config.Config) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		cfg:           cfg,
	}
}

// parseDate parses a YYYY-MM-DD query value in the org timezone
func (h *ReportHandler) parseDate(value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", value, h.cfg.Attendance.Location)
}

// DailyReport returns the attendance breakdown for a date
// @Summary Daily attendance report
// @Description Status breakdown and attendee list for a date (defaults to today)
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param date query string false "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/reports/daily [get]
func (h *ReportHandler) DailyReport(c *fiber.Ctx) error {
	date := time.Now().In(h.cfg.Attendance.Location)
	if raw := c.Query("date"); raw != "" {
		parsed, err := h.parseDate(raw)
		if err != nil {
			return response.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		}
		date = parsed
	}

	report, err := h.reportService.GetDailyReport(c.Context(), date)
	if err != nil {
		return response.InternalServerError(c, "Failed to build daily report")
	}

	return response.Success(c, "Daily report retrieved successfully", report)
}

// RangeReport returns per-day attendance counts for a date range
// @Summary Range attendance report
// @Description Per-day success counts between two dates, inclusive
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/reports/range [get]
func (h *ReportHandler) RangeReport(c *fiber.Ctx) error {
	from, err := h.parseDate(c.Query("from"))
	if err != nil {
		return response.BadRequest(c, "Invalid 'from' date, expected YYYY-MM-DD")
	}
	to, err := h.parseDate(c.Query("to"))
	if err != nil {
		return response.BadRequest(c, "Invalid 'to' date, expected YYYY-MM-DD")
	}

	entries, err := h.reportService.GetRangeReport(c.Context(), from, to)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDateRange) {
			return response.BadRequest(c, "'to' date must not be before 'from' date")
		}
		return response.InternalServerError(c, "Failed to build range report")
	}

	return response.Success(c, "Range report retrieved successfully", fiber.Map{
		"entries": entries,
	})
}

// EmployeeHistory returns one employee's scan history
// @Summary Employee scan history
// @Description Paginated attendance records for one employee
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param phone path string true "Employee phone"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /admin/reports/employees/{phone} [get]
func (h *ReportHandler) EmployeeHistory(c *fiber.Ctx) error {
	phone := c.Params("phone")
	params := pagination.GetParams(c)

	records, total, err := h.reportService.EmployeeHistory(c.Context(), phone, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to get employee history")
	}

	return response.Success(c, "Employee history retrieved successfully", fiber.Map{
		"records":    records,
		"pagination": pagination.GetMeta(params, total),
	})
}

// Dashboard returns today's attendance overview
// @Summary Attendance dashboard
// @Description Today's counts, attendance rate inputs, and recent scans
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	dashboard, err := h.reportService.GetDashboard(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build dashboard")
	}

	return response.Success(c, "Dashboard retrieved successfully", dashboard)
}
