package handlers

import (
	"errors"
	"strings"

	"mealscan-api/internal/core/services"
	"mealscan-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ScanHandler handles QR scan endpoints
type ScanHandler struct {
	scanService *services.ScanService
}

// NewScanHandler creates a new scan handler
func NewScanHandler(scanService *services.ScanService) *ScanHandler {
	return &ScanHandler{scanService: scanService}
}

// ScanRequest represents a scan submission
type ScanRequest struct {
	Code string `json:"code"`
}

// RecordScan handles a QR scan submission
// @Summary Record a QR scan
// @Description Validate a scanned QR code and record attendance for today
// @Tags Scans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ScanRequest true "Scanned QR code"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /scans [post]
func (h *ScanHandler) RecordScan(c *fiber.Ctx) error {
	accountID, ok := c.Locals("accountID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req ScanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		return response.BadRequest(c, "Code is required")
	}

	result, err := h.scanService.RecordScan(c.Context(), code, accountID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCode):
			return response.BadRequest(c, "Code is required")
		case errors.Is(err, services.ErrMissingScannerID):
			return response.Unauthorized(c, "Unauthorized")
		default:
			return response.InternalServerError(c, "Failed to record scan")
		}
	}

	// Rejections are still 200s: the scanner UI renders the outcome,
	// it does not treat duplicates or inactive employees as transport errors.
	if !result.Success() {
		return response.Fail(c, result.Message, result)
	}

	return response.Success(c, result.Message, result)
}

// MyScansToday returns the scans recorded today by the calling account
// @Summary List my scans for today
// @Description List attendance records created today by the authenticated scanner
// @Tags Scans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /scans/today [get]
func (h *ScanHandler) MyScansToday(c *fiber.Ctx) error {
	accountID, ok := c.Locals("accountID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	records, err := h.scanService.MyScansToday(c.Context(), accountID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list today's scans")
	}

	return response.Success(c, "Scans retrieved successfully", fiber.Map{
		"scans": records,
		"count": len(records),
	})
}
