package handlers

import (
	"errors"
	"strconv"
	"strings"

	"mealscan-api/internal/core/services"
	"mealscan-api/internal/pkg/pagination"
	"mealscan-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// EmployeeHandler handles employee management endpoints (admin only)
type EmployeeHandler struct {
	employeeService *services.EmployeeService
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(employeeService *services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// CreateEmployee handles employee registration
// @Summary Create employee
// @Description Register an employee and derive their QR code
// @Tags Employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateEmployeeInput true "Employee data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/employees [post]
func (h *EmployeeHandler) CreateEmployee(c *fiber.Ctx) error {
	var req services.CreateEmployeeInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if strings.TrimSpace(req.Phone) == "" {
		return response.BadRequest(c, "Phone is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return response.BadRequest(c, "Name is required")
	}

	employee, err := h.employeeService.CreateEmployee(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPhoneRequired):
			return response.BadRequest(c, "Phone is required")
		case errors.Is(err, services.ErrEmployeeAlreadyExists):
			return response.Conflict(c, "Employee with this phone already exists")
		default:
			return response.InternalServerError(c, "Failed to create employee")
		}
	}

	return response.Created(c, "Employee created successfully", fiber.Map{
		"employee": employee,
	})
}

// GetEmployee retrieves one employee by phone
// @Summary Get employee
// @Description Get an employee by phone number
// @Tags Employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param phone path string true "Employee phone"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/employees/{phone} [get]
func (h *EmployeeHandler) GetEmployee(c *fiber.Ctx) error {
	phone := c.Params("phone")

	employee, err := h.employeeService.GetEmployee(c.Context(), phone)
	if err != nil {
		if errors.Is(err, services.ErrEmployeeNotFound) {
			return response.NotFound(c, "Employee not found")
		}
		return response.InternalServerError(c, "Failed to get employee")
	}

	return response.Success(c, "Employee retrieved successfully", fiber.Map{
		"employee": employee,
	})
}

// ListEmployees lists employees with pagination and search
// @Summary List employees
// @Description List employees with optional search and active-only filter
// @Tags Employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param search query string false "Search by name or phone"
// @Param active_only query bool false "Only active employees"
// @Success 200 {object} response.Response
// @Router /admin/employees [get]
func (h *EmployeeHandler) ListEmployees(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	activeOnly, _ := strconv.ParseBool(c.Query("active_only", "false"))

	result, err := h.employeeService.ListEmployees(c.Context(), &services.ListEmployeesInput{
		Offset:     params.Offset,
		Limit:      params.Limit,
		Search:     strings.TrimSpace(c.Query("search")),
		ActiveOnly: activeOnly,
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to list employees")
	}

	return response.Success(c, "Employees retrieved successfully", fiber.Map{
		"employees":  result.Employees,
		"pagination": pagination.GetMeta(params, result.Total),
	})
}

// UpdateEmployee updates employee details
// @Summary Update employee
// @Description Update employee fields; a name change re-derives the QR code
// @Tags Employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param phone path string true "Employee phone"
// @Param body body services.UpdateEmployeeInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/employees/{phone} [put]
func (h *EmployeeHandler) UpdateEmployee(c *fiber.Ctx) error {
	phone := c.Params("phone")

	var req services.UpdateEmployeeInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	employee, err := h.employeeService.UpdateEmployee(c.Context(), phone, &req)
	if err != nil {
		if errors.Is(err, services.ErrEmployeeNotFound) {
			return response.NotFound(c, "Employee not found")
		}
		return response.InternalServerError(c, "Failed to update employee")
	}

	return response.Success(c, "Employee updated successfully", fiber.Map{
		"employee": employee,
	})
}

// DeactivateEmployee marks an employee inactive
// @Summary Deactivate employee
// @Description Deactivate an employee so their QR code stops scanning
// @Tags Employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param phone path string true "Employee phone"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/employees/{phone} [delete]
func (h *EmployeeHandler) DeactivateEmployee(c *fiber.Ctx) error {
	phone := c.Params("phone")

	if err := h.employeeService.DeactivateEmployee(c.Context(), phone); err != nil {
		if errors.Is(err, services.ErrEmployeeNotFound) {
			return response.NotFound(c, "Employee not found")
		}
		return response.InternalServerError(c, "Failed to deactivate employee")
	}

	return response.Success(c, "Employee deactivated successfully", nil)
}

// ActivateEmployee re-activates an employee
// @Summary Activate employee
// @Description Re-activate an employee so their QR code scans again
// @Tags Employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param phone path string true "Employee phone"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/employees/{phone}/activate [post]
func (h *EmployeeHandler) ActivateEmployee(c *fiber.Ctx) error {
	phone := c.Params("phone")

	if err := h.employeeService.ActivateEmployee(c.Context(), phone); err != nil {
		if errors.Is(err, services.ErrEmployeeNotFound) {
			return response.NotFound(c, "Employee not found")
		}
		return response.InternalServerError(c, "Failed to activate employee")
	}

	return response.Success(c, "Employee activated successfully", nil)
}

// RegenerateQRCode re-derives an employee's QR code
// @Summary Regenerate QR code
// @Description Re-derive the employee's QR code from their current details
// @Tags Employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param phone path string true "Employee phone"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/employees/{phone}/regenerate-qr [post]
func (h *EmployeeHandler) RegenerateQRCode(c *fiber.Ctx) error {
	phone := c.Params("phone")

	result, err := h.employeeService.RegenerateQRCode(c.Context(), phone)
	if err != nil {
		if errors.Is(err, services.ErrEmployeeNotFound) {
			return response.NotFound(c, "Employee not found")
		}
		return response.InternalServerError(c, "Failed to regenerate QR code")
	}

	message := "QR code unchanged"
	if result.Changed {
		message = "QR code regenerated successfully"
	}

	return response.Success(c, message, result)
}

// QRCodeImage renders an employee's QR code as a PNG
// @Summary Get QR code image
// @Description Render the employee's QR code as a PNG image
// @Tags Employees
// @Produce png
// @Security BearerAuth
// @Param phone path string true "Employee phone"
// @Param size query int false "Image size in pixels"
// @Success 200 {file} binary
// @Failure 404 {object} response.Response
// @Router /admin/employees/{phone}/qrcode [get]
func (h *EmployeeHandler) QRCodeImage(c *fiber.Ctx) error {
	phone := c.Params("phone")
	size, _ := strconv.Atoi(c.Query("size", strconv.Itoa(services.DefaultQRImageSize)))

	png, err := h.employeeService.QRCodeImage(c.Context(), phone, size)
	if err != nil {
		if errors.Is(err, services.ErrEmployeeNotFound) {
			return response.NotFound(c, "Employee not found")
		}
		return response.InternalServerError(c, "Failed to render QR code")
	}

	c.Type("png")
	return c.Send(png)
}

// ImportCSV bulk-creates employees from an uploaded CSV file
// @Summary Import employees from CSV
// @Description Bulk-create employees from a CSV file (phone,name,department,employee_id,email)
// @Tags Employees
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/employees/import [post]
func (h *EmployeeHandler) ImportCSV(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "CSV file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.BadRequest(c, "Failed to open uploaded file")
	}
	defer file.Close()

	result, err := h.employeeService.ImportCSV(c.Context(), file)
	if err != nil {
		return response.InternalServerError(c, "Import aborted: "+err.Error())
	}

	return response.Success(c, "Import completed", result)
}
