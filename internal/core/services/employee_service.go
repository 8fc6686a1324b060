package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"mealscan-api/internal/adapters/persistence/models"
	"mealscan-api/internal/adapters/persistence/repositories"
	"mealscan-api/internal/core/domain"
)

// Employee service errors
var (
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrEmployeeAlreadyExists = errors.New("employee already exists")
	ErrPhoneRequired         = errors.New("phone number is required")
)

// EmployeeService handles employee management business logic. Code
// derivation stays consistent with the employee's current (phone, name):
// creating an employee derives the code, and a name change re-derives it.
type EmployeeService struct {
	employeeRepo repositories.EmployeeRepository
	qrService    *QRCodeService
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(employeeRepo repositories.EmployeeRepository, qrService *QRCodeService) *EmployeeService {
	return &EmployeeService{
		employeeRepo: employeeRepo,
		qrService:    qrService,
	}
}

// CreateEmployeeInput represents create employee input
type CreateEmployeeInput struct {
	Phone      string `json:"phone"`
	Name       string `json:"name"`
	Department string `json:"department"`
	EmployeeID string `json:"employee_id"`
	Email      string `json:"email"`
}

// UpdateEmployeeInput represents update employee input; nil fields are left
// untouched. Phone is immutable and therefore absent.
type UpdateEmployeeInput struct {
	Name       *string `json:"name"`
	Department *string `json:"department"`
	EmployeeID *string `json:"employee_id"`
	Email      *string `json:"email"`
}

// ListEmployeesInput represents list employees input
type ListEmployeesInput struct {
	Offset     int
	Limit      int
	Search     string
	ActiveOnly bool
}

// ListEmployeesOutput represents list employees output
type ListEmployeesOutput struct {
	Employees []*models.EmployeeResponse `json:"employees"`
	Total     int64                      `json:"total"`
}

// CreateEmployee creates an employee and derives their QR code
func (s *EmployeeService) CreateEmployee(ctx context.Context, input *CreateEmployeeInput) (*models.EmployeeResponse, error) {
	phone := strings.TrimSpace(input.Phone)
	if phone == "" {
		return nil, ErrPhoneRequired
	}

	exists, err := s.employeeRepo.ExistsByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmployeeAlreadyExists
	}

	employee := &models.Employee{
		Phone:      phone,
		Name:       strings.TrimSpace(input.Name),
		Department: strings.TrimSpace(input.Department),
		EmployeeID: strings.TrimSpace(input.EmployeeID),
		Email:      strings.TrimSpace(input.Email),
		QRCode:     s.qrService.Derive(phone, input.Name),
		IsActive:   true,
	}

	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		if errors.Is(err, domain.ErrConstraintViolation) {
			return nil, ErrEmployeeAlreadyExists
		}
		return nil, err
	}

	log.Printf("✅ Employee created: %s (%s)", employee.Name, employee.Phone)
	return employee.ToResponse(), nil
}

// GetEmployee returns one employee by phone
func (s *EmployeeService) GetEmployee(ctx context.Context, phone string) (*models.EmployeeResponse, error) {
	employee, err := s.employeeRepo.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return employee.ToResponse(), nil
}

// ListEmployees lists employees with pagination
func (s *EmployeeService) ListEmployees(ctx context.Context, input *ListEmployeesInput) (*ListEmployeesOutput, error) {
	employees, total, err := s.employeeRepo.List(ctx, input.Offset, input.Limit, input.Search, input.ActiveOnly)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.EmployeeResponse, len(employees))
	for i, employee := range employees {
		responses[i] = employee.ToResponse()
	}

	return &ListEmployeesOutput{Employees: responses, Total: total}, nil
}

// UpdateEmployee updates employee attributes. A name change re-derives the
// stored QR code so code and identity never drift apart.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, phone string, input *UpdateEmployeeInput) (*models.EmployeeResponse, error) {
	employee, err := s.employeeRepo.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}

	if input.Name != nil && strings.TrimSpace(*input.Name) != employee.Name {
		employee.Name = strings.TrimSpace(*input.Name)
		employee.QRCode = s.qrService.Derive(employee.Phone, employee.Name)
	}
	if input.Department != nil {
		employee.Department = strings.TrimSpace(*input.Department)
	}
	if input.EmployeeID != nil {
		employee.EmployeeID = strings.TrimSpace(*input.EmployeeID)
	}
	if input.Email != nil {
		employee.Email = strings.TrimSpace(*input.Email)
	}

	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		return nil, err
	}

	return employee.ToResponse(), nil
}

// DeactivateEmployee soft-deletes an employee (active flag off)
func (s *EmployeeService) DeactivateEmployee(ctx context.Context, phone string) error {
	err := s.employeeRepo.SetActive(ctx, phone, false)
	if errors.Is(err, domain.ErrNotFound) {
		return ErrEmployeeNotFound
	}
	return err
}

// ActivateEmployee re-enables a deactivated employee
func (s *EmployeeService) ActivateEmployee(ctx context.Context, phone string) error {
	err := s.employeeRepo.SetActive(ctx, phone, true)
	if errors.Is(err, domain.ErrNotFound) {
		return ErrEmployeeNotFound
	}
	return err
}

// RegenerateResult reports the outcome of an explicit regeneration
type RegenerateResult struct {
	QRCode  string `json:"qr_code"`
	Changed bool   `json:"changed"`
}

// RegenerateQRCode re-derives the code from the employee's current
// (phone, name). The scheme is pure, so this is a no-op unless the name
// changed since the stored code was generated; Changed tells the caller
// which case occurred.
func (s *EmployeeService) RegenerateQRCode(ctx context.Context, phone string) (*RegenerateResult, error) {
	employee, err := s.employeeRepo.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}

	code := s.qrService.Derive(employee.Phone, employee.Name)
	if code == employee.QRCode {
		return &RegenerateResult{QRCode: code, Changed: false}, nil
	}

	employee.QRCode = code
	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		return nil, err
	}

	log.Printf("✅ QR code regenerated for employee %s", employee.Phone)
	return &RegenerateResult{QRCode: code, Changed: true}, nil
}

// QRCodeImage renders the employee's QR code as a PNG
func (s *EmployeeService) QRCodeImage(ctx context.Context, phone string, size int) ([]byte, error) {
	employee, err := s.employeeRepo.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return s.qrService.RenderPNG(employee.QRCode, size)
}

// ============================================================
// CSV Bulk Import
// ============================================================

// ImportRowError describes one rejected CSV row
type ImportRowError struct {
	Line  int    `json:"line"`
	Phone string `json:"phone,omitempty"`
	Error string `json:"error"`
}

// ImportResult summarizes a CSV bulk import
type ImportResult struct {
	Created int              `json:"created"`
	Skipped int              `json:"skipped"`
	Errors  []ImportRowError `json:"errors,omitempty"`
}

// ImportCSV bulk-creates employees from CSV rows of the form
// phone,name,department,employee_id,email (header row optional).
// Row failures are reported per line; they do not abort the import.
func (s *EmployeeService) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // trailing optional columns may be omitted
	reader.TrimLeadingSpace = true

	result := &ImportResult{}
	line := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, ImportRowError{Line: line, Error: err.Error()})
			continue
		}

		// Skip a header row
		if line == 1 && strings.EqualFold(strings.TrimSpace(row[0]), "phone") {
			continue
		}

		input := rowToInput(row)
		if _, err := s.CreateEmployee(ctx, input); err != nil {
			switch {
			case errors.Is(err, ErrEmployeeAlreadyExists), errors.Is(err, ErrPhoneRequired):
				result.Skipped++
				result.Errors = append(result.Errors, ImportRowError{
					Line:  line,
					Phone: input.Phone,
					Error: err.Error(),
				})
			default:
				// Infrastructure failure: abort, report progress so far
				return result, fmt.Errorf("import aborted at line %d: %w", line, err)
			}
			continue
		}
		result.Created++
	}

	log.Printf("✅ Employee import: %d created, %d skipped", result.Created, result.Skipped)
	return result, nil
}

// rowToInput maps a CSV row to create input; missing columns become ""
func rowToInput(row []string) *CreateEmployeeInput {
	get := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	return &CreateEmployeeInput{
		Phone:      get(0),
		Name:       get(1),
		Department: get(2),
		EmployeeID: get(3),
		Email:      get(4),
	}
}
