package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Scanner Accounts & Auth Tables
// ============================================================

// Scanner account roles
const (
	RoleAdmin   = "admin"
	RoleScanner = "scanner"
)

// ScannerAccount represents scanner_accounts table.
// One account per operator identity; deactivated, never deleted.
type ScannerAccount struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"uniqueIndex;size:50;not null" json:"username"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	Role         string     `gorm:"size:20;default:'scanner'" json:"role"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ScannerAccount) TableName() string {
	return "scanner_accounts"
}

// ScannerAccountResponse DTO
type ScannerAccountResponse struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (a *ScannerAccount) ToResponse() *ScannerAccountResponse {
	return &ScannerAccountResponse{
		ID:          a.ID,
		Username:    a.Username,
		Role:        a.Role,
		IsActive:    a.IsActive,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	ScannerAccountID uint           `gorm:"index;not null" json:"scanner_account_id"`
	TokenHash        string         `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt        time.Time      `gorm:"not null" json:"expires_at"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt        *time.Time     `gorm:"index" json:"revoked_at"`
	Account          ScannerAccount `gorm:"foreignKey:ScannerAccountID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Employees
// ============================================================

// Employee represents employees table. Phone is the immutable primary key.
// The stored qr_code is derived from (phone, name) at generation time; a
// name change must regenerate it or the two drift apart.
type Employee struct {
	Phone      string    `gorm:"primaryKey;size:20" json:"phone"`
	Name       string    `gorm:"size:100" json:"name"`
	Department string    `gorm:"size:100" json:"department"`
	EmployeeID string    `gorm:"size:50" json:"employee_id"`
	Email      string    `gorm:"size:100" json:"email"`
	QRCode     string    `gorm:"uniqueIndex;size:64;not null" json:"qr_code"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

// EmployeeResponse DTO
type EmployeeResponse struct {
	Phone      string    `json:"phone"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	EmployeeID string    `json:"employee_id"`
	Email      string    `json:"email"`
	QRCode     string    `json:"qr_code"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (e *Employee) ToResponse() *EmployeeResponse {
	return &EmployeeResponse{
		Phone:      e.Phone,
		Name:       e.Name,
		Department: e.Department,
		EmployeeID: e.EmployeeID,
		Email:      e.Email,
		QRCode:     e.QRCode,
		IsActive:   e.IsActive,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

// ============================================================
// Attendance Records (append-only audit)
// ============================================================

// Attendance outcomes
const (
	ScanStatusSuccess   = "success"
	ScanStatusDuplicate = "duplicate"
	ScanStatusInvalid   = "invalid"
	ScanStatusInactive  = "inactive"
)

// AttendanceRecord represents attendance_records table. One row per scan
// attempt, never updated or deleted. DedupKey is set only on success rows
// (phone|date); its unique index is what guarantees at most one success per
// employee per calendar day. MySQL unique indexes skip NULLs, so rejected
// attempts accumulate freely.
type AttendanceRecord struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	EmployeePhone    string    `gorm:"size:20;not null;index" json:"employee_phone"`
	ScannerAccountID uint      `gorm:"not null;index" json:"scanner_account_id"`
	ScannedAt        time.Time `gorm:"not null" json:"scanned_at"`
	ScanDate         time.Time `gorm:"type:date;not null;index" json:"scan_date"`
	Status           string    `gorm:"size:20;not null;index" json:"status"`
	Message          string    `gorm:"size:255" json:"message"`
	DedupKey         *string   `gorm:"size:40;uniqueIndex" json:"-"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Employee *Employee       `gorm:"foreignKey:EmployeePhone" json:"employee,omitempty"`
	Scanner  *ScannerAccount `gorm:"foreignKey:ScannerAccountID" json:"scanner,omitempty"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// SuccessDedupKey builds the unique key guarding one success per day
func SuccessDedupKey(phone string, scanDate time.Time) string {
	return fmt.Sprintf("%s|%s", phone, scanDate.Format("2006-01-02"))
}

// AttendanceRecordResponse DTO
type AttendanceRecordResponse struct {
	ID               uint      `json:"id"`
	EmployeePhone    string    `json:"employee_phone"`
	EmployeeName     string    `json:"employee_name,omitempty"`
	Department       string    `json:"department,omitempty"`
	ScannerAccountID uint      `json:"scanner_account_id"`
	ScannerUsername  string    `json:"scanner_username,omitempty"`
	ScannedAt        time.Time `json:"scanned_at"`
	ScanDate         string    `json:"scan_date"`
	Status           string    `json:"status"`
	Message          string    `json:"message"`
}

func (r *AttendanceRecord) ToResponse() *AttendanceRecordResponse {
	resp := &AttendanceRecordResponse{
		ID:               r.ID,
		EmployeePhone:    r.EmployeePhone,
		ScannerAccountID: r.ScannerAccountID,
		ScannedAt:        r.ScannedAt,
		ScanDate:         r.ScanDate.Format("2006-01-02"),
		Status:           r.Status,
		Message:          r.Message,
	}

	if r.Employee != nil {
		resp.EmployeeName = r.Employee.Name
		resp.Department = r.Employee.Department
	}
	if r.Scanner != nil {
		resp.ScannerUsername = r.Scanner.Username
	}

	return resp
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&ScannerAccount{},
		&RefreshToken{},
		&Employee{},
		&AttendanceRecord{},
	)
}
