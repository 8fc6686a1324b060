package domain

import "errors"

// Storage boundary error kinds. Persistence adapters translate
// backend-specific failures (driver error codes, GORM sentinels) into
// exactly one of these, so services never inspect backend errors.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrConstraintViolation = errors.New("unique constraint violation")
	ErrTransient           = errors.New("transient storage failure")
)

// ErrConfiguration marks rejected startup settings (missing salt, bad
// timezone, unknown app mode) so main fails fast before serving traffic.
var ErrConfiguration = errors.New("invalid configuration")
