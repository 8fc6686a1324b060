package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"mealscan-api/internal/core/domain"
)

func TestValidateSecretSalt(t *testing.T) {
	if err := ValidateSecretSalt(""); !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("expected an empty salt to be rejected as a configuration error, got %v", err)
	}
	if err := ValidateSecretSalt(strings.Repeat("s", MinSecretSaltLength-1)); !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("expected a short salt to be rejected as a configuration error, got %v", err)
	}
	if err := ValidateSecretSalt(strings.Repeat("s", MinSecretSaltLength)); err != nil {
		t.Errorf("expected a %d-char salt to be accepted: %v", MinSecretSaltLength, err)
	}
}

func TestLoadQRConfigRequiresSalt(t *testing.T) {
	t.Setenv("QR_SECRET_SALT", "")
	if _, err := loadQRConfig(); err == nil {
		t.Error("expected loadQRConfig to fail without QR_SECRET_SALT")
	}

	t.Setenv("QR_SECRET_SALT", strings.Repeat("s", MinSecretSaltLength))
	cfg, err := loadQRConfig()
	if err != nil {
		t.Fatalf("loadQRConfig failed: %v", err)
	}
	if cfg.SecretSalt != strings.Repeat("s", MinSecretSaltLength) {
		t.Error("salt not carried into config")
	}
}

func TestLoadAttendanceConfig(t *testing.T) {
	t.Setenv("ATTENDANCE_TIMEZONE", "Asia/Kolkata")
	t.Setenv("SUMMARY_CRON", "")

	cfg, err := loadAttendanceConfig()
	if err != nil {
		t.Fatalf("loadAttendanceConfig failed: %v", err)
	}
	if cfg.Timezone != "Asia/Kolkata" {
		t.Errorf("expected Asia/Kolkata, got %q", cfg.Timezone)
	}
	if cfg.Location == nil {
		t.Fatal("expected a loaded location")
	}
	if _, offset := time.Date(2026, 3, 2, 12, 0, 0, 0, cfg.Location).Zone(); offset != 5*3600+1800 {
		t.Errorf("expected +05:30 offset, got %d", offset)
	}
	if cfg.SummaryCron != "30 10 * * *" {
		t.Errorf("expected default summary cron, got %q", cfg.SummaryCron)
	}
}

func TestLoadAttendanceConfigRejectsBadTimezone(t *testing.T) {
	t.Setenv("ATTENDANCE_TIMEZONE", "Not/AZone")
	if _, err := loadAttendanceConfig(); !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("expected an invalid timezone to be rejected as a configuration error, got %v", err)
	}
}

func TestBuildDSNKeepsUTC(t *testing.T) {
	dsn := buildDSN(DatabaseConfig{
		Host:     "localhost",
		Port:     "3306",
		User:     "mealscan",
		Password: "secret",
		DBName:   "mealscan_db",
	})

	if !strings.HasPrefix(dsn, "mealscan:secret@tcp(localhost:3306)/mealscan_db?") {
		t.Errorf("unexpected DSN shape: %q", dsn)
	}
	if !strings.Contains(dsn, "parseTime=True") {
		t.Errorf("expected parseTime in DSN: %q", dsn)
	}
	// Scan dates are UTC midnights; a local-zone DSN would shift them into
	// the previous day on hosts west of UTC before they reach the DATE column.
	if !strings.Contains(dsn, "loc=UTC") {
		t.Errorf("expected DSN to pin loc=UTC: %q", dsn)
	}
}
