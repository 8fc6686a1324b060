package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"mealscan-api/internal/core/domain"
)

// MinSecretSaltLength is the minimum accepted QR secret salt length.
// Starting with a shorter salt would derive weak codes, so config loading
// fails hard instead.
const MinSecretSaltLength = 32

// Config holds all configuration for the application
type Config struct {
	AppMode    string
	Port       string
	Database   DatabaseConfig
	JWT        JWTConfig
	Cookie     CookieConfig
	QR         QRConfig
	Attendance AttendanceConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// QRConfig holds QR code derivation configuration
type QRConfig struct {
	SecretSalt string
}

// AttendanceConfig holds attendance workflow configuration
type AttendanceConfig struct {
	Timezone    string
	Location    *time.Location
	SummaryCron string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("%w: invalid APP_MODE '%s' (must be 'dev' or 'prod')", domain.ErrConfiguration, appMode)
	}

	qrConfig, err := loadQRConfig()
	if err != nil {
		return nil, err
	}

	attendanceConfig, err := loadAttendanceConfig()
	if err != nil {
		return nil, err
	}

	config := &Config{
		AppMode:    appMode,
		Port:       getEnv("PORT", "3000"),
		Database:   loadDatabaseConfig(appMode),
		JWT:        loadJWTConfig(appMode),
		Cookie:     loadCookieConfig(appMode),
		QR:         qrConfig,
		Attendance: attendanceConfig,
	}

	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s, TZ: %s]", appMode, attendanceConfig.Timezone)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "mealscan"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "15"))
	refreshDays, _ := strconv.Atoi(getEnv("REFRESH_TOKEN_DAYS", "7"))

	return JWTConfig{
		Secret:           getEnv(prefix+"JWT_SECRET", "default_secret"),
		RefreshSecret:    getEnv(prefix+"JWT_REFRESH_SECRET", "default_refresh_secret"),
		AccessTokenMins:  accessMins,
		RefreshTokenDays: refreshDays,
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	secure, _ := strconv.ParseBool(getEnv(prefix+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

// loadQRConfig loads and validates the QR derivation secret. There is no
// safe default: a missing or short salt is a startup failure so the
// application never serves scans with weak codes.
func loadQRConfig() (QRConfig, error) {
	salt := os.Getenv("QR_SECRET_SALT")
	if err := ValidateSecretSalt(salt); err != nil {
		return QRConfig{}, err
	}
	return QRConfig{SecretSalt: salt}, nil
}

// ValidateSecretSalt enforces the salt contract at startup
func ValidateSecretSalt(salt string) error {
	if salt == "" {
		return fmt.Errorf("%w: QR_SECRET_SALT is required", domain.ErrConfiguration)
	}
	if len(salt) < MinSecretSaltLength {
		return fmt.Errorf("%w: QR_SECRET_SALT must be at least %d characters (got %d)", domain.ErrConfiguration, MinSecretSaltLength, len(salt))
	}
	return nil
}

// loadAttendanceConfig loads the org timezone and the summary job schedule.
// The configured timezone is the single "today" boundary for scan dedup;
// device-local time is never used.
func loadAttendanceConfig() (AttendanceConfig, error) {
	tz := getEnv("ATTENDANCE_TIMEZONE", "Local")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return AttendanceConfig{}, fmt.Errorf("%w: invalid ATTENDANCE_TIMEZONE '%s': %v", domain.ErrConfiguration, tz, err)
	}

	return AttendanceConfig{
		Timezone:    tz,
		Location:    loc,
		SummaryCron: getEnv("SUMMARY_CRON", "30 10 * * *"),
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://mealscan.internal"
	}
	return origins
}
