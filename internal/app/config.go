package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"ima-data/internal/provider/anbima"
)

// Config holds application configuration from env
type Config struct {
	Endpoint           string `validate:"required,url"`
	DBPath             string `validate:"required"`
	Table              string `validate:"required,table"`
	DefaultStart       time.Time
	UserAgentsFile     string `validate:"required"`
	UserAgentsSkip     int    `validate:"gte=0"`
	HolidaysFile       string `validate:"required"`
	HolidaysSkipFooter int    `validate:"gte=0"`
	Wait               anbima.Wait
	HTTPTimeout        time.Duration `validate:"gte=0"`
	DataDir            string        `validate:"required"`
	ExportFormat       string        `validate:"omitempty,oneof=csv json parquet"`
	Schedule           string
	LogLevel           string `validate:"oneof=debug info warn warning error"` // debug | info | warn | error
	LogFormat          string `validate:"oneof=text json"`
}

// LoadConfig reads config from environment, after seeding it from .env when present.
func LoadConfig() (*Config, error) {
	loadDotenv()

	cfg := &Config{
		Endpoint:       getEnv("IMA_ENDPOINT", anbima.DefaultEndpoint),
		DBPath:         getEnv("DB_PATH", "data.sqlite"),
		Table:          getEnv("DB_TABLE", "data"),
		UserAgentsFile: getEnv("USER_AGENTS_FILE", filepath.Join("input", "user-agents.txt")),
		HolidaysFile:   getEnv("HOLIDAYS_FILE", filepath.Join("input", "feriados_nacionais.xlsx")),
		DataDir:        getEnv("DATA_DIR", "data"),
		ExportFormat:   strings.ToLower(strings.TrimSpace(os.Getenv("EXPORT_FORMAT"))),
		Schedule:       strings.TrimSpace(os.Getenv("SCHEDULE")),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:      strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	var err error
	if cfg.DefaultStart, err = time.Parse(time.DateOnly, getEnv("DEFAULT_START", "2001-12-03")); err != nil {
		return nil, fmt.Errorf("DEFAULT_START: %w", err)
	}
	if cfg.UserAgentsSkip, err = getEnvInt("USER_AGENTS_SKIP", anbima.DefaultUserAgentSkipRows); err != nil {
		return nil, err
	}
	if cfg.HolidaysSkipFooter, err = getEnvInt("HOLIDAYS_SKIP_FOOTER", 9); err != nil {
		return nil, err
	}
	if cfg.Wait, err = anbima.ParseWait(getEnv("FETCH_DELAY", "500ms")); err != nil {
		return nil, fmt.Errorf("FETCH_DELAY: %w", err)
	}
	if v := os.Getenv("HTTP_TIMEOUT"); v != "" {
		if cfg.HTTPTimeout, err = time.ParseDuration(v); err != nil {
			return nil, fmt.Errorf("HTTP_TIMEOUT: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("table", func(fl validator.FieldLevel) bool {
		return tableName(fl.Field().String())
	})
	return v
}

func tableName(s string) bool {
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return s != ""
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// loadDotenv seeds the environment from ENV_FILE or ./.env. Existing variables win.
func loadDotenv() {
	if os.Getenv("NO_DOTENV") == "1" {
		return
	}
	if f := os.Getenv("ENV_FILE"); f != "" {
		_ = godotenv.Load(f)
		return
	}
	_ = godotenv.Load()
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// ExportDir returns data/export
func (c *Config) ExportDir() string {
	return filepath.Join(c.DataDir, "export")
}

// ReportDir returns the folder holding .lastrun.json
func (c *Config) ReportDir() string {
	return c.DataDir
}
