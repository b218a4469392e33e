package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// Roster sources
const (
	SourceCSV    = "csv"
	SourceSheets = "sheets"
)

const configFileBase = "ta_config"

// CSVConfig locates the roster when it is stored as a CSV file
type CSVConfig struct {
	InputPath string `yaml:"inputPath"`
	// OutputPath defaults to InputPath
	OutputPath string `yaml:"outputPath,omitempty"`
}

// SheetsConfig locates the roster when it is stored in a Google Sheets tab
type SheetsConfig struct {
	SpreadsheetID string `yaml:"spreadsheetID"`
	Tab           string `yaml:"tab"`
}

// ColumnsConfig controls how new session columns are named
type ColumnsConfig struct {
	Prefix string `yaml:"prefix" validate:"required"`

	// StartIndex is the number used for the first generated column (prefix + index).
	// 0 means one past the highest existing prefix + index column. A run whose names
	// would reuse an existing column fails rather than overwriting it.
	StartIndex int `yaml:"startIndex" validate:"min=0"`

	// Count is the number of columns to generate per run
	Count int `yaml:"count" validate:"min=1,max=100"`

	// Schedule is an optional RFC 5545 recurrence rule. When set, columns are named
	// prefix + session date (YYYY-MM-DD) instead of prefix + index.
	Schedule string `yaml:"schedule,omitempty"`

	// ScheduleStart (YYYY-MM-DD) anchors the schedule. Defaults to today.
	ScheduleStart string `yaml:"scheduleStart,omitempty"`
}

// AllocationConfig tunes the station allocation
type AllocationConfig struct {
	Stations int `yaml:"stations" validate:"min=1,max=64"`
	Capacity int `yaml:"capacity" validate:"min=1"`

	// AvoidanceAttempts and RandomAttempts bound the random draws per placement.
	// Unset means 15 and 8; an explicit 0 skips the draws and goes straight to the scan.
	AvoidanceAttempts *int `yaml:"avoidanceAttempts,omitempty" validate:"omitempty,min=0"`
	RandomAttempts    *int `yaml:"randomAttempts,omitempty" validate:"omitempty,min=0"`

	Seed       *int64 `yaml:"seed,omitempty"`
	DecodeMode string `yaml:"decodeMode,omitempty" validate:"omitempty,oneof=skip zero strict"`
}

// Config represents the application configuration
type Config struct {
	Source      string           `yaml:"source" validate:"required,oneof=csv sheets"`
	CSV         CSVConfig        `yaml:"csv,omitempty"`
	Sheets      SheetsConfig     `yaml:"sheets,omitempty"`
	DatabaseURL string           `yaml:"databaseURL,omitempty"`
	Columns     ColumnsConfig    `yaml:"columns"`
	Allocation  AllocationConfig `yaml:"allocation"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from ta_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration for an environment
// For example, env="test" will look for "ta_config.test.yaml"
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyDefaults fills unset fields with the 8 stations x 3 seats defaults
func ApplyDefaults(cfg *Config) {
	if cfg.Columns.Prefix == "" {
		cfg.Columns.Prefix = "Lab_"
	}
	if cfg.Columns.Count == 0 {
		cfg.Columns.Count = 1
	}
	if cfg.Allocation.Stations == 0 {
		cfg.Allocation.Stations = 8
	}
	if cfg.Allocation.Capacity == 0 {
		cfg.Allocation.Capacity = 3
	}
	if cfg.Allocation.AvoidanceAttempts == nil {
		attempts := 15
		cfg.Allocation.AvoidanceAttempts = &attempts
	}
	if cfg.Allocation.RandomAttempts == nil {
		attempts := 8
		cfg.Allocation.RandomAttempts = &attempts
	}
	if cfg.Allocation.DecodeMode == "" {
		cfg.Allocation.DecodeMode = "skip"
	}
	if cfg.CSV.OutputPath == "" {
		cfg.CSV.OutputPath = cfg.CSV.InputPath
	}
}

// Validate validates the configuration struct, the source settings and the schedule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	switch cfg.Source {
	case SourceCSV:
		if cfg.CSV.InputPath == "" {
			return fmt.Errorf("config validation failed: csv.inputPath is required for source %q", SourceCSV)
		}
	case SourceSheets:
		if cfg.Sheets.SpreadsheetID == "" || cfg.Sheets.Tab == "" {
			return fmt.Errorf("config validation failed: sheets.spreadsheetID and sheets.tab are required for source %q", SourceSheets)
		}
	}

	if cfg.Columns.Schedule != "" {
		if _, err := rrule.StrToRRule(cfg.Columns.Schedule); err != nil {
			return fmt.Errorf("invalid rrule in columns.schedule: %w", err)
		}
	}

	if cfg.Columns.ScheduleStart != "" {
		if _, err := time.Parse("2006-01-02", cfg.Columns.ScheduleStart); err != nil {
			return fmt.Errorf("invalid columns.scheduleStart (expected YYYY-MM-DD): %w", err)
		}
	}

	return nil
}

// findConfigFile searches for the config file in current directory and home directory
// If env is provided, it adds it as an extension (e.g., "ta_config.test.yaml")
func findConfigFile(env string) (string, error) {
	configFileName := configFileBase + ".yaml"
	if env != "" {
		configFileName = configFileBase + "." + env + ".yaml"
	}

	return findFile(configFileName)
}
