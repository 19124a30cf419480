// Package config loads tramap settings from the environment and an optional
// YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable, e.g. TRAMAP_MAP_OUTPUT.
const EnvPrefix = "TRAMAP"

// Config is the complete tramap configuration.
type Config struct {
	Year    int           `yaml:"year" envconfig:"YEAR" default:"2024" validate:"gte=2000,lte=2100"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Profile ProfileConfig `yaml:"profile" envconfig:"PROFILE"`
	Map     MapConfig     `yaml:"map" envconfig:"MAP"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// ProfileConfig locates the TAPR inputs and the profile outputs.
type ProfileConfig struct {
	DistrictInput  string `yaml:"district_input" envconfig:"DISTRICT_INPUT" default:"District STAFF Profile.xlsx" validate:"required"`
	CampusInput    string `yaml:"campus_input" envconfig:"CAMPUS_INPUT" default:"CSTAF.xlsx" validate:"required"`
	LabelsInput    string `yaml:"labels_input" envconfig:"LABELS_INPUT" default:"Campus_Staff_Information_2024_State.xlsx" validate:"required"`
	LabelsSkipRows int    `yaml:"labels_skip_rows" envconfig:"LABELS_SKIP_ROWS" default:"4" validate:"gte=0"`
	DistrictOutput string `yaml:"district_output" envconfig:"DISTRICT_OUTPUT" default:"District Teacher Profile.xlsx" validate:"required"`
	CampusOutput   string `yaml:"campus_output" envconfig:"CAMPUS_OUTPUT" default:"Campus Teacher Profile.xlsx" validate:"required"`
	MissingReport  string `yaml:"missing_report" envconfig:"MISSING_REPORT" default:"Missing Teacher Salary Data.xlsx" validate:"required"`
	Sheet          string `yaml:"sheet" envconfig:"SHEET" default:"Sheet1" validate:"required"`
}

// MapConfig locates the map inputs and sets the page text. Empty text
// fields fall back to the Senate map defaults.
type MapConfig struct {
	Directory      string `yaml:"directory" envconfig:"DIRECTORY" default:"AskTED Geocoded_Spring 2024.xlsx" validate:"required"`
	Sheet          string `yaml:"sheet" envconfig:"SHEET" default:"School Data" validate:"required"`
	Shapefile      string `yaml:"shapefile" envconfig:"SHAPEFILE" default:"PLANS2168/PLANS2168.shp" validate:"required"`
	NameField      string `yaml:"name_field" envconfig:"NAME_FIELD" default:"District" validate:"required"`
	Encoding       string `yaml:"encoding" envconfig:"ENCODING" validate:"omitempty,oneof=utf-8 windows-1252 iso-8859-1"`
	Staff          bool   `yaml:"staff" envconfig:"STAFF" default:"true"`
	StaffProfile   string `yaml:"staff_profile" envconfig:"STAFF_PROFILE" default:"Campus Teacher Profile.xlsx" validate:"required_if=Staff true"`
	Output         string `yaml:"output" envconfig:"OUTPUT" default:"index.html" validate:"required"`
	Title          string `yaml:"title" envconfig:"TITLE"`
	Heading        string `yaml:"heading" envconfig:"HEADING"`
	Description    string `yaml:"description" envconfig:"DESCRIPTION"`
	URL            string `yaml:"url" envconfig:"URL" validate:"omitempty,url"`
	ScreenshotName string `yaml:"screenshot_name" envconfig:"SCREENSHOT_NAME"`
	Footer         string `yaml:"footer" envconfig:"FOOTER"`
}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Load builds the configuration in three layers, each overriding the one
// before: struct defaults and TRAMAP_* environment variables, then the YAML
// file at path when path is not empty. Only keys present in the file replace
// environment values. Command-line flags are applied by the caller on top of
// the result. The merged configuration is validated before it is returned.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration against its validate tags.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}
