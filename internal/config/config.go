package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is the prefix for every environment variable read by Load
const EnvPrefix = "MORT"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" validate:"gt=0"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" validate:"min=1"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gt=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// DataConfig names the input workbooks and the boundary document
type DataConfig struct {
	Dir                string `yaml:"dir" envconfig:"DIR" validate:"required"`
	MortalityFile      string `yaml:"mortality_file" envconfig:"MORTALITY_FILE" validate:"required"`
	CausesFile         string `yaml:"causes_file" envconfig:"CAUSES_FILE" validate:"required"`
	DivipolaFile       string `yaml:"divipola_file" envconfig:"DIVIPOLA_FILE" validate:"required"`
	PopulationFile     string `yaml:"population_file" envconfig:"POPULATION_FILE" validate:"required"`
	BoundariesFile     string `yaml:"boundaries_file" envconfig:"BOUNDARIES_FILE"`
	BoundaryFeatureKey string `yaml:"boundary_feature_key" envconfig:"BOUNDARY_FEATURE_KEY" validate:"required"`
	ExportDir          string `yaml:"export_dir" envconfig:"EXPORT_DIR"`
}

// AnalysisConfig holds the fixed parameters of the analysis
type AnalysisConfig struct {
	// AnalysisYear is the year shown in titles
	AnalysisYear int `yaml:"analysis_year" envconfig:"YEAR" validate:"gte=1900,lte=2100"`
	// PopulationYear selects the population projection rows
	PopulationYear       int      `yaml:"population_year" envconfig:"POPULATION_YEAR" validate:"gte=1900,lte=2100"`
	PopulationArea       string   `yaml:"population_area" envconfig:"POPULATION_AREA" validate:"required"`
	MinPopulation        float64  `yaml:"min_population" envconfig:"MIN_POPULATION" validate:"gt=0"`
	RankedSubRegions     int      `yaml:"ranked_sub_regions" envconfig:"RANKED_SUB_REGIONS" validate:"gte=1"`
	TopCauses            int      `yaml:"top_causes" envconfig:"TOP_CAUSES" validate:"gte=1"`
	TopViolentSubRegions int      `yaml:"top_violent_sub_regions" envconfig:"TOP_VIOLENT_SUB_REGIONS" validate:"gte=1"`
	HomicideCodes        []string `yaml:"homicide_codes" envconfig:"HOMICIDE_CODES" validate:"min=1,dive,required"`
}

// TelemetryConfig controls tracing and metrics export
type TelemetryConfig struct {
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" validate:"oneof=prometheus none"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
}

// DataNote describes the year mismatch between population and analysis labels.
// It is empty when both years agree.
func (a AnalysisConfig) DataNote() string {
	if a.PopulationYear == a.AnalysisYear {
		return ""
	}
	return fmt.Sprintf("Las tasas de mortalidad usan proyecciones de población de %d; el análisis está rotulado como %d.",
		a.PopulationYear, a.AnalysisYear)
}

// Load loads configuration from defaults, an optional YAML file and environment variables.
// Environment variables take precedence over the file, which takes precedence over defaults.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is Load with an explicit YAML file path; an empty path skips the file
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Only variables that are set override; the struct carries no default tags
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every section of the configuration
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging file path is required for output %q", c.Logging.Output)
	}
	return nil
}

// getConfigFilePath returns the path to the config file, or "" when none exists
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG_FILE"); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8050,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			RequestTimeout:  20 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8050"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     50,
				Burst:   100,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Data: DataConfig{
			Dir:                ".",
			MortalityFile:      "datos_mortalidad.xlsx",
			CausesFile:         "codigos_causas.xlsx",
			DivipolaFile:       "divipola.xlsx",
			PopulationFile:     "proyecciones_poblacion_municipal.xlsx",
			BoundariesFile:     "Colombia.geo.json",
			BoundaryFeatureKey: "DPTO",
			ExportDir:          "exports",
		},
		Analysis: AnalysisConfig{
			AnalysisYear:         2019,
			PopulationYear:       2020,
			PopulationArea:       "Total",
			MinPopulation:        10000,
			RankedSubRegions:     10,
			TopCauses:            10,
			TopViolentSubRegions: 5,
			HomicideCodes:        DefaultHomicideCodes(),
		},
		Telemetry: TelemetryConfig{
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
	}
}
