package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestLoadFrom tests configuration precedence and validation
func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no file and no env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8050, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "datos_mortalidad.xlsx", cfg.Data.MortalityFile)
				assert.Equal(t, "Colombia.geo.json", cfg.Data.BoundariesFile)
				assert.Equal(t, "DPTO", cfg.Data.BoundaryFeatureKey)
				assert.Equal(t, 2019, cfg.Analysis.AnalysisYear)
				assert.Equal(t, 2020, cfg.Analysis.PopulationYear)
				assert.Equal(t, "Total", cfg.Analysis.PopulationArea)
				assert.Equal(t, 10000.0, cfg.Analysis.MinPopulation)
				assert.Equal(t, 10, cfg.Analysis.RankedSubRegions)
				assert.Equal(t, 10, cfg.Analysis.TopCauses)
				assert.Equal(t, 5, cfg.Analysis.TopViolentSubRegions)
				assert.Len(t, cfg.Analysis.HomicideCodes, 11)
			},
		},
		{
			name: "file overrides defaults",
			file: `
server:
  port: 9000
  read_timeout: 5s
analysis:
  min_population: 5000
  population_year: 2019
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9000, cfg.Server.Port)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 5000.0, cfg.Analysis.MinPopulation)
				assert.Equal(t, 2019, cfg.Analysis.PopulationYear)
				// untouched keys keep their defaults
				assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, "Total", cfg.Analysis.PopulationArea)
			},
		},
		{
			name: "env overrides file",
			file: `
server:
  port: 9000
`,
			env: map[string]string{
				"MORT_SERVER_PORT":             "9100",
				"MORT_DATA_DIR":                "/srv/data",
				"MORT_ANALYSIS_HOMICIDE_CODES": "X950,X951",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9100, cfg.Server.Port)
				assert.Equal(t, "/srv/data", cfg.Data.Dir)
				assert.Equal(t, []string{"X950", "X951"}, cfg.Analysis.HomicideCodes)
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"MORT_SERVER_PORT": "70000"},
			wantErr: true,
		},
		{
			name: "non-positive minimum population",
			file: `
analysis:
  min_population: 0
`,
			wantErr: true,
		},
		{
			name:    "unknown trace exporter",
			env:     map[string]string{"MORT_TELEMETRY_TRACE_EXPORTER": "otlp"},
			wantErr: true,
		},
		{
			name:    "file output without path",
			env:     map[string]string{"MORT_LOGGING_OUTPUT": "file", "MORT_LOGGING_FILE_PATH": ""},
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "server: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := LoadFrom(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestAnalysisConfig_DataNote(t *testing.T) {
	tests := []struct {
		name       string
		analysis   int
		population int
		wantEmpty  bool
	}{
		{name: "years differ", analysis: 2019, population: 2020},
		{name: "years agree", analysis: 2020, population: 2020, wantEmpty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note := AnalysisConfig{AnalysisYear: tt.analysis, PopulationYear: tt.population}.DataNote()
			if tt.wantEmpty {
				assert.Empty(t, note)
				return
			}
			assert.Contains(t, note, "2020")
			assert.Contains(t, note, "2019")
		})
	}
}

func TestDefaultHomicideCodes_ReturnsCopy(t *testing.T) {
	codes := DefaultHomicideCodes()
	codes[0] = "CHANGED"

	fresh := DefaultHomicideCodes()
	assert.Equal(t, "X950", fresh[0])
	assert.Equal(t, "Y871", fresh[len(fresh)-1])
}
