package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Paths contains every file system path the application reads or writes.
// It is the single source of truth for input locations.
type Paths struct {
	DataDir        string
	MortalityFile  string
	CausesFile     string
	DivipolaFile   string
	PopulationFile string
	BoundariesFile string
	ExportDir      string
	LogsDir        string
}

// GetPaths resolves the configured file names against the data directory.
// Relative directories are resolved against the current working directory.
func (c *Config) GetPaths() (*Paths, error) {
	dataDir, err := filepath.Abs(c.Data.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory %s: %w", c.Data.Dir, err)
	}

	resolve := func(name string) string {
		if name == "" {
			return ""
		}
		if filepath.IsAbs(name) {
			return name
		}
		return filepath.Join(dataDir, name)
	}

	exportDir := c.Data.ExportDir
	if exportDir != "" && !filepath.IsAbs(exportDir) {
		exportDir, err = filepath.Abs(exportDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve export directory: %w", err)
		}
	}

	logsDir := ""
	if c.Logging.Output != "console" && c.Logging.FilePath != "" {
		logsDir = filepath.Dir(c.Logging.FilePath)
	}

	return &Paths{
		DataDir:        dataDir,
		MortalityFile:  resolve(c.Data.MortalityFile),
		CausesFile:     resolve(c.Data.CausesFile),
		DivipolaFile:   resolve(c.Data.DivipolaFile),
		PopulationFile: resolve(c.Data.PopulationFile),
		BoundariesFile: resolve(c.Data.BoundariesFile),
		ExportDir:      exportDir,
		LogsDir:        logsDir,
	}, nil
}

// RequiredInputs returns the core tables keyed by a human-readable name
func (p *Paths) RequiredInputs() map[string]string {
	return map[string]string{
		"mortality":  p.MortalityFile,
		"causes":     p.CausesFile,
		"divipola":   p.DivipolaFile,
		"population": p.PopulationFile,
	}
}

// ValidateRequiredFiles reports every missing core table in one error
func (p *Paths) ValidateRequiredFiles() error {
	var missing []string
	for _, name := range []string{"mortality", "causes", "divipola", "population"} {
		path := p.RequiredInputs()[name]
		if !FileExists(path) {
			missing = append(missing, fmt.Sprintf("%s (%s)", name, path))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("required files missing: %s", strings.Join(missing, ", "))
	}
	return nil
}

// EnsureDirectories creates the writable directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ExportDir, p.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetExportPath returns the path for an exported file
func (p *Paths) GetExportPath(filename string) string {
	return filepath.Join(p.ExportDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved input and output locations
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Path resolution summary",
		slog.Group("inputs",
			slog.String("data_dir", p.DataDir),
			slog.String("mortality", p.MortalityFile),
			slog.String("causes", p.CausesFile),
			slog.String("divipola", p.DivipolaFile),
			slog.String("population", p.PopulationFile),
			slog.String("boundaries", p.BoundariesFile),
		),
		slog.Group("outputs",
			slog.String("exports", p.ExportDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Bool("boundaries_present", FileExists(p.BoundariesFile)))
}
