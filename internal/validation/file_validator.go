package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"mortalitydash/internal/config"
	apperrors "mortalitydash/internal/errors"
)

// zipMagic opens every .xlsx container
var zipMagic = []byte("PK\x03\x04")

// InputFile describes one input as found on disk
type InputFile struct {
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Required bool      `json:"required"`
	Present  bool      `json:"present"`
	Size     int64     `json:"size,omitempty"`
	ModTime  time.Time `json:"mod_time,omitempty"`
}

// FileValidator checks input workbooks and output directories
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputDirectory checks that dir exists and is a directory
func (v *FileValidator) ValidateInputDirectory(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Input directory does not exist",
			slog.String("directory", dir))
		return fmt.Errorf("input directory %s does not exist", dir)
	}
	if err != nil {
		return fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		v.logger.Error("Input path is not a directory",
			slog.String("path", dir))
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	return info, nil
}

// ValidateWorkbook checks that path names a readable .xlsx container.
// Lock files left behind by spreadsheet editors are rejected.
func (v *FileValidator) ValidateWorkbook(path string) (os.FileInfo, error) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		return nil, fmt.Errorf("file %s is a temporary Excel file", path)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" && ext != ".xlsm" {
		return nil, fmt.Errorf("file %s is not an Excel workbook (extension: %s)", path, ext)
	}

	info, err := v.ValidateFile(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("file %s is not readable: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, len(zipMagic))
	if _, err := io.ReadFull(f, head); err != nil || !bytes.Equal(head, zipMagic) {
		return nil, fmt.Errorf("file %s is not an xlsx workbook", path)
	}
	return info, nil
}

// ValidateInputs inspects every configured input. Each missing or unreadable
// required workbook is reported in the returned error; a missing boundary
// document only shows up as not present.
func (v *FileValidator) ValidateInputs(paths *config.Paths) ([]InputFile, error) {
	if err := v.ValidateInputDirectory(paths.DataDir); err != nil {
		return nil, apperrors.NewInputMissingError("data directory", paths.DataDir, err)
	}

	required := paths.RequiredInputs()
	names := make([]string, 0, len(required))
	for name := range required {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		inventory []InputFile
		errs      []error
	)
	for _, name := range names {
		path := required[name]
		input := InputFile{Name: name, Path: path, Required: true}
		info, err := v.ValidateWorkbook(path)
		if err != nil {
			v.logger.Error("Required input unusable",
				slog.String("table", name),
				slog.String("path", path),
				slog.String("error", err.Error()))
			errs = append(errs, apperrors.NewInputMissingError(name, path, err))
		} else {
			input.Present = true
			input.Size = info.Size()
			input.ModTime = info.ModTime()
		}
		inventory = append(inventory, input)
	}

	if paths.BoundariesFile != "" {
		input := InputFile{Name: "boundaries", Path: paths.BoundariesFile}
		if info, err := v.ValidateFile(paths.BoundariesFile); err == nil {
			input.Present = true
			input.Size = info.Size()
			input.ModTime = info.ModTime()
		} else {
			v.logger.Warn("Boundary document unavailable, the map will show a placeholder",
				slog.String("path", paths.BoundariesFile))
		}
		inventory = append(inventory, input)
	}

	if len(errs) > 0 {
		return inventory, errors.Join(errs...)
	}

	v.logger.Info("Inputs validated", slog.Int("files", len(inventory)))
	return inventory, nil
}
