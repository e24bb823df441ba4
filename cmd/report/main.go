// Command report runs the mortality pipeline once and prints the dashboard
// panels as terminal tables, optionally exporting every table as CSV.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"mortalitydash/internal/charts"
	"mortalitydash/internal/config"
	"mortalitydash/internal/dataprocessing"
	"mortalitydash/internal/exporter"
	"mortalitydash/internal/infrastructure"
	"mortalitydash/internal/validation"
	"mortalitydash/pkg/contracts/domain"
)

// options are the parsed command line flags
type options struct {
	configFile string
	dataDir    string
	outDir     string
	panel      string
	list       bool
	noColor    bool
	verbose    bool
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configFile, "config", "", "YAML configuration file (defaults to MORT_CONFIG_FILE or config.yaml)")
	fs.StringVar(&opts.dataDir, "data", "", "directory holding the input workbooks")
	fs.StringVar(&opts.outDir, "out", "", "write every table as CSV into this directory")
	fs.StringVar(&opts.panel, "panel", "", "print only this panel id")
	fs.BoolVar(&opts.list, "list", false, "list panel ids and exit")
	fs.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	fs.BoolVar(&opts.verbose, "v", false, "log pipeline progress at debug level")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.panel != "" {
		if _, ok := charts.Lookup(opts.panel); !ok {
			return opts, fmt.Errorf("unknown panel %q", opts.panel)
		}
	}
	return opts, nil
}

func loadConfig(opts options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configFile != "" {
		cfg, err = config.LoadFrom(opts.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if opts.dataDir != "" {
		cfg.Data.Dir = opts.dataDir
	}
	if opts.outDir != "" {
		cfg.Data.ExportDir = opts.outDir
	}
	cfg.Logging.Output = "console"
	cfg.Logging.Format = "text"
	if opts.verbose {
		cfg.Logging.Level = "debug"
	} else {
		cfg.Logging.Level = "warn"
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}
	if opts.noColor {
		color.NoColor = true
	}

	if opts.list {
		printPanelList(stdout)
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return 1
	}

	logger, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "logger error: %v\n", err)
		return 1
	}

	paths, err := cfg.GetPaths()
	if err != nil {
		logger.Error("Failed to resolve paths", slog.String("error", err.Error()))
		return 1
	}

	pipeline := dataprocessing.NewPipeline(cfg.Analysis, cfg.Data.BoundaryFeatureKey, dataprocessing.WithLogger(logger))
	ds, err := pipeline.Run(ctx, paths)
	if err != nil {
		logger.Error("Pipeline failed", slog.String("error", err.Error()))
		return 1
	}

	r := newReporter(stdout)
	r.header(cfg, ds)

	panels, err := selectPanels(ds, cfg, opts.panel)
	if err != nil {
		logger.Error("Failed to build panels", slog.String("error", err.Error()))
		return 1
	}
	for _, p := range panels {
		r.panel(p)
	}

	if opts.outDir != "" {
		written, err := exportAll(paths, ds, panels)
		if err != nil {
			logger.Error("Export failed", slog.String("error", err.Error()))
			return 1
		}
		r.exported(written)
	}
	return 0
}

func selectPanels(ds *dataprocessing.Dataset, cfg *config.Config, id string) ([]domain.Panel, error) {
	opts := charts.OptionsFromConfig(cfg.Analysis)
	if id == "" {
		return charts.BuildAll(ds, opts), nil
	}
	p, err := charts.Build(ds, id, opts)
	if err != nil {
		return nil, err
	}
	return []domain.Panel{p}, nil
}

// exportAll writes the joined dataset, the rate table and each panel table
func exportAll(paths *config.Paths, ds *dataprocessing.Dataset, panels []domain.Panel) ([]string, error) {
	if err := validation.NewFileValidator(nil).ValidateOutputDirectory(paths.ExportDir); err != nil {
		return nil, err
	}

	joinedPath := paths.GetExportPath("joined.csv")
	if err := writeFile(joinedPath, func(w io.Writer) error {
		_, err := exporter.WriteJoined(w, ds, true)
		return err
	}); err != nil {
		return nil, err
	}

	ratesPath := paths.GetExportPath("rates.csv")
	if err := writeFile(ratesPath, func(w io.Writer) error {
		return exporter.WriteRates(w, ds.AllRates(), true)
	}); err != nil {
		return nil, err
	}

	written := []string{joinedPath, ratesPath}
	csvWriter := exporter.NewCSVWriter(paths)
	for _, p := range panels {
		path, err := csvWriter.WriteTableFile(p.ID, p.Table)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func printPanelList(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Panel", "Tipo", "PNG"})
	table.SetAutoWrapText(false)
	for _, info := range charts.Infos() {
		png := ""
		if info.HasImage {
			png = "sí"
		}
		table.Append([]string{info.ID, info.Heading, string(info.Kind), png})
	}
	table.Render()
}
