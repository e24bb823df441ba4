package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"mortalitydash/internal/config"
	"mortalitydash/internal/dataprocessing"
	"mortalitydash/pkg/contracts/domain"
)

// reporter prints panels with Spanish number formatting
type reporter struct {
	w       io.Writer
	printer *message.Printer
	title   *color.Color
	heading *color.Color
	warn    *color.Color
	muted   *color.Color
}

func newReporter(w io.Writer) *reporter {
	return &reporter{
		w:       w,
		printer: message.NewPrinter(language.Spanish),
		title:   color.New(color.FgCyan, color.Bold),
		heading: color.New(color.FgGreen, color.Bold),
		warn:    color.New(color.FgYellow),
		muted:   color.New(color.Faint),
	}
}

func (r *reporter) header(cfg *config.Config, ds *dataprocessing.Dataset) {
	r.title.Fprintf(r.w, "%s (%d)\n", config.AppName, cfg.Analysis.AnalysisYear)
	stats := ds.Stats()
	r.muted.Fprintln(r.w, r.printer.Sprintf("%d registros unidos, %d municipios con tasa", stats.JoinedRows, len(ds.AllRates())))
	if note := cfg.Analysis.DataNote(); note != "" {
		r.warn.Fprintln(r.w, note)
	}
	if ds.Boundaries() == nil {
		r.warn.Fprintln(r.w, "GeoJSON no disponible: el mapa se omite.")
	}
	fmt.Fprintln(r.w)
}

func (r *reporter) panel(p domain.Panel) {
	r.heading.Fprintln(r.w, p.Heading)
	fmt.Fprintln(r.w, p.Title)
	if p.Degraded {
		r.warn.Fprintln(r.w, "(vista degradada)")
	}

	table := tablewriter.NewWriter(r.w)
	table.SetHeader(p.Table.Columns)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	for _, row := range p.Table.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = r.cell(v)
		}
		table.Append(cells)
	}
	table.Render()
	fmt.Fprintln(r.w)
}

func (r *reporter) exported(paths []string) {
	r.heading.Fprintln(r.w, r.printer.Sprintf("%d archivos CSV exportados", len(paths)))
	for _, p := range paths {
		r.muted.Fprintln(r.w, "  "+p)
	}
}

// cell groups thousands and fixes floats to two decimals
func (r *reporter) cell(v any) string {
	switch n := v.(type) {
	case int:
		return r.printer.Sprintf("%d", n)
	case int64:
		return r.printer.Sprintf("%d", n)
	case float64:
		return r.printer.Sprintf("%.2f", n)
	default:
		return domain.FormatCell(v)
	}
}
