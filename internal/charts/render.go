package charts

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"mortalitydash/pkg/contracts/domain"
)

var (
	// ErrNoImage is returned for panels without a PNG form
	ErrNoImage = errors.New("panel has no image rendering")
	// ErrEmptyChart is returned when a panel has nothing to draw
	ErrEmptyChart = errors.New("panel has no data to draw")
)

// Size is the pixel size of a rendered chart
type Size struct {
	Width  int
	Height int
}

// DefaultSize is used when a request does not ask for one
var DefaultSize = Size{Width: 1024, Height: 512}

// HasImage reports whether a panel id has a PNG rendering
func HasImage(id string) bool {
	def, ok := Lookup(id)
	return ok && def.HasImage
}

// RenderPNG draws a computed panel from its summary table
func RenderPNG(w io.Writer, p domain.Panel, size Size) error {
	if size.Width <= 0 || size.Height <= 0 {
		size = DefaultSize
	}
	switch p.ID {
	case PanelMonthly:
		return renderLine(w, p, size)
	case PanelViolence:
		return renderBars(w, p, size, 0, 1, drawing.ColorFromHex("e34a33"))
	case PanelAgeHistogram:
		return renderBars(w, p, size, 0, 1, hexColor(histogramColor))
	case PanelSexByRegion:
		return renderStacked(w, p, size)
	case PanelLowestRate:
		return renderDonut(w, p, size)
	default:
		return fmt.Errorf("%w: %s", ErrNoImage, p.ID)
	}
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

// yRange pads the largest value and never collapses to zero height
func yRange(maxValue float64) *chart.ContinuousRange {
	return &chart.ContinuousRange{Min: 0, Max: math.Max(1, math.Ceil(maxValue*1.1))}
}

func renderLine(w io.Writer, p domain.Panel, size Size) error {
	xs := make([]float64, 0, len(p.Table.Rows))
	ys := make([]float64, 0, len(p.Table.Rows))
	ticks := make([]chart.Tick, 0, len(p.Table.Rows))
	var maxY float64
	for i, row := range p.Table.Rows {
		x := float64(i + 1)
		y := toFloat(row[len(row)-1])
		xs = append(xs, x)
		ys = append(ys, y)
		ticks = append(ticks, chart.Tick{Value: x, Label: domain.FormatCell(row[0])})
		maxY = math.Max(maxY, y)
	}
	if len(xs) < 2 {
		return ErrEmptyChart
	}

	graph := chart.Chart{
		Title:      p.Title,
		Width:      size.Width,
		Height:     size.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Ticks: ticks},
		YAxis:      chart.YAxis{Range: yRange(maxY)},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Total Muertes",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: hexColor("#1f77b4"),
					StrokeWidth: 2,
					DotColor:    hexColor("#1f77b4"),
					DotWidth:    4,
				},
			},
		},
	}
	return graph.Render(chart.PNG, w)
}

func renderBars(w io.Writer, p domain.Panel, size Size, labelCol, valueCol int, color drawing.Color) error {
	bars := make([]chart.Value, 0, len(p.Table.Rows))
	var maxY float64
	for _, row := range p.Table.Rows {
		v := toFloat(row[valueCol])
		bars = append(bars, chart.Value{
			Label: domain.FormatCell(row[labelCol]),
			Value: v,
			Style: chart.Style{FillColor: color, StrokeColor: color},
		})
		maxY = math.Max(maxY, v)
	}
	if len(bars) == 0 {
		return ErrEmptyChart
	}

	bw := barWidth(size.Width, len(bars))
	graph := chart.BarChart{
		Title:      p.Title,
		Width:      size.Width,
		Height:     size.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		BarWidth:   bw,
		BarSpacing: bw / 2,
		YAxis:      chart.YAxis{Range: yRange(maxY)},
		Bars:       bars,
	}
	return graph.Render(chart.PNG, w)
}

func barWidth(width, n int) int {
	if n == 0 {
		return 40
	}
	bw := width / (n * 2)
	if bw > 80 {
		return 80
	}
	if bw < 8 {
		return 8
	}
	return bw
}

// renderStacked reads (region, sex, count) rows in region order
func renderStacked(w io.Writer, p domain.Panel, size Size) error {
	var (
		bars  []chart.StackedBar
		index = map[string]int{}
	)
	for _, row := range p.Table.Rows {
		region := domain.FormatCell(row[0])
		sex := domain.FormatCell(row[1])
		n := toFloat(row[2])
		if n <= 0 {
			continue
		}
		i, ok := index[region]
		if !ok {
			i = len(bars)
			index[region] = i
			bars = append(bars, chart.StackedBar{Name: region})
		}
		style := chart.Style{}
		if c, ok := sexColors[sex]; ok {
			style = chart.Style{FillColor: hexColor(c), StrokeColor: hexColor(c)}
		}
		bars[i].Values = append(bars[i].Values, chart.Value{Label: sex, Value: n, Style: style})
	}
	if len(bars) == 0 {
		return ErrEmptyChart
	}

	graph := chart.StackedBarChart{
		Title:      p.Title,
		Width:      size.Width,
		Height:     size.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Bars:       bars,
	}
	return graph.Render(chart.PNG, w)
}

// renderDonut reads (name, key, rate) rows
func renderDonut(w io.Writer, p domain.Panel, size Size) error {
	values := make([]chart.Value, 0, len(p.Table.Rows))
	palette := tealSequence(len(p.Table.Rows))
	for i, row := range p.Table.Rows {
		rate := toFloat(row[2])
		if rate <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%s)", domain.FormatCell(row[0]), roundedLabel(rate)),
			Value: rate,
			Style: chart.Style{FillColor: rgbColor(palette[i])},
		})
	}
	if len(values) == 0 {
		return ErrEmptyChart
	}

	graph := chart.DonutChart{
		Title:  p.Title,
		Width:  size.Width,
		Height: size.Height,
		Values: values,
	}
	return graph.Render(chart.PNG, w)
}

// rgbColor parses the "rgb(r, g, b)" palette entries
func rgbColor(s string) drawing.Color {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "rgb(%d, %d, %d)", &r, &g, &b); err != nil {
		return chart.ColorBlue
	}
	return drawing.Color{R: r, G: g, B: b, A: 255}
}
