package charts

import (
	"fmt"
	"sort"

	"mortalitydash/internal/dataprocessing"
	"mortalitydash/pkg/contracts/domain"
)

var monthNames = [12]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

// MonthNames returns a fresh copy of the monthly chart's x-axis order
func MonthNames() []string {
	names := monthNames
	return names[:]
}

// Sex colours of the stacked bar chart
var sexColors = map[string]string{
	"MASCULINO": "#1f77b4",
	"FEMENINO":  "#ff7f0e",
}

const (
	histogramColor = "#4c78a8"
	mapPlaceholder = "Error: GeoJSON no disponible para el mapa."
)

// BuildMap counts deaths per department for the choropleth. Without
// boundaries the figure is a titled placeholder and the panel is degraded.
func BuildMap(ds *dataprocessing.Dataset, opts Options) domain.Panel {
	deaths := counter{}
	ds.ForEach(func(r domain.JoinedRecord) {
		if r.RegionKey != "" {
			deaths[r.RegionKey]++
		}
	})
	keys := make([]string, 0, len(deaths))
	for k := range deaths {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	table := domain.Table{Columns: []string{"Código Departamento", "Total Muertes"}}
	locations := make([]string, len(keys))
	z := make([]int, len(keys))
	for i, k := range keys {
		table.Rows = append(table.Rows, []any{k, deaths[k]})
		locations[i] = k
		z[i] = deaths[k]
	}

	title := fmt.Sprintf("Distribución Total de Muertes por Departamento, Colombia %d", opts.AnalysisYear)
	boundaries := ds.Boundaries()
	if boundaries == nil {
		return domain.Panel{
			Title:    mapPlaceholder,
			Table:    table,
			Degraded: true,
			Figure: &domain.Figure{
				Data:   []map[string]any{{"type": "scatter", "x": []any{}, "y": []any{}}},
				Layout: map[string]any{"title": titleText(mapPlaceholder)},
			},
		}
	}

	return domain.Panel{
		Title: title,
		Table: table,
		Figure: &domain.Figure{
			Data: []map[string]any{{
				"type":          "choropleth",
				"geojson":       opts.BoundariesURL,
				"featureidkey":  boundaries.FeatureIDKey(),
				"locations":     locations,
				"z":             z,
				"colorscale":    "Reds",
				"hovertemplate": "Departamento %{location}<br>Total Muertes Registradas: %{z}<extra></extra>",
				"colorbar": map[string]any{
					"title":         map[string]any{"text": "Muertes"},
					"thicknessmode": "pixels",
					"thickness":     20,
					"lenmode":       "pixels",
					"len":           300,
					"yanchor":       "top",
					"y":             1,
					"xanchor":       "left",
					"x":             0.01,
				},
			}},
			Layout: map[string]any{
				"title":  titleText(title),
				"height": 650,
				"geo":    map[string]any{"fitbounds": "locations", "visible": false},
				"margin": margin(0, 40, 0, 0),
			},
		},
	}
}

// BuildMonthly counts deaths per calendar month, always twelve rows
func BuildMonthly(ds *dataprocessing.Dataset, opts Options) domain.Panel {
	var months [12]int
	ds.ForEach(func(r domain.JoinedRecord) {
		if r.Month >= 1 && r.Month <= 12 {
			months[r.Month-1]++
		}
	})

	table := domain.Table{Columns: []string{"Mes", "Número de Mes", "Total Muertes"}}
	y := make([]int, 12)
	for i, n := range months {
		table.Rows = append(table.Rows, []any{monthNames[i], i + 1, n})
		y[i] = n
	}

	title := fmt.Sprintf("Total de Muertes por Mes en Colombia (%d)", opts.AnalysisYear)
	return domain.Panel{
		Title: title,
		Table: table,
		Figure: &domain.Figure{
			Data: []map[string]any{{
				"type":   "scatter",
				"mode":   "lines+markers",
				"x":      MonthNames(),
				"y":      y,
				"line":   map[string]any{"shape": "spline"},
				"marker": map[string]any{"size": 8},
				"name":   "Total Muertes",
			}},
			Layout: map[string]any{
				"title":     titleText(title),
				"height":    500,
				"hovermode": "x unified",
				"xaxis":     map[string]any{"title": titleText("Mes"), "categoryorder": "array", "categoryarray": MonthNames()},
				"yaxis":     map[string]any{"title": titleText("Total Muertes")},
			},
		},
	}
}

// BuildViolence ranks municipalities by deaths with a homicide cause code
func BuildViolence(ds *dataprocessing.Dataset, opts Options) domain.Panel {
	allowed := make(map[string]struct{}, len(opts.HomicideCodes))
	for _, c := range opts.HomicideCodes {
		allowed[c] = struct{}{}
	}
	homicides := counter{}
	ds.ForEach(func(r domain.JoinedRecord) {
		if _, ok := allowed[r.CauseCode]; !ok || !r.SubRegionName.Valid {
			return
		}
		homicides[r.SubRegionName.String]++
	})
	top := head(homicides.sorted(), opts.TopViolentSubRegions)

	table := domain.Table{Columns: []string{"Ciudad", "Número de Homicidios"}}
	x := make([]string, len(top))
	y := make([]int, len(top))
	for i, c := range top {
		table.Rows = append(table.Rows, []any{c.key, c.n})
		x[i] = c.key
		y[i] = c.n
	}

	title := fmt.Sprintf("Top %d Ciudades con Mayor Número de Homicidios (%d)", opts.TopViolentSubRegions, opts.AnalysisYear)
	return domain.Panel{
		Title: title,
		Table: table,
		Figure: &domain.Figure{
			Data: []map[string]any{{
				"type":         "bar",
				"x":            x,
				"y":            y,
				"text":         y,
				"textposition": "outside",
				"marker":       map[string]any{"color": y, "colorscale": "YlOrRd", "showscale": true},
			}},
			Layout: map[string]any{
				"title":  titleText(title),
				"height": 500,
				"xaxis":  map[string]any{"title": titleText("Ciudad"), "categoryorder": "total descending"},
				"yaxis":  map[string]any{"title": titleText("Número de Homicidios")},
				"margin": margin(20, 40, 20, 20),
			},
		},
	}
}

// BuildTopCauses ranks (code, description) pairs. Rows without a
// description are left out.
func BuildTopCauses(ds *dataprocessing.Dataset, opts Options) domain.Panel {
	causes := counter{}
	ds.ForEach(func(r domain.JoinedRecord) {
		if r.CauseName.Valid {
			causes[pairKey(r.CauseCode, r.CauseName.String)]++
		}
	})
	top := head(causes.sorted(), opts.TopCauses)

	table := domain.Table{Columns: []string{"Código CIE-10", "Causa de Muerte", "Total Casos"}}
	for _, c := range top {
		code, name := splitPair(c.key)
		table.Rows = append(table.Rows, []any{code, name, c.n})
	}
	return domain.Panel{
		Title: fmt.Sprintf("Top %d Causas de Muerte (%d)", opts.TopCauses, opts.AnalysisYear),
		Table: table,
	}
}

// BuildSexByRegion stacks deaths per department by sex, departments by
// descending total
func BuildSexByRegion(ds *dataprocessing.Dataset, opts Options) domain.Panel {
	pairs := counter{}
	totals := counter{}
	sexSet := map[string]struct{}{}
	ds.ForEach(func(r domain.JoinedRecord) {
		if !r.RegionName.Valid {
			return
		}
		pairs[pairKey(r.RegionName.String, r.Sex)]++
		totals[r.RegionName.String]++
		sexSet[r.Sex] = struct{}{}
	})

	regions := totals.sorted()
	sexes := make([]string, 0, len(sexSet))
	for s := range sexSet {
		sexes = append(sexes, s)
	}
	sort.Strings(sexes)

	table := domain.Table{Columns: []string{"Departamento", "Sexo", "Total Muertes"}}
	for _, region := range regions {
		for _, sex := range sexes {
			if n := pairs[pairKey(region.key, sex)]; n > 0 {
				table.Rows = append(table.Rows, []any{region.key, sex, n})
			}
		}
	}

	regionNames := make([]string, len(regions))
	for i, r := range regions {
		regionNames[i] = r.key
	}
	traces := make([]map[string]any, 0, len(sexes))
	for _, sex := range sexes {
		y := make([]int, len(regions))
		for i, r := range regions {
			y[i] = pairs[pairKey(r.key, sex)]
		}
		trace := map[string]any{"type": "bar", "name": sex, "x": regionNames, "y": y}
		if color, ok := sexColors[sex]; ok {
			trace["marker"] = map[string]any{"color": color}
		}
		traces = append(traces, trace)
	}

	title := fmt.Sprintf("Comparación de Muertes por Sexo y Departamento, Colombia %d", opts.AnalysisYear)
	return domain.Panel{
		Title: title,
		Table: table,
		Figure: &domain.Figure{
			Data: traces,
			Layout: map[string]any{
				"title":   titleText(title),
				"barmode": "stack",
				"height":  600,
				"xaxis":   map[string]any{"title": titleText("Departamento"), "categoryorder": "total descending", "tickangle": 45},
				"yaxis":   map[string]any{"title": titleText("Total de Casos")},
				"legend":  map[string]any{"title": titleText("Género")},
			},
		},
	}
}

// BuildLowestRate draws the precomputed lowest-rate municipalities as a donut
func BuildLowestRate(ds *dataprocessing.Dataset, opts Options) domain.Panel {
	ranked := ds.RankedRates()

	table := domain.Table{Columns: []string{"Municipio", "Código DANE", "Tasa por 100k hab."}}
	labels := make([]string, len(ranked))
	values := make([]float64, len(ranked))
	for i, e := range ranked {
		table.Rows = append(table.Rows, []any{e.Label(), e.CompositeKey, e.Rate})
		labels[i] = fmt.Sprintf("%s (%s)", e.Label(), roundedLabel(e.Rate))
		values[i] = e.Rate
	}

	title := fmt.Sprintf("Top %d Municipios con Menor Tasa Bruta de Mortalidad (%d)", ds.Analysis().RankedSubRegions, opts.AnalysisYear)
	return domain.Panel{
		Title: title,
		Table: table,
		Figure: &domain.Figure{
			Data: []map[string]any{{
				"type":          "pie",
				"labels":        labels,
				"values":        values,
				"hole":          0.4,
				"textposition":  "inside",
				"textinfo":      "percent+label",
				"hovertemplate": "<b>%{label}</b><br>Tasa: %{value:.2f} por 100k hab.<extra></extra>",
				"marker":        map[string]any{"colors": tealSequence(len(ranked))},
			}},
			Layout: map[string]any{
				"title":      titleText(title),
				"height":     600,
				"showlegend": false,
				"margin":     margin(10, 40, 10, 10),
			},
		},
	}
}

// BuildAgeHistogram counts deaths per age group in the fixed group order.
// Sentinel labels follow only when present.
func BuildAgeHistogram(ds *dataprocessing.Dataset, opts Options) domain.Panel {
	groups := counter{}
	ds.ForEach(func(r domain.JoinedRecord) {
		groups[r.AgeGroup]++
	})

	order := dataprocessing.AgeGroupOrder()
	for _, sentinel := range []string{dataprocessing.AgeInvalidCode, dataprocessing.AgeMissingOrBadInput} {
		if groups[sentinel] > 0 {
			order = append(order, sentinel)
		}
	}

	table := domain.Table{Columns: []string{"Grupo de Edad", "Total de Muertes"}}
	y := make([]int, len(order))
	for i, label := range order {
		table.Rows = append(table.Rows, []any{label, groups[label]})
		y[i] = groups[label]
	}

	title := fmt.Sprintf("Distribución de Muertes por Grupo de Edad (%d)", opts.AnalysisYear)
	return domain.Panel{
		Title: title,
		Table: table,
		Figure: &domain.Figure{
			Data: []map[string]any{{
				"type":         "bar",
				"x":            order,
				"y":            y,
				"texttemplate": "%{y}",
				"textposition": "outside",
				"marker":       map[string]any{"color": histogramColor},
			}},
			Layout: map[string]any{
				"title":       titleText(title),
				"height":      550,
				"bargap":      0.1,
				"xaxis":       map[string]any{"title": titleText("Grupo de Edad"), "categoryorder": "array", "categoryarray": order, "tickangle": -45},
				"yaxis":       map[string]any{"title": titleText("Total de Muertes")},
				"uniformtext": map[string]any{"minsize": 8, "mode": "hide"},
			},
		},
	}
}

// BuildRateTable lists the ranked rate entries with their inputs
func BuildRateTable(ds *dataprocessing.Dataset, opts Options) domain.Panel {
	ranked := ds.RankedRates()
	table := domain.Table{Columns: []string{"Municipio", "Código DANE", "Muertes", "Población", "Tasa por 100k hab."}}
	for _, e := range ranked {
		table.Rows = append(table.Rows, []any{e.Label(), e.CompositeKey, e.Deaths, e.Population, e.Rate})
	}
	return domain.Panel{
		Title: fmt.Sprintf("Municipios con Menor Tasa Bruta de Mortalidad (%d)", opts.AnalysisYear),
		Table: table,
	}
}

func titleText(s string) map[string]any {
	return map[string]any{"text": s}
}

func margin(r, t, l, b int) map[string]any {
	return map[string]any{"r": r, "t": t, "l": l, "b": b}
}

// tealSequence cycles Plotly's sequential Teal palette
func tealSequence(n int) []string {
	palette := []string{"rgb(209, 238, 234)", "rgb(168, 219, 217)", "rgb(133, 196, 201)", "rgb(104, 171, 184)",
		"rgb(79, 144, 166)", "rgb(59, 115, 143)", "rgb(42, 86, 116)"}
	out := make([]string, n)
	for i := range out {
		out[i] = palette[i%len(palette)]
	}
	return out
}
