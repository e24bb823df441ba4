// Package charts turns the immutable dataset into dashboard panels.
//
// Every builder is a pure function of the dataset and Options: it
// re-aggregates on each call and never mutates the dataset. A panel carries
// its summary table and a Plotly figure, and the table is what the CSV
// export, the terminal report and the PNG renderer read.
package charts

import (
	"errors"
	"fmt"

	"mortalitydash/internal/config"
	"mortalitydash/internal/dataprocessing"
	"mortalitydash/pkg/contracts/domain"
)

// ErrUnknownPanel is returned for a panel id that is not registered
var ErrUnknownPanel = errors.New("unknown panel")

// Panel identifiers, in page order
const (
	PanelMap          = "map"
	PanelMonthly      = "monthly"
	PanelViolence     = "violence"
	PanelLowestRate   = "lowest-rate"
	PanelTopCauses    = "top-causes"
	PanelSexByRegion  = "sex-by-region"
	PanelAgeHistogram = "age-histogram"
	PanelRateTable    = "rate-table"
)

// DefaultBoundariesURL is where the page fetches the map GeoJSON from
const DefaultBoundariesURL = "/api/geo/boundaries"

// Options are the presentation parameters shared by every builder
type Options struct {
	AnalysisYear         int
	TopCauses            int
	TopViolentSubRegions int
	HomicideCodes        []string
	// BoundariesURL is handed to Plotly as the choropleth geojson source
	BoundariesURL string
}

// OptionsFromConfig derives panel options from the analysis configuration
func OptionsFromConfig(a config.AnalysisConfig) Options {
	return Options{
		AnalysisYear:         a.AnalysisYear,
		TopCauses:            a.TopCauses,
		TopViolentSubRegions: a.TopViolentSubRegions,
		HomicideCodes:        append([]string(nil), a.HomicideCodes...),
		BoundariesURL:        DefaultBoundariesURL,
	}
}

// BuildFunc computes one panel
type BuildFunc func(ds *dataprocessing.Dataset, opts Options) domain.Panel

// Definition registers a panel builder
type Definition struct {
	ID       string
	Heading  string
	Kind     domain.PanelKind
	HasImage bool
	Build    BuildFunc
}

var definitions = []Definition{
	{PanelMap, "Mapa de Muertes por Departamento", domain.PanelKindChoropleth, false, BuildMap},
	{PanelMonthly, "Muertes por Mes", domain.PanelKindLine, true, BuildMonthly},
	{PanelViolence, "Top 5 Ciudades más Violentas (Homicidios)", domain.PanelKindBar, true, BuildViolence},
	{PanelLowestRate, "Top 10 Ciudades con Menor Índice de Mortalidad", domain.PanelKindDonut, true, BuildLowestRate},
	{PanelTopCauses, "Top 10 Causas de Muerte", domain.PanelKindTable, false, BuildTopCauses},
	{PanelSexByRegion, "Muertes por Sexo y Departamento", domain.PanelKindStackedBar, true, BuildSexByRegion},
	{PanelAgeHistogram, "Distribución de Muertes por Grupo de Edad", domain.PanelKindHistogram, true, BuildAgeHistogram},
	{PanelRateTable, "Tasa Bruta de Mortalidad por Municipio", domain.PanelKindTable, false, BuildRateTable},
}

// Definitions returns every registered panel in page order
func Definitions() []Definition {
	return append([]Definition(nil), definitions...)
}

// Lookup finds a panel definition by id
func Lookup(id string) (Definition, bool) {
	for _, d := range definitions {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// Infos describes every panel without computing it
func Infos() []domain.PanelInfo {
	infos := make([]domain.PanelInfo, len(definitions))
	for i, d := range definitions {
		infos[i] = domain.PanelInfo{ID: d.ID, Heading: d.Heading, Kind: d.Kind, HasImage: d.HasImage}
	}
	return infos
}

// Build computes the panel with the given id
func Build(ds *dataprocessing.Dataset, id string, opts Options) (domain.Panel, error) {
	def, ok := Lookup(id)
	if !ok {
		return domain.Panel{}, fmt.Errorf("%w: %s", ErrUnknownPanel, id)
	}
	panel := def.Build(ds, opts)
	panel.ID = def.ID
	panel.Heading = def.Heading
	panel.Kind = def.Kind
	return panel, nil
}

// BuildAll computes every panel in page order
func BuildAll(ds *dataprocessing.Dataset, opts Options) []domain.Panel {
	panels := make([]domain.Panel, 0, len(definitions))
	for _, d := range definitions {
		p, _ := Build(ds, d.ID, opts)
		panels = append(panels, p)
	}
	return panels
}
