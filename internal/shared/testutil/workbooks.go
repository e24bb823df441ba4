package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"mortalitydash/internal/config"
)

// Headers of the four input workbooks
var (
	MortalityHeader  = []any{"COD_DEPARTAMENTO", "COD_MUNICIPIO", "COD_MUERTE", "FECHA_DEFUNCION", "SEXO", "GRUPO_EDAD1"}
	CausesHeader     = []any{"Codigo", "Nombre Causa"}
	DivipolaHeader   = []any{"COD_DEPARTAMENTO", "COD_MUNICIPIO", "DEPARTAMENTO", "MUNICIPIO"}
	PopulationHeader = []any{"MPIO", "AÑO", "AREA", "TOTAL"}
)

// WriteWorkbook saves a single-sheet workbook with header and rows under dir
// and returns its path. time.Time cells are stored as Excel dates.
func WriteWorkbook(t *testing.T, dir, name string, header []any, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

// Date is a UTC calendar date for fixture rows
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// FixtureMortalityRows is a small national sample. The last row has an
// unparseable date and the one before it an unknown administrative key.
func FixtureMortalityRows() [][]any {
	return [][]any{
		{5, 1, "X954", Date(2019, time.January, 15), 1, 17},
		{5, 1, "I219", Date(2019, time.March, 2), 2, 22},
		{11, 1, "X954", Date(2019, time.March, 20), 1, 14},
		{11, 1, "J189", Date(2019, time.December, 31), 2, 26},
		{5, 2, "I219", Date(2019, time.July, 7), 1, 3},
		{99, 999, "I219", Date(2019, time.May, 5), 1, 29},
		{5, 1, "I219", "sin fecha", 2, 20},
	}
}

// FixtureCauseRows maps the cause codes used by FixtureMortalityRows
func FixtureCauseRows() [][]any {
	return [][]any{
		{"X954", "Agresión con disparo de otras armas de fuego"},
		{"I219", "Infarto agudo del miocardio"},
		{"J189", "Neumonía, no especificada"},
	}
}

// FixtureDivipolaRows holds three municipalities plus one duplicate row
func FixtureDivipolaRows() [][]any {
	return [][]any{
		{5, 1, "ANTIOQUIA", "MEDELLÍN"},
		{5, 2, "ANTIOQUIA", "ABEJORRAL"},
		{11, 1, "BOGOTÁ, D.C.", "BOGOTÁ, D.C."},
		{5, 1, "ANTIOQUIA", "MEDELLÍN"},
	}
}

// FixturePopulationRows mixes kept 2020 totals with rows the filters drop
func FixturePopulationRows() [][]any {
	return [][]any{
		{5001, 2020, "Total", 2500000},
		{5002, 2020, "Total", 9000},
		{11001, 2020, "Total", 7700000},
		{5001, 2019, "Total", 1},
		{5001, 2020, "Cabecera Municipal", 10},
		{5001, 2020, "Total", "n/d"},
	}
}

// FixtureBoundaries is a two-department FeatureCollection keyed by DPTO
const FixtureBoundaries = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": 1, "properties": {"DPTO": "05", "NOMBRE_DPT": "ANTIOQUIA"},
     "geometry": {"type": "Polygon", "coordinates": [[[-77.0, 5.5], [-74.0, 5.5], [-74.0, 8.9], [-77.0, 8.9], [-77.0, 5.5]]]}},
    {"type": "Feature", "properties": {"DPTO": 11, "NOMBRE_DPT": "SANTAFE DE BOGOTA D.C"},
     "geometry": {"type": "Polygon", "coordinates": [[[-74.3, 3.7], [-73.9, 3.7], [-73.9, 4.8], [-74.3, 4.8], [-74.3, 3.7]]]}}
  ]
}`

// WriteFixtureSet writes the four workbooks and, when withBoundaries is set,
// the boundary document into a temp dir and returns a config pointing at it
func WriteFixtureSet(t *testing.T, withBoundaries bool) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Data.Dir = dir
	cfg.Data.ExportDir = filepath.Join(dir, "exports")

	WriteWorkbook(t, dir, cfg.Data.MortalityFile, MortalityHeader, FixtureMortalityRows())
	WriteWorkbook(t, dir, cfg.Data.CausesFile, CausesHeader, FixtureCauseRows())
	WriteWorkbook(t, dir, cfg.Data.DivipolaFile, DivipolaHeader, FixtureDivipolaRows())
	WriteWorkbook(t, dir, cfg.Data.PopulationFile, PopulationHeader, FixturePopulationRows())

	if withBoundaries {
		path := filepath.Join(dir, cfg.Data.BoundariesFile)
		require.NoError(t, os.WriteFile(path, []byte(FixtureBoundaries), 0o644))
	}
	return cfg
}

// FixturePaths resolves the paths of a fixture config
func FixturePaths(t *testing.T, cfg *config.Config) *config.Paths {
	t.Helper()
	paths, err := cfg.GetPaths()
	require.NoError(t, err)
	return paths
}
