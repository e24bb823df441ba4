package dataprocessing

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mortalitydash/internal/config"
	"mortalitydash/internal/shared/testutil"
	"mortalitydash/pkg/contracts/domain"
)

func runFixturePipeline(t *testing.T, withBoundaries bool) (*Dataset, *testutil.LogCapture) {
	t.Helper()
	cfg := testutil.WriteFixtureSet(t, withBoundaries)
	logger, handler := testutil.NewTestLogger(t)

	pipeline := NewPipeline(cfg.Analysis, cfg.Data.BoundaryFeatureKey, WithLogger(logger))
	ds, err := pipeline.Run(context.Background(), testutil.FixturePaths(t, cfg))
	require.NoError(t, err)
	return ds, handler
}

func TestPipeline_Run(t *testing.T) {
	ds, _ := runFixturePipeline(t, true)

	stats := ds.Stats()
	assert.Equal(t, 7, stats.MortalityRows)
	assert.Equal(t, 1, stats.DroppedInvalidDates)
	assert.Equal(t, 6, stats.JoinedRows)
	assert.Equal(t, 1, stats.UnmatchedAdministrative)
	assert.Equal(t, 0, stats.UnmatchedCauses)
	assert.Equal(t, 3, stats.AdministrativeUnits)
	assert.Equal(t, 3, stats.PopulationRecords)
	assert.Equal(t, 3, stats.RatedSubRegions)
	assert.Equal(t, 2, stats.RankedSubRegions)
	assert.True(t, stats.BoundariesAvailable)
	assert.Equal(t, 2, stats.BoundaryFeatures)

	assert.Equal(t, 6, ds.Len())

	ranked := ds.RankedRates()
	require.Len(t, ranked, 2)
	assert.Equal(t, "11001", ranked[0].CompositeKey)
	assert.InDelta(t, 2.0/7700000*100000, ranked[0].Rate, 1e-9)
	assert.Equal(t, "05001", ranked[1].CompositeKey)
	assert.InDelta(t, 0.08, ranked[1].Rate, 1e-9)

	var first domain.JoinedRecord
	ds.ForEach(func(r domain.JoinedRecord) {
		if first.CompositeKey == "" {
			first = r
		}
	})
	assert.Equal(t, "05001", first.CompositeKey)
	assert.Equal(t, "05", first.RegionKey)
	assert.Equal(t, 1, first.Month)
	assert.Equal(t, AgeMidAdulthood, first.AgeGroup)
	assert.Equal(t, "MASCULINO", first.Sex)
	assert.Equal(t, "MEDELLÍN", first.SubRegionName.String)
}

func TestPipeline_ThreeRowScenario(t *testing.T) {
	cfg := testutil.WriteFixtureSet(t, false)
	testutil.WriteWorkbook(t, cfg.Data.Dir, cfg.Data.MortalityFile, testutil.MortalityHeader, [][]any{
		{5, 1, "I219", testutil.Date(2019, time.March, 2), 1, 20},
		{5, 1, "I219", "fecha inválida", 1, 20},
		{88, 888, "I219", testutil.Date(2019, time.July, 9), 2, 11},
	})

	ds, err := NewPipeline(cfg.Analysis, cfg.Data.BoundaryFeatureKey).Run(context.Background(), testutil.FixturePaths(t, cfg))
	require.NoError(t, err)

	records := ds.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "ANTIOQUIA", records[0].RegionName.String)
	assert.False(t, records[1].RegionName.Valid)
	assert.False(t, records[1].SubRegionName.Valid)
}

func TestPipeline_MissingBoundariesDegrades(t *testing.T) {
	ds, handler := runFixturePipeline(t, false)

	assert.Nil(t, ds.Boundaries())
	assert.False(t, ds.Stats().BoundariesAvailable)
	testutil.AssertLogContains(t, handler, slog.LevelWarn, "Boundary document unavailable, map disabled")
	testutil.AssertLogRecord(t, handler, "Dataset built", map[string]any{
		"component":             "pipeline",
		"boundaries_available":  false,
		"dropped_invalid_dates": int64(1),
		"joined_rows":           int64(6),
	})
	testutil.AssertLogRecord(t, handler, "Stage completed", map[string]any{
		"component": "pipeline",
		"stage":     StageMerge,
	})
}

func TestPipeline_MissingRequiredInputIsFatal(t *testing.T) {
	cfg := testutil.WriteFixtureSet(t, true)
	paths := testutil.FixturePaths(t, cfg)
	require.NoError(t, os.Remove(paths.PopulationFile))

	_, err := NewPipeline(cfg.Analysis, cfg.Data.BoundaryFeatureKey).Run(context.Background(), paths)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInputMissing)
}

func TestPipeline_PopulationYearIsConfigurable(t *testing.T) {
	cfg := testutil.WriteFixtureSet(t, false)
	cfg.Analysis.PopulationYear = 2019

	ds, err := NewPipeline(cfg.Analysis, cfg.Data.BoundaryFeatureKey).Run(context.Background(), testutil.FixturePaths(t, cfg))
	require.NoError(t, err)

	assert.Equal(t, 1, ds.Stats().PopulationRecords)
	assert.Empty(t, ds.Summary().DataNote)
}

func TestDataset_AccessorsReturnCopies(t *testing.T) {
	ds, _ := runFixturePipeline(t, false)

	records := ds.Records()
	records[0].CompositeKey = "mutated"
	assert.NotEqual(t, "mutated", ds.Records()[0].CompositeKey)

	rates := ds.AllRates()
	rates[0].Rate = -1
	assert.NotEqual(t, -1.0, ds.AllRates()[0].Rate)

	analysis := ds.Analysis()
	analysis.HomicideCodes[0] = "mutated"
	assert.Equal(t, config.DefaultHomicideCodes()[0], ds.Analysis().HomicideCodes[0])
}

func TestDataset_Summary(t *testing.T) {
	ds, _ := runFixturePipeline(t, false)

	summary := ds.Summary()
	assert.Equal(t, 2019, summary.AnalysisYear)
	assert.Equal(t, 2020, summary.PopulationYear)
	assert.Equal(t, 10000.0, summary.MinPopulation)
	assert.Contains(t, summary.DataNote, "2020")
}
