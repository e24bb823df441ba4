package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mortalitydash/internal/charts"
	"mortalitydash/internal/dataprocessing"
	"mortalitydash/internal/shared/testutil"
)

// MockDatasetState is a mock for the DatasetState interface
type MockDatasetState struct {
	mock.Mock
}

func (m *MockDatasetState) Ready() bool {
	return m.Called().Bool(0)
}

func (m *MockDatasetState) RecordCount() int {
	return m.Called().Int(0)
}

func (m *MockDatasetState) BoundariesAvailable() bool {
	return m.Called().Bool(0)
}

// loadFixtureDataset runs the real pipeline over the fixture workbooks
func loadFixtureDataset(t *testing.T, withBoundaries bool) (*dataprocessing.Dataset, charts.Options) {
	t.Helper()
	cfg := testutil.WriteFixtureSet(t, withBoundaries)
	logger, _ := testutil.NewTestLogger(t)

	p := dataprocessing.NewPipeline(cfg.Analysis, cfg.Data.BoundaryFeatureKey, dataprocessing.WithLogger(logger))
	ds, err := p.Run(context.Background(), testutil.FixturePaths(t, cfg))
	require.NoError(t, err)
	return ds, charts.OptionsFromConfig(cfg.Analysis)
}
