package dataprocessing

import (
	"mortalitydash/internal/config"
	"mortalitydash/internal/geo"
	"mortalitydash/pkg/contracts/domain"
)

// Dataset is the joined mortality table and its rate tables.
// Nothing mutates it after NewDataset; accessors hand out copies.
type Dataset struct {
	records    []domain.JoinedRecord
	allRates   []domain.MortalityRateEntry
	ranked     []domain.MortalityRateEntry
	boundaries *geo.Boundaries
	stats      domain.LoadStats
	analysis   config.AnalysisConfig
}

// NewDataset copies its inputs into an immutable dataset
func NewDataset(
	records []domain.JoinedRecord,
	allRates, ranked []domain.MortalityRateEntry,
	boundaries *geo.Boundaries,
	stats domain.LoadStats,
	analysis config.AnalysisConfig,
) *Dataset {
	analysis.HomicideCodes = append([]string(nil), analysis.HomicideCodes...)
	return &Dataset{
		records:    append([]domain.JoinedRecord(nil), records...),
		allRates:   append([]domain.MortalityRateEntry(nil), allRates...),
		ranked:     append([]domain.MortalityRateEntry(nil), ranked...),
		boundaries: boundaries,
		stats:      stats,
		analysis:   analysis,
	}
}

// Len returns the number of joined rows
func (d *Dataset) Len() int {
	return len(d.records)
}

// ForEach calls fn with every joined row in table order
func (d *Dataset) ForEach(fn func(domain.JoinedRecord)) {
	for _, r := range d.records {
		fn(r)
	}
}

// Records returns a copy of the joined rows
func (d *Dataset) Records() []domain.JoinedRecord {
	return append([]domain.JoinedRecord(nil), d.records...)
}

// RankedRates returns the filtered lowest-rate slice
func (d *Dataset) RankedRates() []domain.MortalityRateEntry {
	return append([]domain.MortalityRateEntry(nil), d.ranked...)
}

// AllRates returns every rated sub-region before filtering, in key order
func (d *Dataset) AllRates() []domain.MortalityRateEntry {
	return append([]domain.MortalityRateEntry(nil), d.allRates...)
}

// Boundaries returns the region boundaries, or nil when unavailable
func (d *Dataset) Boundaries() *geo.Boundaries {
	return d.boundaries
}

// Stats returns what the pipeline read, dropped and matched
func (d *Dataset) Stats() domain.LoadStats {
	return d.stats
}

// Analysis returns the parameters the dataset was built with
func (d *Dataset) Analysis() config.AnalysisConfig {
	a := d.analysis
	a.HomicideCodes = append([]string(nil), d.analysis.HomicideCodes...)
	return a
}

// Summary describes the dataset for the API and the report
func (d *Dataset) Summary() domain.DatasetSummary {
	return domain.DatasetSummary{
		Stats:          d.stats,
		AnalysisYear:   d.analysis.AnalysisYear,
		PopulationYear: d.analysis.PopulationYear,
		MinPopulation:  d.analysis.MinPopulation,
		DataNote:       d.analysis.DataNote(),
	}
}
