package domain

import (
	"time"
)

// MortalityRecord represents one registered death event
type MortalityRecord struct {
	RegionCode    string    `json:"region_code"`
	SubRegionCode string    `json:"sub_region_code"`
	CauseCode     string    `json:"cause_code"`
	DeathDate     time.Time `json:"death_date"`
	Sex           string    `json:"sex"`
	AgeGroupCode  string    `json:"age_group_code"`

	// Derived during processing
	CompositeKey string `json:"composite_key"`
	RegionKey    string `json:"region_key"`
	Month        int    `json:"month"`
	AgeGroup     string `json:"age_group"`
}

// AdministrativeUnit represents one sub-region of the administrative geography
type AdministrativeUnit struct {
	CompositeKey  string `json:"composite_key" validate:"required,len=5,numeric"`
	RegionName    string `json:"region_name"`
	SubRegionName string `json:"sub_region_name"`
}

// CauseReference maps a cause-of-death classification code to its description
type CauseReference struct {
	CauseCode string `json:"cause_code" validate:"required"`
	CauseName string `json:"cause_name"`
}

// PopulationRecord holds the reference-year total population of a sub-region
type PopulationRecord struct {
	CompositeKey string  `json:"composite_key" validate:"required,len=5"`
	Population   float64 `json:"population" validate:"gte=0"`
}

// JoinedRecord is a mortality record after both left joins.
// Names are null when the join found no match.
type JoinedRecord struct {
	MortalityRecord
	RegionName    NullString `json:"region_name"`
	SubRegionName NullString `json:"sub_region_name"`
	CauseName     NullString `json:"cause_name"`
}

// MortalityRateEntry is the crude mortality rate of one sub-region
type MortalityRateEntry struct {
	CompositeKey  string     `json:"composite_key"`
	SubRegionName NullString `json:"sub_region_name"`
	Deaths        int        `json:"deaths"`
	Population    float64    `json:"population"`
	Rate          float64    `json:"rate"`
}

// Label returns the sub-region name, falling back to the composite key
func (e MortalityRateEntry) Label() string {
	if e.SubRegionName.Valid {
		return e.SubRegionName.String
	}
	return e.CompositeKey
}

// LoadStats summarizes what the pipeline read, dropped and matched
type LoadStats struct {
	MortalityRows           int       `json:"mortality_rows"`
	DroppedInvalidDates     int       `json:"dropped_invalid_dates"`
	JoinedRows              int       `json:"joined_rows"`
	UnmatchedAdministrative int       `json:"unmatched_administrative"`
	UnmatchedCauses         int       `json:"unmatched_causes"`
	AdministrativeUnits     int       `json:"administrative_units"`
	CauseReferences         int       `json:"cause_references"`
	PopulationRecords       int       `json:"population_records"`
	RatedSubRegions         int       `json:"rated_sub_regions"`
	RankedSubRegions        int       `json:"ranked_sub_regions"`
	BoundaryFeatures        int       `json:"boundary_features"`
	BoundariesAvailable     bool      `json:"boundaries_available"`
	LoadedAt                time.Time `json:"loaded_at"`
	Duration                string    `json:"duration"`
}

// DatasetSummary is the public description of the loaded dataset
type DatasetSummary struct {
	Stats          LoadStats `json:"stats"`
	AnalysisYear   int       `json:"analysis_year"`
	PopulationYear int       `json:"population_year"`
	MinPopulation  float64   `json:"min_population"`
	DataNote       string    `json:"data_note,omitempty"`
}
