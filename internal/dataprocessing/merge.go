package dataprocessing

import (
	"mortalitydash/pkg/contracts/domain"
)

// MergeStats counts mortality rows that found no reference match
type MergeStats struct {
	UnmatchedAdministrative int
	UnmatchedCauses         int
}

// Merge left-joins records to the administrative units on CompositeKey and
// then to the cause references on CauseCode. Unmatched rows keep null names
// and duplicate reference keys fan out in reference order. Empty keys never match.
func Merge(records []domain.MortalityRecord, units []domain.AdministrativeUnit, causes []domain.CauseReference) ([]domain.JoinedRecord, MergeStats) {
	unitsByKey := make(map[string][]domain.AdministrativeUnit, len(units))
	for _, u := range units {
		if u.CompositeKey == "" {
			continue
		}
		unitsByKey[u.CompositeKey] = append(unitsByKey[u.CompositeKey], u)
	}
	causesByCode := make(map[string][]domain.CauseReference, len(causes))
	for _, c := range causes {
		if c.CauseCode == "" {
			continue
		}
		causesByCode[c.CauseCode] = append(causesByCode[c.CauseCode], c)
	}

	var stats MergeStats
	joined := make([]domain.JoinedRecord, 0, len(records))
	for _, rec := range records {
		var admin []domain.JoinedRecord
		if matches := unitsByKey[rec.CompositeKey]; rec.CompositeKey != "" && len(matches) > 0 {
			admin = make([]domain.JoinedRecord, len(matches))
			for i, u := range matches {
				admin[i] = domain.JoinedRecord{
					MortalityRecord: rec,
					RegionName:      domain.NewNullString(u.RegionName),
					SubRegionName:   domain.NewNullString(u.SubRegionName),
				}
			}
		} else {
			stats.UnmatchedAdministrative++
			admin = []domain.JoinedRecord{{MortalityRecord: rec}}
		}

		matches := causesByCode[rec.CauseCode]
		if rec.CauseCode == "" || len(matches) == 0 {
			stats.UnmatchedCauses += len(admin)
			joined = append(joined, admin...)
			continue
		}
		for _, a := range admin {
			for _, c := range matches {
				row := a
				row.CauseName = domain.NewNullString(c.CauseName)
				joined = append(joined, row)
			}
		}
	}
	return joined, stats
}
