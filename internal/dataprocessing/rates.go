package dataprocessing

import (
	"sort"

	"mortalitydash/internal/config"
	"mortalitydash/pkg/contracts/domain"
)

// CalculateRates counts deaths per composite key, inner-joins the population
// table and attaches sub-region names from the administrative units.
// Entries come back in ascending key order. Duplicate population or name
// rows fan out; a zero population has no defined rate and is skipped.
func CalculateRates(rows []domain.JoinedRecord, population []domain.PopulationRecord, units []domain.AdministrativeUnit) []domain.MortalityRateEntry {
	deaths := make(map[string]int)
	for _, r := range rows {
		deaths[r.CompositeKey]++
	}
	keys := make([]string, 0, len(deaths))
	for k := range deaths {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	popByKey := make(map[string][]float64, len(population))
	for _, p := range population {
		popByKey[p.CompositeKey] = append(popByKey[p.CompositeKey], p.Population)
	}
	names := subRegionNames(units)

	var entries []domain.MortalityRateEntry
	for _, key := range keys {
		if key == "" {
			continue
		}
		for _, pop := range popByKey[key] {
			if pop <= 0 {
				continue
			}
			rate := float64(deaths[key]) / pop * config.PerHundredThousand
			base := domain.MortalityRateEntry{
				CompositeKey: key,
				Deaths:       deaths[key],
				Population:   pop,
				Rate:         rate,
			}
			matches := names[key]
			if len(matches) == 0 {
				entries = append(entries, base)
				continue
			}
			for _, name := range matches {
				e := base
				e.SubRegionName = domain.NewNullString(name)
				entries = append(entries, e)
			}
		}
	}
	return entries
}

// subRegionNames indexes the distinct (key, sub-region name) pairs in first-seen order
func subRegionNames(units []domain.AdministrativeUnit) map[string][]string {
	type pair struct{ key, name string }
	seen := make(map[pair]struct{}, len(units))
	out := make(map[string][]string, len(units))
	for _, u := range units {
		if u.CompositeKey == "" {
			continue
		}
		p := pair{u.CompositeKey, u.SubRegionName}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out[u.CompositeKey] = append(out[u.CompositeKey], u.SubRegionName)
	}
	return out
}

// RankLowest keeps entries with at least minPopulation inhabitants, sorts
// them by ascending rate and returns the first topN. Ties keep their order.
func RankLowest(entries []domain.MortalityRateEntry, minPopulation float64, topN int) []domain.MortalityRateEntry {
	kept := make([]domain.MortalityRateEntry, 0, len(entries))
	for _, e := range entries {
		if e.Population >= minPopulation {
			kept = append(kept, e)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Rate < kept[j].Rate
	})
	if topN >= 0 && len(kept) > topN {
		kept = kept[:topN]
	}
	return kept
}
