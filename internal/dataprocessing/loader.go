package dataprocessing

import (
	"math"
	"strconv"
	"strings"

	"mortalitydash/pkg/contracts/domain"
)

// Table names used in errors and telemetry
const (
	TableMortality      = "mortality"
	TableCauses         = "causes"
	TableAdministrative = "administrative"
	TablePopulation     = "population"
)

// Source column names
const (
	colRegionCode    = "COD_DEPARTAMENTO"
	colSubRegionCode = "COD_MUNICIPIO"
	colCauseCode     = "COD_MUERTE"
	colDeathDate     = "FECHA_DEFUNCION"
	colSex           = "SEXO"
	colAgeGroup      = "GRUPO_EDAD1"

	colCauseRefCode = "Codigo"
	colCauseRefName = "Nombre Causa"

	colRegionName    = "DEPARTAMENTO"
	colSubRegionName = "MUNICIPIO"

	colPopMunicipality = "MPIO"
	colPopYear         = "AÑO"
	colPopArea         = "AREA"
	colPopTotal        = "TOTAL"
)

// MortalityLoad is the result of reading the mortality workbook
type MortalityLoad struct {
	Records []domain.MortalityRecord
	// RowsRead counts data rows before any were dropped
	RowsRead int
	// DroppedInvalidDates counts rows whose death date did not parse
	DroppedInvalidDates int
}

// LoadMortality reads the death events. Rows with an unparseable death date
// are dropped; every other field is kept as read.
func LoadMortality(path string) (*MortalityLoad, error) {
	s, err := readSheet(TableMortality, path)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	if err := s.require(colRegionCode, colSubRegionCode, colCauseCode, colDeathDate, colSex, colAgeGroup); err != nil {
		return nil, err
	}

	load := &MortalityLoad{}
	load.RowsRead, err = s.each(func(row []string) {
		date, err := ParseDeathDate(s.cell(row, colDeathDate))
		if err != nil {
			load.DroppedInvalidDates++
			return
		}
		load.Records = append(load.Records, domain.MortalityRecord{
			RegionCode:    strings.TrimSpace(s.cell(row, colRegionCode)),
			SubRegionCode: strings.TrimSpace(s.cell(row, colSubRegionCode)),
			CauseCode:     strings.TrimSpace(s.cell(row, colCauseCode)),
			DeathDate:     date,
			Sex:           strings.TrimSpace(s.cell(row, colSex)),
			AgeGroupCode:  strings.TrimSpace(s.cell(row, colAgeGroup)),
		})
	})
	if err != nil {
		return nil, err
	}
	return load, nil
}

// LoadCauses reads the cause reference table. Duplicate codes are kept.
func LoadCauses(path string) ([]domain.CauseReference, error) {
	s, err := readSheet(TableCauses, path)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	if err := s.require(colCauseRefCode, colCauseRefName); err != nil {
		return nil, err
	}

	var causes []domain.CauseReference
	if _, err := s.each(func(row []string) {
		causes = append(causes, domain.CauseReference{
			CauseCode: strings.TrimSpace(s.cell(row, colCauseRefCode)),
			CauseName: strings.TrimSpace(s.cell(row, colCauseRefName)),
		})
	}); err != nil {
		return nil, err
	}
	return causes, nil
}

// LoadAdministrativeUnits reads the Divipola table, deduplicated on
// (key, region name, sub-region name) in first-seen order.
func LoadAdministrativeUnits(path string) ([]domain.AdministrativeUnit, error) {
	s, err := readSheet(TableAdministrative, path)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	if err := s.require(colRegionCode, colSubRegionCode, colRegionName, colSubRegionName); err != nil {
		return nil, err
	}

	seen := make(map[domain.AdministrativeUnit]struct{})
	var units []domain.AdministrativeUnit
	if _, err := s.each(func(row []string) {
		unit := domain.AdministrativeUnit{
			CompositeKey:  CompositeKey(s.cell(row, colRegionCode), s.cell(row, colSubRegionCode)),
			RegionName:    strings.TrimSpace(s.cell(row, colRegionName)),
			SubRegionName: strings.TrimSpace(s.cell(row, colSubRegionName)),
		}
		if _, dup := seen[unit]; dup {
			return
		}
		seen[unit] = struct{}{}
		units = append(units, unit)
	}); err != nil {
		return nil, err
	}
	return units, nil
}

// LoadPopulation reads the population projections for one year and area type.
// Rows with an unusable key or a missing, non-numeric or negative total are dropped.
func LoadPopulation(path string, year int, area string) ([]domain.PopulationRecord, error) {
	s, err := readSheet(TablePopulation, path)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	if err := s.require(colPopMunicipality, colPopYear, colPopArea, colPopTotal); err != nil {
		return nil, err
	}

	var records []domain.PopulationRecord
	if _, err := s.each(func(row []string) {
		y, err := strconv.ParseFloat(strings.TrimSpace(s.cell(row, colPopYear)), 64)
		if err != nil || y != float64(year) {
			return
		}
		if strings.TrimSpace(s.cell(row, colPopArea)) != area {
			return
		}
		key := PopulationKey(s.cell(row, colPopMunicipality))
		if key == "" {
			return
		}
		total, err := strconv.ParseFloat(strings.TrimSpace(s.cell(row, colPopTotal)), 64)
		if err != nil || math.IsNaN(total) || math.IsInf(total, 0) || total < 0 {
			return
		}
		records = append(records, domain.PopulationRecord{CompositeKey: key, Population: total})
	}); err != nil {
		return nil, err
	}
	return records, nil
}

// SexLabel maps DANE sex codes to their labels; other values are upper-cased
func SexLabel(raw string) string {
	switch v := strings.TrimSpace(raw); CleanCode(v) {
	case "1":
		return "MASCULINO"
	case "2":
		return "FEMENINO"
	case "3":
		return "INDETERMINADO"
	default:
		return strings.ToUpper(v)
	}
}
