package exporter

import (
	"fmt"
	"io"

	"mortalitydash/pkg/contracts/domain"
)

// RecordSource iterates joined records in load order
type RecordSource interface {
	ForEach(fn func(domain.JoinedRecord))
}

// JoinedHeaders are the columns of the joined dataset export
var JoinedHeaders = []string{
	"COD_DANE", "COD_DEPARTAMENTO", "COD_MUNICIPIO", "DEPARTAMENTO", "MUNICIPIO",
	"FECHA_DEFUNCION", "MES", "SEXO", "GRUPO_EDAD1", "GRUPO_EDAD",
	"COD_MUERTE", "DESCRIPCION_MUERTE",
}

// RateHeaders are the columns of the mortality rate export
var RateHeaders = []string{"COD_DANE", "MUNICIPIO", "MUERTES", "POBLACION", "TASA_100K"}

// WriteJoined streams every joined record and returns the row count
func WriteJoined(w io.Writer, src RecordSource, bom bool) (int, error) {
	stream, err := NewStreamWriter(w, JoinedHeaders, bom)
	if err != nil {
		return 0, err
	}

	var writeErr error
	src.ForEach(func(r domain.JoinedRecord) {
		if writeErr != nil {
			return
		}
		writeErr = stream.WriteRecord(joinedRow(r))
	})
	if writeErr != nil {
		return stream.Rows(), fmt.Errorf("failed to write joined record %d: %w", stream.Rows()+1, writeErr)
	}
	return stream.Rows(), stream.Close()
}

// WriteRates encodes rate entries with fixed two-decimal rates
func WriteRates(w io.Writer, entries []domain.MortalityRateEntry, bom bool) error {
	records := make([][]string, len(entries))
	for i, e := range entries {
		records[i] = []string{
			e.CompositeKey,
			formatNull(e.SubRegionName),
			formatInt(e.Deaths),
			formatFloat(e.Population),
			formatFloat(e.Rate),
		}
	}
	return Write(w, WriteOptions{Headers: RateHeaders, Records: records, BOMPrefix: bom})
}

func joinedRow(r domain.JoinedRecord) []string {
	month := ""
	if r.Month > 0 {
		month = formatInt(r.Month)
	}
	return []string{
		r.CompositeKey,
		r.RegionCode,
		r.SubRegionCode,
		formatNull(r.RegionName),
		formatNull(r.SubRegionName),
		formatDate(r.DeathDate),
		month,
		r.Sex,
		r.AgeGroupCode,
		r.AgeGroup,
		r.CauseCode,
		formatNull(r.CauseName),
	}
}
