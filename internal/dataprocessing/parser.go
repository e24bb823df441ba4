package dataprocessing

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	apierrors "mortalitydash/internal/errors"
)

// ErrInputMissing marks a required workbook that does not exist
var ErrInputMissing = errors.New("required input missing")

// sheet streams the first worksheet of a workbook with its header row indexed.
// It holds the workbook open until Close.
type sheet struct {
	table   string
	path    string
	name    string
	columns map[string]int
	file    *excelize.File
	rows    *excelize.Rows
}

// readSheet opens path, positions a row iterator on its first worksheet and
// reads the header row. Data rows are read on demand through each.
func readSheet(table, path string) (*sheet, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apierrors.NewInputMissingError(table, path, fmt.Errorf("%w: %w", ErrInputMissing, err))
		}
		return nil, apierrors.NewStorageError(fmt.Sprintf("cannot stat %s workbook", table), err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apierrors.NewParsingError(fmt.Sprintf("failed to open %s workbook", table), err)
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, apierrors.NewParsingError(fmt.Sprintf("%s workbook has no sheets", table), nil)
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		f.Close()
		return nil, apierrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheets[0]), err)
	}

	s := &sheet{
		table: table,
		path:  path,
		name:  sheets[0],
		file:  f,
		rows:  rows,
	}
	header, ok, err := s.next()
	if err != nil {
		s.Close()
		return nil, err
	}
	if !ok {
		s.Close()
		return nil, apierrors.NewParsingError(fmt.Sprintf("%s workbook is empty", table), nil)
	}

	s.columns = make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if key == "" {
			continue
		}
		if _, dup := s.columns[key]; !dup {
			s.columns[key] = i
		}
	}
	return s, nil
}

// next returns the following row as raw cell values
func (s *sheet) next() ([]string, bool, error) {
	if !s.rows.Next() {
		if err := s.rows.Error(); err != nil {
			return nil, false, apierrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", s.name), err)
		}
		return nil, false, nil
	}
	row, err := s.rows.Columns(excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, false, apierrors.NewParsingError(fmt.Sprintf("failed to read row of sheet %q", s.name), err).
			WithContext("path", s.path)
	}
	return row, true, nil
}

// each calls fn for every non-blank data row and returns how many it saw
func (s *sheet) each(fn func(row []string)) (int, error) {
	n := 0
	for {
		row, ok, err := s.next()
		if err != nil {
			return n, err
		}
		if !ok {
			return n, nil
		}
		if blankRow(row) {
			continue
		}
		n++
		fn(row)
	}
}

// Close releases the row iterator and the workbook
func (s *sheet) Close() error {
	rowsErr := s.rows.Close()
	return errors.Join(rowsErr, s.file.Close())
}

// require fails with a parsing error naming every absent column
func (s *sheet) require(names ...string) error {
	var missing []string
	for _, name := range names {
		if _, ok := s.columns[normalizeHeader(name)]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return apierrors.NewParsingError(
		fmt.Sprintf("%s workbook is missing columns: %s", s.table, strings.Join(missing, ", ")), nil).
		WithContext("path", s.path).
		WithContext("sheet", s.name)
}

// cell returns the named column of row, or "" past the end of a short row
func (s *sheet) cell(row []string, name string) string {
	idx, ok := s.columns[normalizeHeader(name)]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

var (
	headerFolder   = cases.Fold()
	accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// normalizeHeader makes header matching case, accent and spacing insensitive
func normalizeHeader(h string) string {
	stripped, _, err := transform.String(accentStripper, h)
	if err != nil {
		stripped = h
	}
	folded := headerFolder.String(stripped)
	return strings.Join(strings.Fields(folded), " ")
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
