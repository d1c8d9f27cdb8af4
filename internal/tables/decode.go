// Package tables loads the rule and reference tables the service evaluates
// against: medications, diseases, department rules, clinics and patients.
package tables

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrMissingColumn is returned when a required header is absent.
var ErrMissingColumn = errors.New("missing required column")

// Decode returns a UTF-8 reader over table content. Valid UTF-8 has its byte
// order mark removed; anything else is treated as Big5, the encoding of
// government open-data exports.
func Decode(r io.Reader) (io.Reader, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	if utf8.Valid(b) {
		return transform.NewReader(bytes.NewReader(b), unicode.BOMOverride(unicode.UTF8.NewDecoder())), nil
	}
	return transform.NewReader(bytes.NewReader(b), traditionalchinese.Big5.NewDecoder()), nil
}

// sheet is a header-indexed grid of cells.
type sheet struct {
	header map[string]int
	cols   []string
	rows   [][]string
}

func newSheet(records [][]string) (*sheet, error) {
	if len(records) == 0 {
		return nil, errors.New("table is empty")
	}
	s := &sheet{header: make(map[string]int, len(records[0]))}
	for i, h := range records[0] {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := s.header[h]; !dup && h != "" {
			s.header[h] = i
			s.cols = append(s.cols, h)
		}
	}
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		s.rows = append(s.rows, rec)
	}
	return s, nil
}

func readCSV(r io.Reader) (*sheet, error) {
	dec, err := Decode(r)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return newSheet(records)
}

func (s *sheet) require(cols ...string) error {
	for _, c := range cols {
		if _, ok := s.header[c]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}
	return nil
}

// get returns the trimmed cell for col, or "" when the column or cell is
// absent.
func (s *sheet) get(row []string, col string) string {
	i, ok := s.header[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// columns lists headers in source order.
func (s *sheet) columns() []string {
	return append([]string(nil), s.cols...)
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
