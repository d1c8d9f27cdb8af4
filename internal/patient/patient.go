// Package patient looks up simulated medical records by name or national ID.
package patient

import "strings"

// Record is one patient row. Fields holds every column of the source table,
// including name and ID, keyed by header.
type Record struct {
	Name       string            `json:"name"`
	NationalID string            `json:"nationalId"`
	Columns    []string          `json:"columns"`
	Fields     map[string]string `json:"fields"`
}

// Directory is an immutable, ordered set of records.
type Directory struct {
	records []Record
}

// NewDirectory normalises names and IDs and returns the directory.
func NewDirectory(rows []Record) *Directory {
	d := &Directory{records: make([]Record, len(rows))}
	for i, r := range rows {
		r.Name = Normalize(r.Name)
		r.NationalID = strings.TrimSpace(r.NationalID)
		d.records[i] = r
	}
	return d
}

// Normalize removes ideographic spaces (U+3000) and trims surrounding
// whitespace. Names in the source table are padded with them.
func Normalize(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\u3000", ""))
}

// Find returns the first record whose name or national ID equals query after
// normalisation. An empty query never matches.
func (d *Directory) Find(query string) (Record, bool) {
	query = Normalize(query)
	if d == nil || query == "" {
		return Record{}, false
	}
	for _, r := range d.records {
		if r.Name == query || r.NationalID == query {
			return r, true
		}
	}
	return Record{}, false
}

// Len reports the number of records.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}
