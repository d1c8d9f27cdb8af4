package healthlog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/jianyou-wu/medical-app/internal/vitals"
)

var csvHeader = []string{"姓名", "日期", "血壓", "心率", "體溫"}

const utf8BOM = "\ufeff"

// CSVStore appends entries to a UTF-8 (with BOM) CSV file, creating it with
// a header on first write. The mutex serialises writers in one process only.
type CSVStore struct {
	path string
	mu   sync.Mutex
}

// NewCSVStore returns a store backed by path.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Append writes e as one row.
func (s *CSVStore) Append(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open health log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat health log: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if _, err := io.WriteString(f, utf8BOM); err != nil {
			return fmt.Errorf("write health log: %w", err)
		}
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("write health log: %w", err)
		}
	}
	if err := w.Write([]string{e.Name, e.Date, e.BP, e.HR, e.Temp}); err != nil {
		return fmt.Errorf("write health log: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write health log: %w", err)
	}
	return nil
}

// List reads the file and returns matching rows, newest first. Alerts are
// recomputed from the stored values since the file does not carry them.
func (s *CSVStore) List(_ context.Context, name string, limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("open health log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read health log: %w", err)
	}

	out := make([]Entry, 0)
	for i := len(records) - 1; i >= 1; i-- {
		rec := records[i]
		if len(rec) < len(csvHeader) {
			continue
		}
		if name != "" && strings.TrimSpace(rec[0]) != name {
			continue
		}
		out = append(out, Entry{
			Name:   rec[0],
			Date:   rec[1],
			BP:     rec[2],
			HR:     rec[3],
			Temp:   rec[4],
			Alerts: vitals.Classify(rec[2], rec[3], rec[4]),
		})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
