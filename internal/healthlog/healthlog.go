// Package healthlog records daily vitals and the alerts they raised.
package healthlog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jianyou-wu/medical-app/internal/vitals"
)

// DateLayout is the format of Entry.Date.
const DateLayout = "2006-01-02"

// ErrNameRequired is returned when an entry has no patient name.
var ErrNameRequired = errors.New("name is required")

// Entry is one logged reading. BP, HR and Temp are stored as entered so a
// malformed value is kept alongside its format-error alert.
type Entry struct {
	ID         uuid.UUID      `json:"id"`
	Name       string         `json:"name"`
	Date       string         `json:"date"`
	BP         string         `json:"bp"`
	HR         string         `json:"hr"`
	Temp       string         `json:"temp"`
	Alerts     []vitals.Label `json:"alerts"`
	RecordedAt time.Time      `json:"recordedAt"`
}

// Store persists entries. Implementations need only support a single writer.
type Store interface {
	Append(ctx context.Context, e Entry) error
	List(ctx context.Context, name string, limit int) ([]Entry, error)
}

// Recorder classifies a reading and appends it to a Store.
type Recorder struct {
	store Store
	now   func() time.Time
}

// NewRecorder returns a recorder writing to store.
func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store, now: time.Now}
}

// Record classifies the raw form fields and appends the entry. The alerts
// are returned even when the reading has format errors.
func (r *Recorder) Record(ctx context.Context, name, bp, hr, temp string) (Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Entry{}, ErrNameRequired
	}

	now := r.now()
	e := Entry{
		ID:         uuid.New(),
		Name:       name,
		Date:       now.Format(DateLayout),
		BP:         strings.TrimSpace(bp),
		HR:         strings.TrimSpace(hr),
		Temp:       strings.TrimSpace(temp),
		Alerts:     vitals.Classify(bp, hr, temp),
		RecordedAt: now,
	}
	if err := r.store.Append(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// History lists entries for name, newest first. An empty name lists all.
func (r *Recorder) History(ctx context.Context, name string, limit int) ([]Entry, error) {
	return r.store.List(ctx, strings.TrimSpace(name), limit)
}
