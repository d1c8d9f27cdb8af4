package healthlog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jianyou-wu/medical-app/internal/vitals"
)

type failingStore struct{ err error }

func (f failingStore) Append(context.Context, Entry) error { return f.err }
func (f failingStore) List(context.Context, string, int) ([]Entry, error) {
	return nil, f.err
}

func fixedRecorder(store Store) *Recorder {
	r := NewRecorder(store)
	r.now = func() time.Time { return time.Date(2026, 10, 17, 9, 30, 0, 0, time.Local) }
	return r
}

func TestRecorder_Record(t *testing.T) {
	store := NewCSVStore(filepath.Join(t.TempDir(), "health_log.csv"))
	r := fixedRecorder(store)

	e, err := r.Record(context.Background(), " 王小明 ", "150/95", "72", "abc")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, "王小明", e.Name)
	assert.Equal(t, "2026-10-17", e.Date)
	assert.Equal(t, []vitals.Label{vitals.BPHigh, vitals.TempFormatError}, e.Alerts)
}

func TestRecorder_RequiresName(t *testing.T) {
	r := fixedRecorder(failingStore{})
	_, err := r.Record(context.Background(), "  ", "120/80", "70", "36.5")
	require.ErrorIs(t, err, ErrNameRequired)
}

func TestRecorder_StoreError(t *testing.T) {
	boom := errors.New("disk full")
	r := fixedRecorder(failingStore{err: boom})
	_, err := r.Record(context.Background(), "王小明", "120/80", "70", "36.5")
	require.ErrorIs(t, err, boom)
}

func TestCSVStore_AppendWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "health_log.csv")
	r := fixedRecorder(NewCSVStore(path))
	ctx := context.Background()

	_, err := r.Record(ctx, "王小明", "120/80", "70", "36.5")
	require.NoError(t, err)
	_, err = r.Record(ctx, "陳美玲", "85/55", "110", "38")
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)
	assert.True(t, strings.HasPrefix(content, "\ufeff姓名,日期,血壓,心率,體溫\n"))
	assert.Equal(t, 1, strings.Count(content, "姓名"))
	assert.Contains(t, content, "王小明,2026-10-17,120/80,70,36.5\n")
	assert.Contains(t, content, "陳美玲,2026-10-17,85/55,110,38\n")
}

func TestCSVStore_List(t *testing.T) {
	path := filepath.Join(t.TempDir(), "health_log.csv")
	r := fixedRecorder(NewCSVStore(path))
	ctx := context.Background()

	for _, bp := range []string{"120/80", "150/95", "85/55"} {
		_, err := r.Record(ctx, "王小明", bp, "70", "36.5")
		require.NoError(t, err)
	}
	_, err := r.Record(ctx, "陳美玲", "120/80", "70", "36.5")
	require.NoError(t, err)

	entries, err := r.History(ctx, "王小明", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "85/55", entries[0].BP)
	assert.Equal(t, []vitals.Label{vitals.BPLow}, entries[0].Alerts)
	assert.Equal(t, "150/95", entries[1].BP)

	all, err := r.History(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "陳美玲", all[0].Name)
}

func TestCSVStore_ListMissingFile(t *testing.T) {
	s := NewCSVStore(filepath.Join(t.TempDir(), "none.csv"))
	entries, err := s.List(context.Background(), "", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPGStore(t *testing.T) {
	url := os.Getenv("HEALTHLOG_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("HEALTHLOG_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	defer pool.Close()

	store := NewPGStore(pool)
	require.NoError(t, store.EnsureSchema(ctx))

	name := "test-" + uuid.NewString()
	r := fixedRecorder(store)
	e, err := r.Record(ctx, name, "150/80", "50", "36.5")
	require.NoError(t, err)

	entries, err := r.History(ctx, name, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, e.ID, entries[0].ID)
	assert.Equal(t, []vitals.Label{vitals.BPHigh, vitals.HRLow}, entries[0].Alerts)

	_, err = pool.Exec(ctx, `DELETE FROM health_log WHERE name = $1`, name)
	require.NoError(t, err)
}
