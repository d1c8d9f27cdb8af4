package tables

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jianyou-wu/medical-app/internal/clinic"
	"github.com/jianyou-wu/medical-app/internal/dosage"
	"github.com/jianyou-wu/medical-app/internal/matcher"
	"github.com/jianyou-wu/medical-app/internal/patient"
)

// Sources names the table files. Relative paths are resolved against Dir.
// An empty DeptRules uses matcher.DefaultDeptRules.
type Sources struct {
	Dir         string
	Medications string
	Diseases    string
	Clinics     string
	Patients    string
	DeptRules   string
}

func (s Sources) path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.Dir, name)
}

// Snapshot is one immutable load of every table. Handlers read a snapshot
// per request and never mutate it.
type Snapshot struct {
	Medications *dosage.Table
	Diseases    []matcher.DiseaseRecord
	DeptRules   matcher.DeptRules
	Clinics     *clinic.Directory
	Patients    *patient.Directory

	// Missing lists configured files that did not exist; their tables are
	// empty.
	Missing  []string
	LoadedAt time.Time
}

// Load reads every table named in src. A missing file yields an empty table
// and is reported in Snapshot.Missing; any other failure is returned.
func Load(src Sources) (*Snapshot, error) {
	snap := &Snapshot{
		Medications: dosage.NewTable(nil),
		DeptRules:   matcher.DefaultDeptRules(),
		Clinics:     clinic.NewDirectory(nil),
		Patients:    patient.NewDirectory(nil),
		Diseases:    []matcher.DiseaseRecord{},
		LoadedAt:    time.Now(),
	}

	if err := snap.load(src.path(src.Medications), func(f *os.File) error {
		rows, err := readMedicationsFile(f)
		if err != nil {
			return err
		}
		snap.Medications = dosage.NewTable(rows)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := snap.load(src.path(src.Diseases), func(f *os.File) error {
		rows, err := ReadDiseases(f)
		if err != nil {
			return err
		}
		snap.Diseases = rows
		return nil
	}); err != nil {
		return nil, err
	}

	if err := snap.load(src.path(src.DeptRules), func(f *os.File) error {
		rules, err := ReadDeptRules(f)
		if err != nil {
			return err
		}
		snap.DeptRules = rules
		return nil
	}); err != nil {
		return nil, err
	}

	if err := snap.load(src.path(src.Clinics), func(f *os.File) error {
		rows, err := ReadClinics(f)
		if err != nil {
			return err
		}
		snap.Clinics = clinic.NewDirectory(rows)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := snap.load(src.path(src.Patients), func(f *os.File) error {
		rows, err := ReadPatients(f)
		if err != nil {
			return err
		}
		snap.Patients = patient.NewDirectory(rows)
		return nil
	}); err != nil {
		return nil, err
	}

	return snap, nil
}

func (s *Snapshot) load(path string, read func(*os.File) error) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.Missing = append(s.Missing, path)
			return nil
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if err := read(f); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func readMedicationsFile(f *os.File) ([]dosage.Rule, error) {
	if strings.EqualFold(filepath.Ext(f.Name()), ".xlsx") {
		return ReadMedicationsXLSX(f)
	}
	return ReadMedications(f)
}

// LoadMedications reads a single medication table, CSV or XLSX by extension.
func LoadMedications(path string) ([]dosage.Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readMedicationsFile(f)
}

// Store holds the current snapshot. Readers never block; Reload swaps in a
// new snapshot only when every table loads.
type Store struct {
	src Sources
	cur atomic.Pointer[Snapshot]
}

// NewStore loads src and returns a store serving it.
func NewStore(src Sources) (*Store, error) {
	s := &Store{src: src}
	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStaticStore serves a fixed snapshot. Reload is a no-op.
func NewStaticStore(snap *Snapshot) *Store {
	s := &Store{}
	s.cur.Store(snap)
	return s
}

// Snapshot returns the current tables.
func (s *Store) Snapshot() *Snapshot {
	return s.cur.Load()
}

// Reload re-reads every table. On failure the previous snapshot stays in
// place and the error is returned.
func (s *Store) Reload() (*Snapshot, error) {
	if s.src == (Sources{}) {
		return s.cur.Load(), nil
	}
	snap, err := Load(s.src)
	if err != nil {
		return nil, err
	}
	s.cur.Store(snap)
	return snap, nil
}
