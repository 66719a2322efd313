package settings

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/anoyetta/specialspelltimer/internal/appdata"
)

var (
	// ErrMalformed is returned by Load when the backing document cannot be parsed.
	ErrMalformed = errors.New("settings: malformed document")

	// ErrLoadFailed is returned by Save while the last Load failed, so an
	// unreadable document is never replaced by a partial table.
	ErrLoadFailed = errors.New("settings: last load failed")
)

// Well-known value names.
const (
	KeyOverlayVisible = "OverlayVisible"
	KeyLastUpdate     = "LastUpdateDateTime"
)

var (
	defaultOnce  sync.Once
	defaultStore *Store
)

// Default returns the process-wide store backed by DefaultPath.
// The first call constructs it and runs Load; a load failure leaves the
// table empty and is reported by LoadErr.
func Default() *Store {
	defaultOnce.Do(func() {
		defaultStore = New(DefaultPath())
		_ = defaultStore.Load()
	})
	return defaultStore
}

// DefaultPath returns the fixed per-user location of the settings document.
func DefaultPath() string {
	return appdata.SettingsPath(appdata.Root())
}

// Store is the in-memory settings table mirrored to one XML document.
type Store struct {
	path        string
	rows        []entry
	values      []Value
	valuesDirty bool
	loadErr     error
}

// New creates an empty store backed by path. It does not read the file.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// LoadErr returns the error from the most recent Load, nil after a
// successful one or before any.
func (s *Store) LoadErr() error {
	return s.loadErr
}

// Load replaces the table with the contents of the backing file.
// A missing file is not an error and leaves the table untouched.
// Until a later Load succeeds, a failure also blocks Save.
func (s *Store) Load() error {
	s.loadErr = s.load()
	return s.loadErr
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("settings: read %s: %w", s.path, err)
	}

	s.Clear()

	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, s.path, err)
	}

	for _, r := range doc.Panels {
		s.rows = append(s.rows, entry{row: r, state: RowUnchanged})
	}
	s.values = append(s.values, doc.Values...)
	s.valuesDirty = false
	return nil
}

// Save commits pending changes and overwrites the backing file with the
// whole table, creating the directory if needed. It returns ErrLoadFailed
// without touching the file while the last Load failed.
func (s *Store) Save() error {
	if s.loadErr != nil {
		return fmt.Errorf("%w: %s: %v", ErrLoadFailed, s.path, s.loadErr)
	}
	s.AcceptChanges()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("settings: create directory: %w", err)
	}

	doc := document{
		Panels: s.Rows(),
		Values: s.Values(),
	}
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("settings: encode: %w", err)
	}
	data := append([]byte(xml.Header), body...)
	data = append(data, '\n')

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("settings: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("settings: replace %s: %w", s.path, err)
	}
	return nil
}

// AcceptChanges drops deleted rows and marks every remaining row unchanged.
func (s *Store) AcceptChanges() {
	kept := s.rows[:0]
	for _, e := range s.rows {
		if e.state == RowDeleted {
			continue
		}
		e.state = RowUnchanged
		kept = append(kept, e)
	}
	s.rows = kept
	s.valuesDirty = false
}

// HasChanges reports whether anything changed since the last AcceptChanges.
func (s *Store) HasChanges() bool {
	if s.valuesDirty {
		return true
	}
	for _, e := range s.rows {
		if e.state != RowUnchanged {
			return true
		}
	}
	return false
}

// Clear removes every row and value.
func (s *Store) Clear() {
	s.rows = nil
	s.values = nil
	s.valuesDirty = true
}

// Len returns the number of live (non-deleted) rows.
func (s *Store) Len() int {
	n := 0
	for _, e := range s.rows {
		if e.state != RowDeleted {
			n++
		}
	}
	return n
}

// Rows returns a copy of the live rows in table order.
func (s *Store) Rows() []Row {
	out := make([]Row, 0, len(s.rows))
	for _, e := range s.rows {
		if e.state != RowDeleted {
			out = append(out, e.row)
		}
	}
	return out
}

// Find returns the live row for panel.
func (s *Store) Find(panel string) (Row, bool) {
	if i := s.index(panel); i >= 0 && s.rows[i].state != RowDeleted {
		return s.rows[i].row, true
	}
	return Row{}, false
}

// State returns the change state of the row for panel.
func (s *Store) State(panel string) (RowState, bool) {
	if i := s.index(panel); i >= 0 {
		return s.rows[i].state, true
	}
	return RowUnchanged, false
}

// Upsert inserts row or replaces the row with the same panel name.
func (s *Store) Upsert(row Row) {
	i := s.index(row.PanelName)
	if i < 0 {
		s.rows = append(s.rows, entry{row: row, state: RowAdded})
		return
	}
	e := &s.rows[i]
	e.row = row
	if e.state != RowAdded {
		e.state = RowModified
	}
}

// Delete marks the row for panel deleted. Rows added since the last
// AcceptChanges are dropped immediately.
func (s *Store) Delete(panel string) bool {
	i := s.index(panel)
	if i < 0 || s.rows[i].state == RowDeleted {
		return false
	}
	if s.rows[i].state == RowAdded {
		s.rows = append(s.rows[:i], s.rows[i+1:]...)
		return true
	}
	s.rows[i].state = RowDeleted
	return true
}

func (s *Store) index(panel string) int {
	for i, e := range s.rows {
		if e.row.PanelName == panel {
			return i
		}
	}
	return -1
}

// Values returns a copy of the named values in insertion order.
func (s *Store) Values() []Value {
	return append([]Value(nil), s.values...)
}

// Get returns the raw value stored under name.
func (s *Store) Get(name string) (string, bool) {
	for _, v := range s.values {
		if v.Name == name {
			return v.Value, true
		}
	}
	return "", false
}

// Set stores value under name.
func (s *Store) Set(name, value string) {
	s.valuesDirty = true
	for i := range s.values {
		if s.values[i].Name == name {
			s.values[i].Value = value
			return
		}
	}
	s.values = append(s.values, Value{Name: name, Value: value})
}

// String returns the value under name, or def if absent.
func (s *Store) String(name, def string) string {
	if v, ok := s.Get(name); ok {
		return v
	}
	return def
}

// Bool returns the value under name parsed as a bool, or def if absent or invalid.
func (s *Store) Bool(name string, def bool) bool {
	v, ok := s.Get(name)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// SetBool stores a bool value.
func (s *Store) SetBool(name string, value bool) {
	s.Set(name, strconv.FormatBool(value))
}

// Time returns the value under name parsed as RFC 3339, or the zero time.
func (s *Store) Time(name string) time.Time {
	v, ok := s.Get(name)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SetTime stores a timestamp value.
func (s *Store) SetTime(name string, value time.Time) {
	s.Set(name, value.Format(time.RFC3339Nano))
}

// OverlayVisible reports the persisted overlay visibility. Defaults to true.
func (s *Store) OverlayVisible() bool {
	return s.Bool(KeyOverlayVisible, true)
}

// SetOverlayVisible sets the overlay visibility flag.
func (s *Store) SetOverlayVisible(visible bool) {
	s.SetBool(KeyOverlayVisible, visible)
}

// LastUpdate returns the last update-check time, zero if never checked.
func (s *Store) LastUpdate() time.Time {
	return s.Time(KeyLastUpdate)
}

// SetLastUpdate records the last update-check time.
func (s *Store) SetLastUpdate(t time.Time) {
	s.SetTime(KeyLastUpdate, t)
}
