package settings

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "anoyetta", "ACT", "ACT.SpecialSpellTimer.Panels.xml"))
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	s.Upsert(Row{PanelName: "General", Left: 10, Top: 20.5})
	s.Upsert(Row{PanelName: "Raid", Left: -4, Top: 300})
	s.SetOverlayVisible(false)
	s.SetLastUpdate(time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC))

	if err := s.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	fresh := New(s.Path())
	if err := fresh.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if diff := cmp.Diff(s.Rows(), fresh.Rows()); diff != "" {
		t.Errorf("rows mismatch (-saved +loaded):\n%s", diff)
	}
	if diff := cmp.Diff(s.Values(), fresh.Values()); diff != "" {
		t.Errorf("values mismatch (-saved +loaded):\n%s", diff)
	}
	if fresh.OverlayVisible() {
		t.Error("OverlayVisible() = true after reload, want false")
	}
	if !fresh.LastUpdate().Equal(s.LastUpdate()) {
		t.Errorf("LastUpdate() = %v, want %v", fresh.LastUpdate(), s.LastUpdate())
	}
}

func TestStore_LoadMissingFile(t *testing.T) {
	s := newTestStore(t)

	if err := s.Load(); err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if len(s.Values()) != 0 {
		t.Errorf("Values() = %v, want empty", s.Values())
	}
}

func TestStore_LoadMalformed(t *testing.T) {
	s := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(s.Path()), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.Path(), []byte("<DocumentElement><PanelSettings>"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := s.Load()
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("Load() error = %v, want ErrMalformed", err)
	}
	if !errors.Is(s.LoadErr(), ErrMalformed) {
		t.Errorf("LoadErr() = %v, want ErrMalformed", s.LoadErr())
	}
}

func TestStore_SaveRefusedAfterFailedLoad(t *testing.T) {
	s := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(s.Path()), 0o755); err != nil {
		t.Fatal(err)
	}
	original := []byte("<DocumentElement><PanelSettings><PanelName>Keep")
	if err := os.WriteFile(s.Path(), original, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Load(); err == nil {
		t.Fatal("Load() succeeded on a truncated document")
	}

	s.SetOverlayVisible(false)
	if err := s.Save(); !errors.Is(err, ErrLoadFailed) {
		t.Fatalf("Save() error = %v, want ErrLoadFailed", err)
	}

	got, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(original) {
		t.Errorf("document rewritten after failed load: %q", got)
	}

	if err := os.WriteFile(s.Path(), []byte("<DocumentElement></DocumentElement>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Load(); err != nil {
		t.Fatalf("Load() after repair error = %v", err)
	}
	if err := s.Save(); err != nil {
		t.Errorf("Save() after successful reload error = %v", err)
	}
}

func TestStore_SaveRemovesTempFileWhenRenameFails(t *testing.T) {
	s := newTestStore(t)
	// A non-empty directory at the target path makes the rename fail.
	if err := os.MkdirAll(filepath.Join(s.Path(), "occupied"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := s.Save(); err == nil {
		t.Fatal("Save() succeeded onto a directory")
	}
	if _, err := os.Stat(s.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestStore_LoadReplacesTable(t *testing.T) {
	s := newTestStore(t)
	s.Upsert(Row{PanelName: "Saved"})
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}

	s.Upsert(Row{PanelName: "Unsaved"})
	if err := s.Load(); err != nil {
		t.Fatal(err)
	}

	if _, ok := s.Find("Unsaved"); ok {
		t.Error("unsaved row survived Load()")
	}
	if _, ok := s.Find("Saved"); !ok {
		t.Error("saved row missing after Load()")
	}
}

func TestStore_SaveCreatesDirectoryAndOverwrites(t *testing.T) {
	s := newTestStore(t)
	s.Upsert(Row{PanelName: "First"})
	if err := s.Save(); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}

	s.Delete("First")
	s.Upsert(Row{PanelName: "Second"})
	if err := s.Save(); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
	// Repeated saves are harmless.
	if err := s.Save(); err != nil {
		t.Fatalf("third Save() error = %v", err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if strings.Contains(content, "First") {
		t.Error("deleted row still present in document")
	}
	if !strings.Contains(content, "<PanelName>Second</PanelName>") {
		t.Errorf("document missing Second row:\n%s", content)
	}
	if _, err := os.Stat(s.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
}

func TestStore_RowStates(t *testing.T) {
	s := newTestStore(t)

	s.Upsert(Row{PanelName: "A"})
	if st, _ := s.State("A"); st != RowAdded {
		t.Errorf("state after insert = %v, want Added", st)
	}
	s.Upsert(Row{PanelName: "A", Left: 1})
	if st, _ := s.State("A"); st != RowAdded {
		t.Errorf("state after update of added row = %v, want Added", st)
	}

	s.AcceptChanges()
	if s.HasChanges() {
		t.Error("HasChanges() = true after AcceptChanges")
	}

	s.Upsert(Row{PanelName: "A", Left: 2})
	if st, _ := s.State("A"); st != RowModified {
		t.Errorf("state after update = %v, want Modified", st)
	}

	if !s.Delete("A") {
		t.Fatal("Delete() = false")
	}
	if st, _ := s.State("A"); st != RowDeleted {
		t.Errorf("state after delete = %v, want Deleted", st)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if s.Delete("A") {
		t.Error("second Delete() = true")
	}

	s.AcceptChanges()
	if _, ok := s.State("A"); ok {
		t.Error("deleted row survived AcceptChanges")
	}
}

func TestStore_DeleteAddedRowDropsImmediately(t *testing.T) {
	s := newTestStore(t)
	s.Upsert(Row{PanelName: "Temp"})

	s.Delete("Temp")

	if _, ok := s.State("Temp"); ok {
		t.Error("added-then-deleted row still tracked")
	}
}

func TestStore_TypedValues(t *testing.T) {
	s := newTestStore(t)

	if !s.OverlayVisible() {
		t.Error("OverlayVisible() default = false, want true")
	}
	if !s.LastUpdate().IsZero() {
		t.Error("LastUpdate() default is not zero")
	}

	s.Set("Broken", "not-a-bool")
	if got := s.Bool("Broken", true); !got {
		t.Error("Bool() with invalid value did not return default")
	}
	s.Set(KeyLastUpdate, "yesterday")
	if !s.LastUpdate().IsZero() {
		t.Error("LastUpdate() with invalid value is not zero")
	}

	s.Set("Name", "one")
	s.Set("Name", "two")
	if got := s.String("Name", ""); got != "two" {
		t.Errorf("String() = %q, want two", got)
	}
	if len(s.Values()) != 3 {
		t.Errorf("len(Values()) = %d, want 3", len(s.Values()))
	}
}

func TestDefault_Singleton(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("APPDATA", dir)
	t.Setenv("HOME", dir)

	a := Default()
	b := Default()

	if a != b {
		t.Fatal("Default() returned different instances")
	}

	a.Set("Marker", "visible")
	if got, ok := b.Get("Marker"); !ok || got != "visible" {
		t.Errorf("mutation through one reference not visible through the other: %q, %v", got, ok)
	}
}
