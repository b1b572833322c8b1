package store

import (
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/pattern"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/weaving"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createPattern(t *testing.T, s *Store, name string, typ pattern.Type, tags ...string) *pattern.Pattern {
	t.Helper()
	p := pattern.New(name, typ, 4, 3, 4)
	p.Tags = tags
	if err := s.Create(p, ""); err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	return p
}

// --- Schema tests ---

func TestOpenSetsSchemaVersion(t *testing.T) {
	s := newTestStore(t)
	if v := s.SchemaVersion(); v != SchemaVersion {
		t.Errorf("schema version = %d, want %d", v, SchemaVersion)
	}
}

func TestOpenInMemory(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.Ping(); err != nil {
		t.Fatal(err)
	}
}

func TestMigrateFromVersionOne(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")

	// Build a version-1 library by hand: no tags table, no source_path.
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	_, err = conn.Exec(`
		CREATE TABLE patterns (
			id TEXT PRIMARY KEY, name TEXT NOT NULL, description TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL, holes INTEGER NOT NULL, tablets INTEGER NOT NULL, row_count INTEGER NOT NULL,
			body TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP);
		CREATE TABLE schema_info (key TEXT PRIMARY KEY, value TEXT NOT NULL);
		INSERT INTO schema_info VALUES ('version', '1');
		INSERT INTO patterns (id, name, type, holes, tablets, row_count, body)
		VALUES ('old-1', 'Legacy band', 'allTogether', 4, 1, 1,
		        '{"palette":["#000000"],"threading":[[0],[0],[0],[0]],"orientations":["S"],"allTogether":["F"]}');`)
	if err != nil {
		t.Fatalf("seed v1 db: %v", err)
	}
	conn.Close()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open v1 db: %v", err)
	}
	defer s.Close()

	if v := s.SchemaVersion(); v != SchemaVersion {
		t.Errorf("schema version = %d after migration", v)
	}
	exists, err := s.columnExists("patterns", "source_path")
	if err != nil || !exists {
		t.Fatalf("source_path not added: %v", err)
	}
	p, err := s.Get("old-1")
	if err != nil {
		t.Fatalf("get legacy pattern: %v", err)
	}
	if err := p.Validate(3); err != nil {
		t.Errorf("legacy pattern invalid: %v", err)
	}
}

// --- Pattern tests ---

func TestCreateAndGet(t *testing.T) {
	s := newTestStore(t)
	p := pattern.New("Diamonds", pattern.TypeIndividual, 4, 3, 4)
	p.Description = "Four tablets, three rows."
	p.Tags = []string{" Sampler ", "band", "sampler"}
	p.Picks[2][3] = pattern.Step{Direction: weaving.Backward, NumberOfTurns: 2}

	if err := s.Create(p, "/tmp/diamonds.yaml"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" || p.CreatedAt.IsZero() {
		t.Fatal("create should assign ID and timestamps")
	}

	got, err := s.Get(p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff(p, got, cmpopts.IgnoreFields(pattern.Pattern{}, "CreatedAt", "UpdatedAt")); diff != "" {
		t.Errorf("stored pattern mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"band", "sampler"}, got.Tags); diff != "" {
		t.Errorf("tags not normalized (-want +got):\n%s", diff)
	}
}

func TestGetNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	s := newTestStore(t)
	a := createPattern(t, s, "Ram's horns", pattern.TypeIndividual)
	createPattern(t, s, "Twin", pattern.TypeIndividual)
	createPattern(t, s, "twin", pattern.TypeAllTogether)

	if got, err := s.Resolve(a.ID); err != nil || got.ID != a.ID {
		t.Errorf("resolve by id: %v", err)
	}
	if got, err := s.Resolve(a.ID[:6]); err != nil || got.ID != a.ID {
		t.Errorf("resolve by prefix: %v", err)
	}
	if got, err := s.Resolve("RAM'S HORNS"); err != nil || got.ID != a.ID {
		t.Errorf("resolve by name: %v", err)
	}
	if _, err := s.Resolve("TWIN"); !errors.Is(err, ErrAmbiguous) {
		t.Errorf("expected ErrAmbiguous, got %v", err)
	}
	if _, err := s.Resolve("nothing like it"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Resolve("  "); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for blank ref, got %v", err)
	}
}

func TestResolveTreatsWildcardsLiterally(t *testing.T) {
	s := newTestStore(t)
	createPattern(t, s, "One", pattern.TypeIndividual)
	createPattern(t, s, "Two", pattern.TypeIndividual)

	for _, ref := range []string{"______", "%%%%%%", "%"} {
		if _, err := s.Resolve(ref); !errors.Is(err, ErrNotFound) {
			t.Errorf("Resolve(%q) = %v, want ErrNotFound", ref, err)
		}
	}
}

func TestGetFillsDoubleFacedOrientations(t *testing.T) {
	s := newTestStore(t)
	p := pattern.New("Double", pattern.TypeDoubleFaced, 3, 2, 4)
	p.Orientations = nil
	if err := s.Create(p, ""); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := []weaving.Orientation{weaving.OrientationS, weaving.OrientationZ, weaving.OrientationS}
	if diff := cmp.Diff(want, got.Orientations); diff != "" {
		t.Errorf("orientations (-want +got):\n%s", diff)
	}
}

func TestListFilters(t *testing.T) {
	s := newTestStore(t)
	createPattern(t, s, "Alpha band", pattern.TypeIndividual, "belt")
	createPattern(t, s, "Beta band", pattern.TypeAllTogether, "strap")
	createPattern(t, s, "Gamma", pattern.TypeDoubleFaced, "belt", "strap")

	tests := []struct {
		name   string
		filter ListFilter
		want   []string
	}{
		{"all", ListFilter{}, []string{"Alpha band", "Beta band", "Gamma"}},
		{"by type", ListFilter{Type: pattern.TypeAllTogether}, []string{"Beta band"}},
		{"by tag", ListFilter{Tag: "BELT"}, []string{"Alpha band", "Gamma"}},
		{"by search", ListFilter{Search: "BAND"}, []string{"Alpha band", "Beta band"}},
		{"tag and type", ListFilter{Tag: "strap", Type: pattern.TypeDoubleFaced}, []string{"Gamma"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := s.List(tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			var names []string
			for _, e := range entries {
				names = append(names, e.Name)
			}
			if diff := cmp.Diff(tt.want, names, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
				t.Errorf("names mismatch (-want +got):\n%s", diff)
			}
		})
	}

	limited, err := s.List(ListFilter{Limit: 2})
	if err != nil || len(limited) != 2 {
		t.Errorf("limit: got %d entries, err %v", len(limited), err)
	}
}

func TestUpdate(t *testing.T) {
	s := newTestStore(t)
	p := createPattern(t, s, "Before", pattern.TypeIndividual, "old")

	if err := p.AddTablet(4); err != nil {
		t.Fatal(err)
	}
	p.Name = "After"
	p.Tags = []string{"new"}
	if err := s.Update(p); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.Get(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "After" || got.Tablets != 5 || len(got.Picks[0]) != 5 {
		t.Errorf("update not stored: %+v", got)
	}
	if diff := cmp.Diff([]string{"new"}, got.Tags); diff != "" {
		t.Errorf("tags (-want +got):\n%s", diff)
	}

	missing := pattern.New("Ghost", pattern.TypeIndividual, 1, 1, 4)
	missing.ID = "nope"
	if err := s.Update(missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	p := createPattern(t, s, "Doomed", pattern.TypeIndividual, "x")

	if err := s.Delete(p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(p.ID); !errors.Is(err, ErrNotFound) {
		t.Error("pattern still present after delete")
	}
	if err := s.Delete(p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete should be ErrNotFound, got %v", err)
	}
	if n, _ := s.Count(); n != 0 {
		t.Errorf("count = %d", n)
	}
}

func TestAllAndNames(t *testing.T) {
	s := newTestStore(t)
	createPattern(t, s, "Zig", pattern.TypeIndividual)
	createPattern(t, s, "Alpha", pattern.TypeAllTogether)

	all, err := s.All()
	if err != nil || len(all) != 2 {
		t.Fatalf("all: %d, %v", len(all), err)
	}
	names, err := s.Names()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(names, ",") != "Alpha,Zig" {
		t.Errorf("names = %v", names)
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{"B", " a ", "", "b"})
	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestShortID(t *testing.T) {
	if ShortID("0123456789abcdef") != "01234567" || ShortID("abc") != "abc" {
		t.Error("ShortID wrong")
	}
}
