package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points HOME and TT_CONFIG at a temp dir and clears env overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("TT_CONFIG", filepath.Join(dir, "config.toml"))
	// viper ignores empty env values
	for _, k := range Keys {
		t.Setenv(EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(k, ".", "_")), "")
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Weaving.MaxTurns != DefaultMaxTurns || c.Weaving.TwistWarning != DefaultTwistWarning {
		t.Errorf("weaving defaults = %+v", c.Weaving)
	}
	want := filepath.Join(dir, ".local", "share", "tt", "library.db")
	if c.Library.Path != want {
		t.Errorf("library path = %q, want %q", c.Library.Path, want)
	}
	if c.Log.Level != "warn" || c.Log.Format != "text" || c.UI.Color != "auto" {
		t.Errorf("unexpected defaults: %+v", c)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := isolate(t)
	body := "[weaving]\nmax_turns = 4\n\n[log]\nlevel = \"debug\"\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TT_LIBRARY_PATH", "/tmp/elsewhere.db")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Weaving.MaxTurns != 4 {
		t.Errorf("max_turns = %d, want 4 from file", c.Weaving.MaxTurns)
	}
	if c.Log.Level != "debug" {
		t.Errorf("log.level = %q, want debug", c.Log.Level)
	}
	if c.Library.Path != "/tmp/elsewhere.db" {
		t.Errorf("library.path = %q, want env override", c.Library.Path)
	}
	if c.Weaving.TwistWarning != DefaultTwistWarning {
		t.Errorf("twist_warning should keep its default, got %d", c.Weaving.TwistWarning)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	dir := isolate(t)
	body := "[ui]\ncolor = \"sometimes\"\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("expected error for ui.color = sometimes")
	}
}

func TestSetPersists(t *testing.T) {
	isolate(t)

	if err := Set("weaving.twist_warning", "12"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := Set("log.format", "json"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.Weaving.TwistWarning != 12 {
		t.Errorf("twist_warning = %d, want 12", c.Weaving.TwistWarning)
	}
	if c.Log.Format != "json" {
		t.Errorf("log.format = %q, want json", c.Log.Format)
	}
}

func TestSetRejects(t *testing.T) {
	isolate(t)

	tests := []struct {
		key, value string
	}{
		{"nope.key", "x"},
		{"weaving.max_turns", "three"},
		{"weaving.max_turns", "0"},
		{"log.format", "xml"},
	}
	for _, tt := range tests {
		if err := Set(tt.key, tt.value); err == nil {
			t.Errorf("Set(%q, %q) should fail", tt.key, tt.value)
		}
	}
	if _, err := os.Stat(Path()); !os.IsNotExist(err) {
		t.Error("rejected Set should not create the config file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	isolate(t)

	c := Default()
	c.Library.Path = "/data/bands.db"
	c.UI.Color = "never"
	if err := Save(c); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if got != c {
		t.Errorf("round trip: got %+v, want %+v", got, c)
	}
}
