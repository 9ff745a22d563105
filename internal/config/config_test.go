package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_CreatesDefaultFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "share"))
	path := filepath.Join(dir, "conf", "tracker_tui.yml")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to be written: %v", err)
	}
	wantData := filepath.Join(dir, "share", "tracker_tui")
	if c.DataDir != wantData {
		t.Fatalf("DataDir = %q, want %q", c.DataDir, wantData)
	}
	if c.DBPath != filepath.Join(wantData, "tracker.db") {
		t.Fatalf("DBPath = %q", c.DBPath)
	}
	if c.DefaultView != "month" || c.RecentEntries != 5 {
		t.Fatalf("unexpected defaults %+v", c)
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tracker_tui.yml")
	content := "data_dir: " + dir + "\ndb_file: /tmp/other.db\ndefault_view: week\nrecent_entries: 8\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DBPath != "/tmp/other.db" {
		t.Fatalf("absolute db_file must be kept, got %q", c.DBPath)
	}
	if c.LogPath != filepath.Join(dir, "tracker.log") {
		t.Fatalf("LogPath = %q", c.LogPath)
	}
	if c.DefaultView != "week" || c.RecentEntries != 8 {
		t.Fatalf("unexpected config %+v", c)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TRACKER_DEFAULT_VIEW", "week")
	c, err := Load(filepath.Join(dir, "tracker_tui.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DefaultView != "week" {
		t.Fatalf("DefaultView = %q, want env override", c.DefaultView)
	}
}
