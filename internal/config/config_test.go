package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Storage.Driver != "memory" {
		t.Fatalf("driver = %q", cfg.Storage.Driver)
	}
	if cfg.Alarm.ResponseTimeout != 180*time.Second || cfg.Alarm.RetryDelay != 300*time.Second {
		t.Fatalf("alarm = %+v", cfg.Alarm)
	}
	if cfg.History.LocalCap != 500 {
		t.Fatalf("local_cap = %d", cfg.History.LocalCap)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("MEDITRACK_STORAGE_DRIVER", "sqlite")
	t.Setenv("MEDITRACK_STORAGE_PATH", "/tmp/meditrack.db")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Driver != "sqlite" || cfg.Storage.Path != "/tmp/meditrack.db" {
		t.Fatalf("storage = %+v", cfg.Storage)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meditrack.yaml")
	yaml := []byte(`
server:
  addr: ":9090"
alarm:
  response_timeout: 60s
sheets:
  spreadsheet_id: sheet-1
  api_key: key-1
`)
	if err := os.WriteFile(path, yaml, 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Alarm.ResponseTimeout != 60*time.Second {
		t.Fatalf("response_timeout = %v", cfg.Alarm.ResponseTimeout)
	}
	if cfg.Sheets.SpreadsheetID != "sheet-1" || cfg.Sheets.APIKey != "key-1" {
		t.Fatalf("sheets = %+v", cfg.Sheets)
	}
	// Lo no seteado en el archivo conserva el default.
	if cfg.Alarm.RetryDelay != 300*time.Second {
		t.Fatalf("retry_delay = %v", cfg.Alarm.RetryDelay)
	}
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	if _, err := Load("/nonexistent/meditrack.yaml"); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}
