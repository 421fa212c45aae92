package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_ValidYAML_PopulatesAllFields(t *testing.T) {
	// Given
	dir := t.TempDir()
	path := filepath.Join(dir, "valid.yaml")
	// No indentation inside the backtick block to avoid YAML parsing errors
	content := `addr: ":9090"
db_path: "/var/lib/time-atlas/snapshot.db"
cache_ttl: "90s"
billable_policy: "all_billable"
shutdown_timeout: "30s"`
	err := os.WriteFile(path, []byte(content), 0o644)
	if err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// When
	cfg, err := LoadConfig(path)

	// Then
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("expected Addr=:9090, got %s", cfg.Addr)
	}
	if cfg.DBPath != "/var/lib/time-atlas/snapshot.db" {
		t.Errorf("expected DBPath=/var/lib/time-atlas/snapshot.db, got %s", cfg.DBPath)
	}
	if cfg.CacheTTL != 90*time.Second {
		t.Errorf("expected CacheTTL=90s, got %s", cfg.CacheTTL)
	}
	if cfg.BillablePolicy != "all_billable" {
		t.Errorf("expected BillablePolicy=all_billable, got %s", cfg.BillablePolicy)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("expected ShutdownTimeout=30s, got %s", cfg.ShutdownTimeout)
	}
}

func TestLoadConfig_NoFile_UsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("expected default Addr=:8080, got %s", cfg.Addr)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("expected default CacheTTL=5m, got %s", cfg.CacheTTL)
	}
	if cfg.BillablePolicy != "respect_flag" {
		t.Errorf("expected default BillablePolicy=respect_flag, got %s", cfg.BillablePolicy)
	}
}

func TestLoadConfig_UnknownPolicy_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad_policy.yaml")
	err := os.WriteFile(path, []byte(`billable_policy: "sometimes"`), 0o644)
	if err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err = LoadConfig(path)
	if err == nil {
		t.Error("expected error for unknown policy, got nil")
	}
}

func TestLoadConfig_InvalidYAML_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	err := os.WriteFile(path, []byte("addr: :9090: bad"), 0o644)
	if err != nil {
		t.Fatalf("failed to write bad config: %v", err)
	}

	_, err = LoadConfig(path)
	if err == nil {
		t.Error("expected error for invalid YAML, got nil")
	}
}
