package driver

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.Optimize {
		t.Fatalf("expected optimize on by default")
	}
	if cfg.TraceLevel != "warn" {
		t.Fatalf("got trace level %q, want warn", cfg.TraceLevel)
	}
	if cfg.SearchPath != "." {
		t.Fatalf("got search path %q, want .", cfg.SearchPath)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "please.yaml")
	content := "optimize: false\ntrace_level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Optimize {
		t.Fatalf("expected optimize to be overridden to false")
	}
	if cfg.TraceLevel != "debug" {
		t.Fatalf("got trace level %q, want debug", cfg.TraceLevel)
	}
	if cfg.SearchPath != "." {
		t.Fatalf("got search path %q, want the default . (not overridden)", cfg.SearchPath)
	}
}

func TestLoadConfigRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "please.yaml")
	if err := os.WriteFile(path, []byte("bogus_field: 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected an error for an unknown config field")
	}
}

func TestFindConfigFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg := FindConfig(dir)
	if cfg != DefaultConfig() {
		t.Fatalf("got %+v, want DefaultConfig()", cfg)
	}
}

func TestFindConfigPrefersYamlThenYml(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "please.yml"), []byte("trace_level: info\n"), 0o644); err != nil {
		t.Fatalf("write please.yml: %v", err)
	}
	cfg := FindConfig(dir)
	if cfg.TraceLevel != "info" {
		t.Fatalf("got %q, want info from please.yml", cfg.TraceLevel)
	}
	if err := os.WriteFile(filepath.Join(dir, "please.yaml"), []byte("trace_level: debug\n"), 0o644); err != nil {
		t.Fatalf("write please.yaml: %v", err)
	}
	cfg = FindConfig(dir)
	if cfg.TraceLevel != "debug" {
		t.Fatalf("got %q, want debug from please.yaml over please.yml", cfg.TraceLevel)
	}
}
