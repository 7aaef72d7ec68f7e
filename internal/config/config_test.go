package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"launchline/internal/config"
	"launchline/internal/domain"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	for _, lt := range []domain.LaunchType{
		domain.LaunchRestaurant, domain.LaunchRetail, domain.LaunchMedical, domain.LaunchFitness,
	} {
		tpl := cfg.TemplateFor(lt)
		if len(tpl.Permits) == 0 {
			t.Errorf("no template permits for %s", lt)
		}
	}
}

func TestLoadOptionalFallsBackToDefault(t *testing.T) {
	cfg, err := config.LoadOptional(t.TempDir())
	if err != nil {
		t.Fatalf("load optional: %v", err)
	}
	if len(cfg.Templates) == 0 {
		t.Fatal("expected default templates")
	}
}

func TestLoadRejectsBadEnums(t *testing.T) {
	dir := t.TempDir()
	bad := `templates:
  restaurant:
    permits:
      - type: plumbing
        title: Plumbing Permit
        priority: medium
        estimated_processing_days: 5
`
	if err := os.WriteFile(filepath.Join(dir, "launchline.yml"), []byte(bad), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := config.Load(dir); err == nil {
		t.Fatal("expected unknown permit type error")
	}
}

func TestLoadRejectsMissingTitle(t *testing.T) {
	dir := t.TempDir()
	bad := `templates:
  retail:
    permits:
      - type: license
        priority: high
        estimated_processing_days: 5
`
	if err := os.WriteFile(filepath.Join(dir, "launchline.yml"), []byte(bad), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := config.Load(dir); err == nil {
		t.Fatal("expected missing title error")
	}
}

func TestFromFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "launchline.yml")
	if err := os.WriteFile(path, []byte(config.GenerateDefault()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := config.FromFile(path)
	if err != nil {
		t.Fatalf("from file: %v", err)
	}
	tpl := cfg.TemplateFor(domain.LaunchRestaurant)
	if len(tpl.Permits) != 6 {
		t.Fatalf("restaurant template has %d permits, want 6", len(tpl.Permits))
	}
}
