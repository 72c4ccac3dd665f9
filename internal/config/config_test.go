package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"orga/internal/config"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Project.DefaultPriority != "MED" || cfg.Project.DefaultType != "CODE" {
		t.Fatalf("project defaults = %s/%s", cfg.Project.DefaultPriority, cfg.Project.DefaultType)
	}
	if cfg.Storage.EmbedLimitMB != 20 || cfg.Tasks.DefaultPoints != 1 {
		t.Fatalf("storage/tasks defaults = %g/%g", cfg.Storage.EmbedLimitMB, cfg.Tasks.DefaultPoints)
	}
}

func TestFromYAMLOverlaysDefaults(t *testing.T) {
	cfg, err := config.FromYAML([]byte("project:\n  default_priority: HIGH\nstorage:\n  embed_limit_mb: 5\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Project.DefaultPriority != "HIGH" || cfg.Storage.EmbedLimitMB != 5 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	// Untouched sections keep their defaults.
	if cfg.Project.DefaultType != "CODE" || cfg.Tasks.DefaultPoints != 1 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		yaml string
		want string
	}{
		{"project:\n  default_priority: URGENT\n", "default_priority"},
		{"project:\n  default_type: DESIGN\n", "default_type"},
		{"storage:\n  embed_limit_mb: -1\n", "embed_limit_mb"},
		{"tasks:\n  default_points: 0\n", "default_points"},
		{"project: [not, a, map]\n", "invalid config yaml"},
	}
	for _, c := range cases {
		_, err := config.FromYAML([]byte(c.yaml))
		if err == nil || !strings.Contains(err.Error(), c.want) {
			t.Fatalf("FromYAML(%q) error = %v, want mention of %q", c.yaml, err, c.want)
		}
	}
}

func TestPath(t *testing.T) {
	if got := config.Path("/tmp/ws"); got != filepath.Join("/tmp/ws", "orga.yml") {
		t.Fatalf("Path = %q", got)
	}
	if got := config.Path(""); got != "orga.yml" {
		t.Fatalf("empty workspace Path = %q", got)
	}
}

func TestLoadOptionalMissingFile(t *testing.T) {
	cfg, err := config.LoadOptional(t.TempDir())
	if err != nil || cfg != nil {
		t.Fatalf("LoadOptional on empty dir = %+v, %v", cfg, err)
	}
}

func TestGenerateDefaultRoundTrips(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(config.Path(dir), []byte(config.GenerateDefault()), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.LoadOptional(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg == nil || *cfg != *config.Default() {
		t.Fatalf("generated template differs from defaults: %+v", cfg)
	}
}
