package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config models orga.yml.
type Config struct {
	Project struct {
		DefaultPriority string `yaml:"default_priority"`
		DefaultType     string `yaml:"default_type"`
	} `yaml:"project"`
	Storage struct {
		EmbedLimitMB float64 `yaml:"embed_limit_mb"`
		WorkspaceDir string  `yaml:"workspace_dir"`
	} `yaml:"storage"`
	Tasks struct {
		DefaultPoints float64 `yaml:"default_points"`
	} `yaml:"tasks"`
}

var validPriorities = map[string]bool{"LOW": true, "MED": true, "HIGH": true}
var validTypes = map[string]bool{"CODE": true, "TENDER": true}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if !validPriorities[c.Project.DefaultPriority] {
		return fmt.Errorf("config.project.default_priority must be LOW, MED or HIGH")
	}
	if !validTypes[c.Project.DefaultType] {
		return fmt.Errorf("config.project.default_type must be CODE or TENDER")
	}
	if c.Storage.EmbedLimitMB <= 0 {
		return fmt.Errorf("config.storage.embed_limit_mb must be positive")
	}
	if c.Tasks.DefaultPoints <= 0 {
		return fmt.Errorf("config.tasks.default_points must be positive")
	}
	return nil
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "orga.yml")
}

// LoadOptional returns nil,nil if the config file does not exist, falling
// back to defaults at the call site.
func LoadOptional(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Default returns the default Config struct.
func Default() *Config {
	var cfg Config
	cfg.Project.DefaultPriority = "MED"
	cfg.Project.DefaultType = "CODE"
	cfg.Storage.EmbedLimitMB = 20
	cfg.Tasks.DefaultPoints = 1
	return &cfg
}

// FromYAML parses and validates config from raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GenerateDefault returns default config YAML.
func GenerateDefault() string {
	return defaultTemplate
}

const defaultTemplate = `project:
  default_priority: MED
  default_type: CODE

storage:
  # Attachments below this size are embedded in the database; larger files
  # go to the linked workspace directory.
  embed_limit_mb: 20
  workspace_dir: ""

tasks:
  default_points: 1
`
