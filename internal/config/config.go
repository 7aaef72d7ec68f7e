package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"launchline/internal/domain"
)

// Config models launchline.yml: the permit template each launch type is
// seeded with when a launch is created.
type Config struct {
	Templates map[string]LaunchTemplate `yaml:"templates" json:"templates"`
}

// LaunchTemplate is the default permit set for one launch type.
type LaunchTemplate struct {
	Permits []PermitTemplate `yaml:"permits" json:"permits"`
}

// PermitTemplate seeds one permit at launch creation, always at not_started.
type PermitTemplate struct {
	Type                    string `yaml:"type" json:"type"`
	Title                   string `yaml:"title" json:"title"`
	Description             string `yaml:"description,omitempty" json:"description,omitempty"`
	Agency                  string `yaml:"agency,omitempty" json:"agency,omitempty"`
	Priority                string `yaml:"priority" json:"priority"`
	EstimatedProcessingDays int    `yaml:"estimated_processing_days" json:"estimated_processing_days"`
}

// Load reads and validates config from the workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns the workspace config, or the default when no
// launchline.yml exists.
func LoadOptional(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures template keys and permit entries stay within the closed
// enum sets, so a bad template cannot seed malformed permits.
func (c *Config) Validate() error {
	if c.Templates == nil {
		return fmt.Errorf("config.templates is required")
	}
	for launchType, tpl := range c.Templates {
		if !domain.LaunchType(launchType).Valid() {
			return fmt.Errorf("template %s: unknown launch type", launchType)
		}
		for i, p := range tpl.Permits {
			if !domain.PermitType(p.Type).Valid() {
				return fmt.Errorf("template %s permit %d: unknown permit type %q", launchType, i, p.Type)
			}
			if p.Title == "" {
				return fmt.Errorf("template %s permit %d: title is required", launchType, i)
			}
			if !domain.PermitPriority(p.Priority).Valid() {
				return fmt.Errorf("template %s permit %d: unknown priority %q", launchType, i, p.Priority)
			}
			if p.EstimatedProcessingDays < 0 {
				return fmt.Errorf("template %s permit %d: negative estimated_processing_days", launchType, i)
			}
		}
	}
	return nil
}

// TemplateFor returns the permit template for a launch type, empty when the
// config defines none.
func (c *Config) TemplateFor(t domain.LaunchType) LaunchTemplate {
	if c == nil || c.Templates == nil {
		return LaunchTemplate{}
	}
	return c.Templates[string(t)]
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "launchline.yml")
}

// GenerateDefault returns the default config YAML.
func GenerateDefault() string {
	return defaultTemplate
}

// Default returns the parsed default config.
func Default() *Config {
	var cfg Config
	_ = yaml.Unmarshal([]byte(defaultTemplate), &cfg)
	return &cfg
}

// FromYAML parses and validates config from raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

const defaultTemplate = `templates:
  restaurant:
    permits:
      - type: health
        title: Health Department Permit
        description: Food service health inspection and certification
        agency: County Health Department
        priority: critical
        estimated_processing_days: 14
      - type: fire
        title: Fire Safety Inspection
        description: Fire suppression system and emergency exit compliance
        agency: City Fire Department
        priority: critical
        estimated_processing_days: 10
      - type: license
        title: Business Operating License
        agency: City Clerk Office
        priority: high
        estimated_processing_days: 21
      - type: ada
        title: ADA Compliance Certification
        agency: Building & Safety Dept
        priority: high
        estimated_processing_days: 15
      - type: building
        title: Building Occupancy Permit
        agency: Building & Safety Dept
        priority: critical
        estimated_processing_days: 20
      - type: zoning
        title: Zoning Clearance
        agency: Planning Department
        priority: medium
        estimated_processing_days: 12

  retail:
    permits:
      - type: license
        title: Business Operating License
        agency: City Clerk Office
        priority: critical
        estimated_processing_days: 21
      - type: fire
        title: Fire Safety Inspection
        agency: City Fire Department
        priority: high
        estimated_processing_days: 10
      - type: ada
        title: ADA Compliance Certification
        agency: Building & Safety Dept
        priority: high
        estimated_processing_days: 15
      - type: building
        title: Building Occupancy Permit
        agency: Building & Safety Dept
        priority: critical
        estimated_processing_days: 20

  medical:
    permits:
      - type: health
        title: Medical Facility Health Permit
        agency: State Health Department
        priority: critical
        estimated_processing_days: 30
      - type: license
        title: Facility Operating License
        agency: State Licensing Board
        priority: critical
        estimated_processing_days: 45
      - type: fire
        title: Fire Safety Inspection
        agency: City Fire Department
        priority: critical
        estimated_processing_days: 10
      - type: ada
        title: ADA Compliance Certification
        agency: Building & Safety Dept
        priority: critical
        estimated_processing_days: 15
      - type: building
        title: Building Occupancy Permit
        agency: Building & Safety Dept
        priority: high
        estimated_processing_days: 20

  fitness:
    permits:
      - type: license
        title: Business Operating License
        agency: City Clerk Office
        priority: critical
        estimated_processing_days: 21
      - type: health
        title: Health & Sanitation Permit
        agency: County Health Department
        priority: high
        estimated_processing_days: 14
      - type: fire
        title: Fire Safety Inspection
        agency: City Fire Department
        priority: high
        estimated_processing_days: 10
      - type: ada
        title: ADA Compliance Certification
        agency: Building & Safety Dept
        priority: high
        estimated_processing_days: 15
      - type: building
        title: Building Occupancy Permit
        agency: Building & Safety Dept
        priority: medium
        estimated_processing_days: 20
`
