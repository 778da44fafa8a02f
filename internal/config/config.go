package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the conventional config file name looked up in the working directory.
const FileName = "cardsort.yaml"

// Environment overrides applied by ApplyEnv.
const (
	EnvCategories = "CARDSORT_CATEGORIES"
	EnvFont       = "CARDSORT_FONT"
)

// Config represents the top-level cardsort.yaml configuration.
type Config struct {
	CategoriesFile string             `yaml:"categories_file,omitempty"`
	Input          InputConfig        `yaml:"input"`
	Installments   InstallmentsConfig `yaml:"installments"`
	Output         OutputConfig       `yaml:"output"`
	Report         ReportConfig       `yaml:"report"`
}

// InputConfig controls statement parsing.
type InputConfig struct {
	Format      string   `yaml:"format"`
	DateFormats []string `yaml:"date_formats"` // Go time layouts, tried in order
}

// InstallmentsConfig controls installment merging.
type InstallmentsConfig struct {
	Merge   bool     `yaml:"merge"`
	Markers []string `yaml:"markers"`
}

// OutputConfig controls which artifacts are written and where.
type OutputConfig struct {
	Dir    string `yaml:"dir,omitempty"` // empty = next to the input
	Suffix string `yaml:"suffix"`
	PDF    bool   `yaml:"pdf"`
	XLSX   bool   `yaml:"xlsx"`
}

// ReportConfig controls report contents.
type ReportConfig struct {
	TopStores int    `yaml:"top_stores"`
	FontPath  string `yaml:"font_path,omitempty"`
	Bucket    string `yaml:"bucket,omitempty"` // "", "day" or "month"; empty = by file count
}

// Load reads a cardsort.yaml file from disk. Relative categories_file and
// output.dir paths are resolved against the config file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	base := filepath.Dir(path)
	for _, p := range []*string{&cfg.CategoriesFile, &cfg.Output.Dir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
	return cfg, nil
}

// LoadOrDefault loads path if it exists and returns Default otherwise. An
// empty path means FileName in the working directory.
func LoadOrDefault(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = FileName
	}
	if _, err := os.Stat(path); err != nil && !explicit && os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Format:      "generic",
			DateFormats: []string{"2006-01-02", "02/01/2006"},
		},
		Installments: InstallmentsConfig{
			Merge:   false,
			Markers: []string{"parcela"},
		},
		Output: OutputConfig{
			Suffix: "_organized",
			PDF:    true,
		},
		Report: ReportConfig{
			TopStores: 15,
		},
	}
}

// ApplyEnv overrides fields from CARDSORT_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvCategories); v != "" {
		c.CategoriesFile = v
	}
	if v := os.Getenv(EnvFont); v != "" {
		c.Report.FontPath = v
	}
}
