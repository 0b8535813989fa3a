// Package config loads optional tool configuration for the statgate CLI.
// Everything here has a working default; a config file only overrides the
// conventional discovery layout, suite location, and output preferences.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/statgate/statgate/internal/expect"
	"github.com/statgate/statgate/internal/report"
)

// DefaultInitTolerance is the percentage written for every metric when
// bootstrapping a suite from an observed report.
const DefaultInitTolerance = 5

// Config is the tool configuration. The zero value is not usable; start
// from DefaultConfig.
type Config struct {
	Discovery DiscoveryConfig `json:"discovery" mapstructure:"discovery" yaml:"discovery"`
	Suite     SuiteConfig     `json:"suite" mapstructure:"suite" yaml:"suite"`
	Output    OutputConfig    `json:"output" mapstructure:"output" yaml:"output"`
	Init      InitConfig      `json:"init" mapstructure:"init" yaml:"init"`
}

// DiscoveryConfig overrides the report discovery layout.
type DiscoveryConfig struct {
	// BuildDir is the directory scanned for the source-jar directory.
	BuildDir string `json:"build_dir" mapstructure:"build_dir" yaml:"build_dir"`

	// DirSuffix is the suffix of the native-image source-jar directory.
	DirSuffix string `json:"dir_suffix" mapstructure:"dir_suffix" yaml:"dir_suffix"`

	// ReportSuffix is the suffix of the build-output stats file.
	ReportSuffix string `json:"report_suffix" mapstructure:"report_suffix" yaml:"report_suffix"`
}

// SuiteConfig sets where expectation suites are resolved.
type SuiteConfig struct {
	// Dir is the directory suite names resolve against. Empty means the
	// working directory.
	Dir string `json:"dir" mapstructure:"dir" yaml:"dir"`

	// Name is the default suite resource name.
	Name string `json:"name" mapstructure:"name" yaml:"name"`
}

// OutputConfig sets CLI output preferences.
type OutputConfig struct {
	// Format is the default output format: text or json.
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// Verbose enables debug logging by default.
	Verbose bool `json:"verbose" mapstructure:"verbose" yaml:"verbose"`
}

// InitConfig tunes suite bootstrapping.
type InitConfig struct {
	// Tolerance is the percentage written for each bootstrapped metric.
	Tolerance int64 `json:"tolerance" mapstructure:"tolerance" yaml:"tolerance"`
}

// DefaultConfig returns the configuration matching the conventional layout
// exactly, so running with no config file behaves identically to the
// library defaults.
func DefaultConfig() *Config {
	conv := report.DefaultConventions()
	return &Config{
		Discovery: DiscoveryConfig{
			BuildDir:     conv.BuildDir,
			DirSuffix:    conv.DirSuffix,
			ReportSuffix: conv.ReportSuffix,
		},
		Suite: SuiteConfig{
			Name: expect.DefaultResource,
		},
		Output: OutputConfig{
			Format: "text",
		},
		Init: InitConfig{
			Tolerance: DefaultInitTolerance,
		},
	}
}

// Conventions converts the discovery section to the locator's form.
func (c *Config) Conventions() report.Conventions {
	return report.Conventions{
		BuildDir:     c.Discovery.BuildDir,
		DirSuffix:    c.Discovery.DirSuffix,
		ReportSuffix: c.Discovery.ReportSuffix,
	}
}

// Validate checks the configuration for values no command could act on.
func (c *Config) Validate() error {
	if c.Discovery.BuildDir == "" {
		return fmt.Errorf("discovery.build_dir must not be empty")
	}
	if c.Discovery.DirSuffix == "" {
		return fmt.Errorf("discovery.dir_suffix must not be empty")
	}
	if c.Discovery.ReportSuffix == "" {
		return fmt.Errorf("discovery.report_suffix must not be empty")
	}
	if c.Suite.Name == "" {
		return fmt.Errorf("suite.name must not be empty")
	}
	if c.Output.Format != "text" && c.Output.Format != "json" {
		return fmt.Errorf("invalid output.format %q, must be text or json", c.Output.Format)
	}
	if c.Init.Tolerance < 0 {
		return fmt.Errorf("init.tolerance must be >= 0, got %d", c.Init.Tolerance)
	}
	return nil
}

// LoadConfig loads the configuration at configPath, or the defaults when
// configPath is empty.
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration for a run against targetPath.
// When configPath is empty, config files are discovered from targetPath
// upward; absence of any config file is not an error.
func LoadConfigWithTarget(configPath, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	return loadConfigFromFile(configPath)
}

func loadConfigFromFile(configPath string) (*Config, error) {
	cfg := DefaultConfig()
	if configPath == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// findDefaultConfig walks from targetPath (or the working directory) up to
// the filesystem root looking for a conventional config file name.
func findDefaultConfig(targetPath string) string {
	candidates := []string{
		"statgate.yaml",
		"statgate.yml",
		".statgate.yaml",
		".statgate.yml",
	}

	start := targetPath
	if start == "" {
		start = "."
	}
	absPath, err := filepath.Abs(start)
	if err != nil {
		return ""
	}
	if info, err := os.Stat(absPath); err == nil && !info.IsDir() {
		absPath = filepath.Dir(absPath)
	}

	for dir := absPath; ; dir = filepath.Dir(dir) {
		for _, candidate := range candidates {
			path := filepath.Join(dir, candidate)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
		if parent := filepath.Dir(dir); parent == dir {
			return ""
		}
	}
}
