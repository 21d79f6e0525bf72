package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for a pipeline run
type Config struct {
	// Target configuration
	Domain   string
	ListFile string

	// Output configuration
	OutputDir string

	// Tool knobs baked into the external invocations
	Wordlist        string // bruteforce wordlist for shuffledns
	Resolvers       string // resolver list for shuffledns
	Threads         int
	RateLimit       int    // requests per second, 0 = tool default
	ScreenshotPorts string // candidate web ports passed to aquatone
	Severity        string // nuclei severity filter

	// Stage toggles
	SkipPortScan    bool
	SkipTech        bool
	SkipScreenshots bool
	SkipWhois       bool
	NoHistory       bool // disable the SQLite scan history

	// Config file path (YAML)
	ConfigFile string

	// Debug shows per-tool timing logs
	Debug bool
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		OutputDir:       "results",
		ScreenshotPorts: "80,443,8080,8443",
		Severity:        "low,medium,high,critical",
	}
}

// File is the on-disk YAML configuration. Every field is optional;
// values set on the command line take precedence.
type File struct {
	OutputDir       string `yaml:"output_dir"`
	Wordlist        string `yaml:"wordlist"`
	Resolvers       string `yaml:"resolvers"`
	Threads         int    `yaml:"threads"`
	RateLimit       int    `yaml:"rate_limit"`
	ScreenshotPorts string `yaml:"screenshot_ports"`
	Severity        string `yaml:"severity"`
}

// LoadFile reads a YAML config file
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &f, nil
}

// Apply copies file values into the config for every flag the user did not
// set explicitly. changed reports whether the named flag was given on the
// command line.
func (f *File) Apply(c *Config, changed func(name string) bool) {
	if f.OutputDir != "" && !changed("output") {
		c.OutputDir = f.OutputDir
	}
	if f.Wordlist != "" && !changed("wordlist") {
		c.Wordlist = f.Wordlist
	}
	if f.Resolvers != "" && !changed("resolvers") {
		c.Resolvers = f.Resolvers
	}
	if f.Threads > 0 && !changed("threads") {
		c.Threads = f.Threads
	}
	if f.RateLimit > 0 && !changed("rate") {
		c.RateLimit = f.RateLimit
	}
	if f.ScreenshotPorts != "" && !changed("ports") {
		c.ScreenshotPorts = f.ScreenshotPorts
	}
	if f.Severity != "" && !changed("severity") {
		c.Severity = f.Severity
	}
}
