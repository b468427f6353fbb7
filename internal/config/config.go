package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// FileName is the config file looked up next to the executable
	FileName = "starter.yaml"

	// EnvPath overrides the config file location
	EnvPath = "STARTER_CONFIG"

	DefaultMaxHeapMB = 512
	DefaultGC        = "-XX:+UseSerialGC"
	DefaultLogSizeMB = 20
)

// Config holds the tunables of the starter
type Config struct {
	JVM JVM `yaml:"jvm"`
	Log Log `yaml:"log"`
}

// JVM configures the runtime init options
type JVM struct {
	// MaxHeapMB becomes -Xmx<n>m; zero or less omits the option
	MaxHeapMB int `yaml:"maxHeapMB"`

	// GC is a collector selection flag; empty omits it
	GC string `yaml:"gc"`

	// Options are appended after the built-in options
	Options []string `yaml:"options"`
}

// Log configures the output pipeline
type Log struct {
	// MaxSizeMB is the rotation ceiling of app.log
	MaxSizeMB int `yaml:"maxSizeMB"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		JVM: JVM{
			MaxHeapMB: DefaultMaxHeapMB,
			GC:        DefaultGC,
		},
		Log: Log{
			MaxSizeMB: DefaultLogSizeMB,
		},
	}
}

// MaxLogSize returns the rotation ceiling in bytes
func (c *Config) MaxLogSize() int64 {
	if c.Log.MaxSizeMB <= 0 {
		return DefaultLogSizeMB * 1024 * 1024
	}
	return int64(c.Log.MaxSizeMB) * 1024 * 1024
}

// Parse decodes a config document on top of the defaults
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unmarshaling YAML: %w", err)
	}

	return cfg, nil
}

// Load reads the config for the application in appDir. $STARTER_CONFIG
// wins over appDir/starter.yaml; a missing default file yields Default.
func Load(appDir string) (*Config, error) {
	path := os.Getenv(EnvPath)
	explicit := path != ""
	if !explicit {
		path = filepath.Join(appDir, FileName)
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}
