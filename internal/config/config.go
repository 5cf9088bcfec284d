// Package config loads the optional .sldview.yml project configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the working directory.
const FileName = ".sldview.yml"

// MaxFileSize caps the configuration file size.
const MaxFileSize = 1024 * 1024

// ErrConfigTooLarge is returned for configuration files over MaxFileSize.
var ErrConfigTooLarge = errors.New("config file too large")

// Config is the decoded configuration. Zero values are replaced by Default's.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Overrides OverridesConfig `yaml:"overrides"`
	Output    OutputConfig    `yaml:"output"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

// OverridesConfig configures new override documents.
type OverridesConfig struct {
	DefaultMode string `yaml:"defaultMode" validate:"omitempty,oneof=automatic manual hybrid"`
}

// OutputConfig configures JSON output.
type OutputConfig struct {
	Indent *int `yaml:"indent" validate:"omitempty,min=0,max=8"`
}

// Default returns the built-in configuration.
func Default() Config {
	indent := 2
	return Config{
		Log:       LogConfig{Level: "info", Format: "text"},
		Overrides: OverridesConfig{DefaultMode: "hybrid"},
		Output:    OutputConfig{Indent: &indent},
	}
}

var configValidate = validator.New()

// Parse decodes YAML configuration and fills unset fields from Default.
func Parse(data []byte) (Config, error) {
	if len(data) > MaxFileSize {
		return Config{}, fmt.Errorf("%w: %d bytes (max %d)", ErrConfigTooLarge, len(data), MaxFileSize)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := configValidate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return withDefaults(cfg), nil
}

func withDefaults(cfg Config) Config {
	def := Default()
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
	if cfg.Overrides.DefaultMode == "" {
		cfg.Overrides.DefaultMode = def.Overrides.DefaultMode
	}
	if cfg.Output.Indent == nil {
		cfg.Output.Indent = def.Output.Indent
	}
	return cfg
}

// Load reads the configuration at path. When path is empty, FileName in dir
// is used if it exists; a missing file yields Default. The returned string is
// the file actually read, or "" when none was.
func Load(path, dir string) (Config, string, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, FileName)
	}

	info, err := os.Stat(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), "", nil
		}
		return Config{}, "", fmt.Errorf("reading config %s: %w", path, err)
	}
	if info.Size() > MaxFileSize {
		return Config{}, "", fmt.Errorf("%w: %s", ErrConfigTooLarge, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, "", fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, "", fmt.Errorf("%s: %w", path, err)
	}
	return cfg, path, nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
