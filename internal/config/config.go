package config

import (
	"bytes"
	"encoding/json"
	"go/token"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/relayed/internal/errors"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "relayed.json"

	// YAMLConfigFileName is the name of the YAML configuration file.
	YAMLConfigFileName = "relayed.yaml"

	// DefaultOutput is the default generated file name.
	DefaultOutput = "relayed_gen.go"

	// DefaultPrefix is the default prefix for stream accessors.
	DefaultPrefix = "Tracked"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default log format.
	DefaultLogFormat = "text"

	// DefaultRandomUsers is how many random users the demo adds.
	DefaultRandomUsers = 2
)

// fileNames lists the config files Load looks for, in order.
var fileNames = []string{ConfigFileName, YAMLConfigFileName, "relayed.yml"}

// Config represents the complete relayed configuration.
type Config struct {
	// Gen contains accessor generation settings.
	Gen GenConfig `json:"gen" yaml:"gen"`

	// Log contains logging settings.
	Log LogConfig `json:"log" yaml:"log"`

	// Demo contains settings for the demo command.
	Demo DemoConfig `json:"demo" yaml:"demo"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// GenConfig contains accessor generation settings.
type GenConfig struct {
	// Output is the name of the generated file, written next to the
	// scanned sources.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// Prefix is prepended to the field name for stream accessors.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`

	// Getters enables value getters.
	Getters bool `json:"getters" yaml:"getters"`

	// Setters enables setters for fields not tagged readonly.
	Setters bool `json:"setters" yaml:"setters"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// DemoConfig contains settings for the demo command.
type DemoConfig struct {
	// RandomUsers is how many random users the demo adds.
	RandomUsers int `json:"randomUsers" yaml:"randomUsers"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Gen: GenConfig{
			Output:  DefaultOutput,
			Prefix:  DefaultPrefix,
			Getters: true,
			Setters: true,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Demo: DemoConfig{
			RandomUsers: DefaultRandomUsers,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for relayed.json, then relayed.yaml, then relayed.yml.
func Load(dir string) (*Config, error) {
	for _, name := range fileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("R001").
		WithDetail("No relayed.json or relayed.yaml found in " + dir).
		WithSuggestion("Run 'relayed gen' without a config to use the defaults, or create relayed.json")
}

// LoadFile reads configuration from the specified file path. The format
// is chosen by extension: .yaml and .yml are YAML, anything else JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("R001").
				WithDetail("No config file at " + path)
		}
		return nil, errors.New("R002").Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(cfg); err == io.EOF {
			err = nil
		}
	} else {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(cfg)
	}
	if err != nil {
		return nil, errors.New("R002").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that " + filepath.Base(path) + " is well formed")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// SaveTo writes the configuration to the specified path, as YAML when the
// extension says so and as indented JSON otherwise.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("R004").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("R004").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Gen.Output == "" {
		c.Gen.Output = DefaultOutput
	}
	if c.Gen.Prefix == "" {
		c.Gen.Prefix = DefaultPrefix
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !strings.HasSuffix(c.Gen.Output, ".go") || strings.HasSuffix(c.Gen.Output, "_test.go") {
		return errors.New("R003").
			WithDetail("gen.output must name a non-test .go file, got " + quote(c.Gen.Output))
	}
	if filepath.Base(c.Gen.Output) != c.Gen.Output {
		return errors.New("R003").
			WithDetail("gen.output must be a file name, not a path: " + quote(c.Gen.Output)).
			WithSuggestion("The generated file is always written next to the scanned sources")
	}
	if !token.IsIdentifier(c.Gen.Prefix) || !token.IsExported(c.Gen.Prefix) {
		return errors.New("R003").
			WithDetail("gen.prefix must be an exported identifier, got " + quote(c.Gen.Prefix))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := ParseFormat(c.Log.Format); err != nil {
		return err
	}
	if c.Demo.RandomUsers < 0 {
		return errors.New("R003").
			WithDetail("demo.randomUsers must not be negative")
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, errors.New("R020").
		WithDetail("Unknown log level " + quote(name)).
		WithSuggestion("Use one of debug, info, warn, error")
}

// ParseFormat normalizes a log format name.
func ParseFormat(name string) (string, error) {
	switch f := strings.ToLower(name); f {
	case "text", "json":
		return f, nil
	case "":
		return DefaultLogFormat, nil
	}
	return "", errors.New("R021").
		WithDetail("Unknown log format " + quote(name)).
		WithSuggestion("Use text or json")
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range fileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing a config file, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("R001").
				WithDetail("No relayed.json or relayed.yaml found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory
// or the nearest parent that has a config file.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func quote(s string) string {
	return `"` + s + `"`
}
