package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/relayed/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Gen.Output != DefaultOutput {
		t.Errorf("Gen.Output = %q, want %q", cfg.Gen.Output, DefaultOutput)
	}
	if cfg.Gen.Prefix != DefaultPrefix {
		t.Errorf("Gen.Prefix = %q, want %q", cfg.Gen.Prefix, DefaultPrefix)
	}
	if !cfg.Gen.Getters || !cfg.Gen.Setters {
		t.Error("getters and setters should be on by default")
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
	if cfg.Demo.RandomUsers != DefaultRandomUsers {
		t.Errorf("Demo.RandomUsers = %d, want %d", cfg.Demo.RandomUsers, DefaultRandomUsers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Test loading non-existent config
	_, err := Load(tmpDir)
	if !errors.Is(err, "R001") {
		t.Errorf("Load on empty dir = %v, want R001", err)
	}

	configJSON := `{
  "gen": {
    "output": "accessors_gen.go",
    "prefix": "Observe",
    "setters": false
  },
  "log": {
    "level": "debug"
  }
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Gen.Output != "accessors_gen.go" {
		t.Errorf("Gen.Output = %q", cfg.Gen.Output)
	}
	if cfg.Gen.Prefix != "Observe" {
		t.Errorf("Gen.Prefix = %q", cfg.Gen.Prefix)
	}
	if cfg.Gen.Setters {
		t.Error("Gen.Setters should be false")
	}
	if !cfg.Gen.Getters {
		t.Error("Gen.Getters should keep its default")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log.Format = %q, want default", cfg.Log.Format)
	}
	if cfg.Demo.RandomUsers != DefaultRandomUsers {
		t.Errorf("Demo.RandomUsers = %d, want default", cfg.Demo.RandomUsers)
	}
	if cfg.Path() != filepath.Join(tmpDir, ConfigFileName) {
		t.Errorf("Path() = %q", cfg.Path())
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()

	configYAML := `gen:
  prefix: Live
log:
  level: warn
  format: json
demo:
  randomUsers: 5
`
	if err := os.WriteFile(filepath.Join(tmpDir, YAMLConfigFileName), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Gen.Prefix != "Live" {
		t.Errorf("Gen.Prefix = %q", cfg.Gen.Prefix)
	}
	if cfg.Gen.Output != DefaultOutput {
		t.Errorf("Gen.Output = %q, want default", cfg.Gen.Output)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q", cfg.Log.Format)
	}
	if cfg.Demo.RandomUsers != 5 {
		t.Errorf("Demo.RandomUsers = %d", cfg.Demo.RandomUsers)
	}
}

func TestLoadPrefersJSON(t *testing.T) {
	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(`{"gen":{"prefix":"FromJSON"}}`), 0644)
	os.WriteFile(filepath.Join(tmpDir, YAMLConfigFileName), []byte("gen:\n  prefix: FromYAML\n"), 0644)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Gen.Prefix != "FromJSON" {
		t.Errorf("Gen.Prefix = %q, want FromJSON", cfg.Gen.Prefix)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"malformed json", ConfigFileName, "{ invalid json }"},
		{"unknown json key", ConfigFileName, `{"gen":{"outptu":"x.go"}}`},
		{"malformed yaml", YAMLConfigFileName, "gen: [unclosed"},
		{"unknown yaml key", YAMLConfigFileName, "logging:\n  level: info\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			if err := os.WriteFile(filepath.Join(tmpDir, tt.file), []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(tmpDir)
			if !errors.Is(err, "R002") {
				t.Errorf("Load = %v, want R002", err)
			}
		})
	}
}

func TestLoadEmptyYAML(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, YAMLConfigFileName), nil, 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("empty YAML should load as defaults: %v", err)
	}
	if cfg.Gen.Prefix != DefaultPrefix {
		t.Errorf("Gen.Prefix = %q", cfg.Gen.Prefix)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName} {
		t.Run(name, func(t *testing.T) {
			tmpDir := t.TempDir()
			path := filepath.Join(tmpDir, name)

			cfg := New()
			cfg.Gen.Prefix = "Watch"
			cfg.Gen.Getters = false
			cfg.Demo.RandomUsers = 0
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo error: %v", err)
			}
			if cfg.Path() != path {
				t.Errorf("Path() = %q, want %q", cfg.Path(), path)
			}

			loaded, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile error: %v", err)
			}
			if loaded.Gen.Prefix != "Watch" {
				t.Errorf("Gen.Prefix = %q", loaded.Gen.Prefix)
			}
			if loaded.Gen.Getters {
				t.Error("Gen.Getters should round-trip as false")
			}
			if loaded.Demo.RandomUsers != 0 {
				t.Errorf("Demo.RandomUsers = %d, want 0", loaded.Demo.RandomUsers)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		code   string
	}{
		{"test file output", func(c *Config) { c.Gen.Output = "gen_test.go" }, "R003"},
		{"non-go output", func(c *Config) { c.Gen.Output = "gen.txt" }, "R003"},
		{"output with dir", func(c *Config) { c.Gen.Output = "sub/gen.go" }, "R003"},
		{"unexported prefix", func(c *Config) { c.Gen.Prefix = "tracked" }, "R003"},
		{"empty prefix", func(c *Config) { c.Gen.Prefix = "" }, "R003"},
		{"negative random users", func(c *Config) { c.Demo.RandomUsers = -1 }, "R003"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "R020"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "R021"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil {
			t.Errorf("ParseLevel(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFindProjectRoot(t *testing.T) {
	tmpDir := t.TempDir()

	subDir := filepath.Join(tmpDir, "pkg", "userboard")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}

	// Without config
	_, err := FindProjectRoot(subDir)
	if !errors.Is(err, "R001") {
		t.Errorf("FindProjectRoot without config = %v, want R001", err)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, YAMLConfigFileName), []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	root, err := FindProjectRoot(subDir)
	if err != nil {
		t.Fatalf("FindProjectRoot error: %v", err)
	}
	// Compare resolved paths, t.TempDir may sit behind a symlink.
	want, _ := filepath.EvalSymlinks(tmpDir)
	got, _ := filepath.EvalSymlinks(root)
	if got != want {
		t.Errorf("FindProjectRoot = %q, want %q", root, tmpDir)
	}
}

func TestLoadFromWorkingDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(`{"log":{"level":"error"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(tmpDir, "nested")
	if err := os.Mkdir(nested, 0755); err != nil {
		t.Fatal(err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(nested); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := LoadFromWorkingDir()
	if err != nil {
		t.Fatalf("LoadFromWorkingDir error: %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if !strings.HasSuffix(cfg.Path(), ConfigFileName) {
		t.Errorf("Path() = %q", cfg.Path())
	}
}
