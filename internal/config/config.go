package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds the import paths and batch settings.
type Config struct {
	// Paths
	InputDir   string `json:"input_dir" toml:"input_dir" yaml:"input_dir"`
	OutputDir  string `json:"output_dir" toml:"output_dir" yaml:"output_dir"`
	TextureDir string `json:"texture_dir" toml:"texture_dir" yaml:"texture_dir"`
	Manifest   string `json:"manifest" toml:"manifest" yaml:"manifest"`

	// Import settings
	Recursive       bool   `json:"recursive" toml:"recursive" yaml:"recursive"`
	ExportTextures  bool   `json:"export_textures" toml:"export_textures" yaml:"export_textures"`
	GenerateNormals bool   `json:"generate_normals" toml:"generate_normals" yaml:"generate_normals"`
	Workers         int    `json:"workers" toml:"workers" yaml:"workers"`
	MaxTextureSize  int    `json:"max_texture_size" toml:"max_texture_size" yaml:"max_texture_size"`
	LogLevel        string `json:"log_level" toml:"log_level" yaml:"log_level"`
}

// Load reads a config file and returns Config. The format follows the
// extension: .json, .toml, .yaml or .yml.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("config: %s: unknown format %q", path, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty. A leading ~ in a path
// expands to the home directory.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.InputDir != "" {
		c.InputDir = flags.InputDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Recursive {
		c.Recursive = true
	}
	if flags.ExportTextures {
		c.ExportTextures = true
	}
	if flags.Verbose {
		c.LogLevel = "debug"
	}
	if flags.MaxTextureSize > 0 {
		c.MaxTextureSize = flags.MaxTextureSize
	}

	c.InputDir = expand(c.InputDir)
	c.OutputDir = expand(c.OutputDir)
	c.TextureDir = expand(c.TextureDir)
	c.Manifest = expand(c.Manifest)

	if c.InputDir == "" {
		c.InputDir = "."
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.InputDir, "imported")
	}
	if c.TextureDir == "" {
		c.TextureDir = filepath.Join(c.OutputDir, "textures")
	} else if !filepath.IsAbs(c.TextureDir) {
		c.TextureDir = filepath.Join(c.OutputDir, c.TextureDir)
	}
	if c.Manifest == "" {
		c.Manifest = filepath.Join(c.OutputDir, "manifest.json")
	} else if !filepath.IsAbs(c.Manifest) {
		c.Manifest = filepath.Join(c.OutputDir, c.Manifest)
	}

	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Level returns LogLevel as a slog level, falling back to info.
func (c *Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	InputDir       string
	OutputDir      string
	Workers        int
	Recursive      bool
	ExportTextures bool
	MaxTextureSize int
	Verbose        bool
}

// expand resolves ~ in path, leaving the path unchanged on failure.
func expand(path string) string {
	if p, err := homedir.Expand(path); err == nil {
		return p
	}
	return path
}
