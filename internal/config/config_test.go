package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadFormats(t *testing.T) {
	want := Config{
		InputDir:       "models",
		OutputDir:      "out",
		Recursive:      true,
		ExportTextures: true,
		Workers:        3,
		LogLevel:       "warn",
	}
	files := map[string]string{
		"c.json": `{"input_dir": "models", "output_dir": "out", "recursive": true,
"export_textures": true, "workers": 3, "log_level": "warn"}`,
		"c.toml": `input_dir = "models"
output_dir = "out"
recursive = true
export_textures = true
workers = 3
log_level = "warn"
`,
		"c.yaml": `input_dir: models
output_dir: out
recursive: true
export_textures: true
workers: 3
log_level: warn
`,
	}
	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(write(t, name, body))
			require.NoError(t, err)
			assert.Equal(t, want, cfg)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(write(t, "c.ini", "x=1"))
	assert.ErrorContains(t, err, "unknown format")

	_, err = Load(write(t, "c.json", "{"))
	assert.ErrorContains(t, err, "config: parse")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorContains(t, err, "config: read")
}

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{})
	assert.Equal(t, ".", cfg.InputDir)
	assert.Equal(t, "imported", cfg.OutputDir)
	assert.Equal(t, filepath.Join("imported", "textures"), cfg.TextureDir)
	assert.Equal(t, filepath.Join("imported", "manifest.json"), cfg.Manifest)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestResolveFlagsOverride(t *testing.T) {
	cfg := Config{InputDir: "a", OutputDir: "b", Workers: 2, TextureDir: "tex", LogLevel: "error"}
	cfg.Resolve(Flags{OutputDir: "c", Workers: 5, Recursive: true, Verbose: true})
	assert.Equal(t, "a", cfg.InputDir)
	assert.Equal(t, "c", cfg.OutputDir)
	assert.Equal(t, 5, cfg.Workers)
	assert.True(t, cfg.Recursive)
	assert.False(t, cfg.ExportTextures)
	assert.Equal(t, filepath.Join("c", "tex"), cfg.TextureDir)
	assert.Equal(t, slog.LevelDebug, cfg.Level())

	cfg = Config{LogLevel: "loud"}
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestResolveHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.Reset()

	cfg := Config{InputDir: "~/models", OutputDir: "~/out", MaxTextureSize: 512}
	cfg.Resolve(Flags{MaxTextureSize: 256})
	assert.Equal(t, filepath.Join(home, "models"), cfg.InputDir)
	assert.Equal(t, filepath.Join(home, "out"), cfg.OutputDir)
	assert.Equal(t, filepath.Join(home, "out", "textures"), cfg.TextureDir)
	assert.Equal(t, 256, cfg.MaxTextureSize)
}
