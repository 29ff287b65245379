package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	datadir := filepath.Join(t.TempDir(), "data")
	t.Setenv("FASTTX_DATADIR", datadir)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, datadir, cfg.Datadir)
	assert.DirExists(t, datadir)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, defaultWorkers, cfg.Workers)
	assert.Equal(t, FormatText, cfg.Format)
	assert.False(t, cfg.Archive)
	assert.Equal(t, filepath.Join(datadir, "index"), cfg.IndexPath)
	assert.Equal(t, filepath.Join(datadir, "archive"), cfg.ArchiveDir())
	assert.Equal(t, logrus.InfoLevel, cfg.Level())
}

func TestLoadConfigEnv(t *testing.T) {
	viper.Reset()
	t.Setenv("FASTTX_DATADIR", t.TempDir())
	t.Setenv("FASTTX_LOG_LEVEL", "debug")
	t.Setenv("FASTTX_PORT", "9000")
	t.Setenv("FASTTX_WORKERS", "2")
	t.Setenv("FASTTX_FORMAT", "json")
	t.Setenv("FASTTX_ARCHIVE", "true")
	t.Setenv("FASTTX_INDEX_PATH", ":memory:")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, logrus.DebugLevel, cfg.Level())
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.True(t, cfg.Archive)
	assert.Equal(t, ":memory:", cfg.IndexPath)
	assert.Contains(t, cfg.String(), `"Port": 9000`)
}

func TestLoadConfigFile(t *testing.T) {
	viper.Reset()
	datadir := t.TempDir()
	t.Setenv("FASTTX_DATADIR", datadir)
	t.Setenv("FASTTX_WORKERS", "3")
	require.NoError(t, os.WriteFile(filepath.Join(datadir, configFileName), []byte("workers: 5\nformat: json\n"), 0644))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	// env wins over the file
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, FormatJSON, cfg.Format)
}

func TestValidate(t *testing.T) {
	valid := Config{LogLevel: "info", Port: 8080, Workers: 1, Format: FormatText}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"port", func(c *Config) { c.Port = 70000 }},
		{"workers", func(c *Config) { c.Workers = 0 }},
		{"format", func(c *Config) { c.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
