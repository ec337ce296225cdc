package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 2.0, cfg.Generate.ModuleWidth)
	assert.Equal(t, "M", cfg.Generate.QRErrorCorrection)
	assert.True(t, cfg.Scan.TryHarder)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "noisy" }},
		{name: "port too small", mutate: func(c *Config) { c.Server.Port = 0 }},
		{name: "port too large", mutate: func(c *Config) { c.Server.Port = 70000 }},
		{name: "zero upload limit", mutate: func(c *Config) { c.Server.MaxUploadMB = 0 }},
		{name: "zero timeout", mutate: func(c *Config) { c.Server.TimeoutSec = 0 }},
		{name: "negative module width", mutate: func(c *Config) { c.Generate.ModuleWidth = -1 }},
		{name: "zero bar height", mutate: func(c *Config) { c.Generate.BarHeight = 0 }},
		{name: "zero qr box size", mutate: func(c *Config) { c.Generate.QRBoxSize = 0 }},
		{name: "negative scan dim", mutate: func(c *Config) { c.Scan.MaxImageDim = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoader_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 6.5, cfg.Generate.QuietZone)
}

func TestLoader_ConfigFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	path := filepath.Join(dir, "barq.yaml")
	content := []byte("server:\n  port: 9090\n  host: 0.0.0.0\ngenerate:\n  foreground: navy\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := NewLoader().LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "navy", cfg.Generate.Foreground)
	// Untouched keys keep their defaults.
	assert.Equal(t, 30, cfg.Server.TimeoutSec)
}

func TestLoader_MissingFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	_, err := NewLoader().LoadWithFile("/does/not/exist.yaml")
	require.Error(t, err)
}

func TestLoader_InvalidValuesRejected(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	path := filepath.Join(dir, "barq.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: -1\n"), 0o600))

	_, err := NewLoader().LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port")
}
