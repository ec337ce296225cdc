package config

import (
	"fmt"
	"strings"
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the configuration for values that cannot work at runtime.
func (c *Config) Validate() error {
	level := strings.ToLower(c.LogLevel)
	ok := false
	for _, l := range validLogLevels {
		if level == l {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("invalid log_level %q (must be one of %v)", c.LogLevel, validLogLevels)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.MaxUploadMB < 1 {
		return fmt.Errorf("invalid server.max_upload_mb %d (must be at least 1)", c.Server.MaxUploadMB)
	}
	if c.Server.TimeoutSec < 1 {
		return fmt.Errorf("invalid server.timeout_sec %d (must be at least 1)", c.Server.TimeoutSec)
	}

	if c.Generate.ModuleWidth <= 0 {
		return fmt.Errorf("invalid generate.module_width %v (must be positive)", c.Generate.ModuleWidth)
	}
	if c.Generate.BarHeight <= 0 {
		return fmt.Errorf("invalid generate.bar_height %v (must be positive)", c.Generate.BarHeight)
	}
	if c.Generate.QRBoxSize < 1 {
		return fmt.Errorf("invalid generate.qr_box_size %d (must be at least 1)", c.Generate.QRBoxSize)
	}

	if c.Scan.MaxImageDim < 0 {
		return fmt.Errorf("invalid scan.max_image_dim %d (must not be negative)", c.Scan.MaxImageDim)
	}

	return nil
}
