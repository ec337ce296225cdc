package config

// Config represents the complete configuration for the barq application.
// It covers all commands (generate, scan, formats, serve) and supports
// loading from configuration files, environment variables, and command-line
// flags. It is loaded once at startup and passed explicitly; nothing reads
// it ad hoc afterwards.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`

	// Generation defaults applied when a request omits styling fields
	Generate GenerateConfig `mapstructure:"generate" yaml:"generate" json:"generate"`

	// Scanning configuration
	Scan ScanConfig `mapstructure:"scan" yaml:"scan" json:"scan"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`

	// Rate limiting
	RateLimitEnabled  bool  `mapstructure:"rate_limit_enabled" yaml:"rate_limit_enabled" json:"rate_limit_enabled"`
	RequestsPerMinute int   `mapstructure:"requests_per_minute" yaml:"requests_per_minute" json:"requests_per_minute"`
	RequestsPerHour   int   `mapstructure:"requests_per_hour" yaml:"requests_per_hour" json:"requests_per_hour"`
	MaxRequestsPerDay int   `mapstructure:"max_requests_per_day" yaml:"max_requests_per_day" json:"max_requests_per_day"`
	MaxDataPerDay     int64 `mapstructure:"max_data_per_day" yaml:"max_data_per_day" json:"max_data_per_day"`
}

// GenerateConfig contains the default styling for generated codes.
type GenerateConfig struct {
	ModuleWidth  float64 `mapstructure:"module_width" yaml:"module_width" json:"module_width"`
	BarHeight    float64 `mapstructure:"bar_height" yaml:"bar_height" json:"bar_height"`
	QuietZone    float64 `mapstructure:"quiet_zone" yaml:"quiet_zone" json:"quiet_zone"`
	FontSize     int     `mapstructure:"font_size" yaml:"font_size" json:"font_size"`
	TextDistance float64 `mapstructure:"text_distance" yaml:"text_distance" json:"text_distance"`
	Background   string  `mapstructure:"background" yaml:"background" json:"background"`
	Foreground   string  `mapstructure:"foreground" yaml:"foreground" json:"foreground"`

	QRErrorCorrection string `mapstructure:"qr_error_correction" yaml:"qr_error_correction" json:"qr_error_correction"`
	QRBoxSize         int    `mapstructure:"qr_box_size" yaml:"qr_box_size" json:"qr_box_size"`
	QRBorder          int    `mapstructure:"qr_border" yaml:"qr_border" json:"qr_border"`
	QRFillColor       string `mapstructure:"qr_fill_color" yaml:"qr_fill_color" json:"qr_fill_color"`
	QRBackColor       string `mapstructure:"qr_back_color" yaml:"qr_back_color" json:"qr_back_color"`
}

// ScanConfig contains image decoding settings.
type ScanConfig struct {
	TryHarder   bool `mapstructure:"try_harder" yaml:"try_harder" json:"try_harder"`
	Multi       bool `mapstructure:"multi" yaml:"multi" json:"multi"`
	MaxImageDim int  `mapstructure:"max_image_dim" yaml:"max_image_dim" json:"max_image_dim"`
}

// DefaultConfig returns the configuration defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Verbose:  false,
		Server: ServerConfig{
			Host:              "localhost",
			Port:              8080,
			CORSOrigin:        "*",
			MaxUploadMB:       10,
			TimeoutSec:        30,
			ShutdownTimeout:   10,
			RateLimitEnabled:  false,
			RequestsPerMinute: 60,
			RequestsPerHour:   1000,
			MaxRequestsPerDay: 5000,
			MaxDataPerDay:     100 * 1024 * 1024,
		},
		Generate: GenerateConfig{
			ModuleWidth:       2.0,
			BarHeight:         15.0,
			QuietZone:         6.5,
			FontSize:          10,
			TextDistance:      5.0,
			Background:        "white",
			Foreground:        "black",
			QRErrorCorrection: "M",
			QRBoxSize:         10,
			QRBorder:          4,
			QRFillColor:       "black",
			QRBackColor:       "white",
		},
		Scan: ScanConfig{
			TryHarder:   true,
			Multi:       true,
			MaxImageDim: 2048,
		},
	}
}
