package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero means no timeout: a hung
	// service leaves the submission in flight until the caller gives up.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "snapmerge/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// Default values for ServiceConfig.
const (
	DefaultEndpoint  = "http://localhost:8000"
	DefaultFieldName = "files"
	DefaultUserAgent = "snapmerge/0.1"
)

// ServiceConfig holds settings for the conversion service client.
type ServiceConfig struct {
	HTTPConfig `yaml:",inline"`

	// Endpoint is the base URL of the conversion service. The client posts
	// to Endpoint + "/convert".
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// FieldName is the multipart field shared by every file part (default "files").
	FieldName string `json:"field_name" yaml:"field_name"`
}

// WithDefaults returns a copy of c with empty fields set to their defaults.
func (c ServiceConfig) WithDefaults() ServiceConfig {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.FieldName == "" {
		c.FieldName = DefaultFieldName
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	return c
}

// DownloadConfig holds settings for saving artifacts to disk.
type DownloadConfig struct {
	// OutputDir is the directory the artifact is written into (default ".").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Filename overrides the conventional artifact filename when set.
	Filename string `json:"filename,omitempty" yaml:"filename,omitempty"`
}

// SinkConfig holds settings for the local download-link server.
type SinkConfig struct {
	// Addr is the listen address (default "127.0.0.1:8765").
	Addr string `json:"addr" yaml:"addr"`
}

// TelemetryConfig holds settings for metrics output.
type TelemetryConfig struct {
	// Namespace prefixes every metric name (default "snapmerge").
	Namespace string `json:"namespace" yaml:"namespace"`

	// MetricsFile, when set, receives a Prometheus text-format dump of the
	// run's metrics on exit.
	MetricsFile string `json:"metrics_file,omitempty" yaml:"metrics_file,omitempty"`
}

// ClientConfig groups all component configurations.
type ClientConfig struct {
	Service   ServiceConfig   `json:"service" yaml:"service"`
	Download  DownloadConfig  `json:"download" yaml:"download"`
	Sink      SinkConfig      `json:"sink" yaml:"sink"`
	Telemetry TelemetryConfig `json:"telemetry" yaml:"telemetry"`
}
