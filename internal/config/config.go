// Package config defines the structures consumed by the daemon and CLI:
// the loaded Config, per-server ServerConfig entries, and the small set of
// derived value types (Duration, RetryConfig) that components copy freely.
package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"
)

const (
	// DefaultConcurrencyLimit bounds the number of in-flight fan-out operations.
	DefaultConcurrencyLimit = 5
	// DefaultRetryMax is the number of attempts the retry engine makes before
	// giving up on a transient failure.
	DefaultRetryMax = 3
	// DefaultRetryDelayMS is the base delay of the exponential backoff schedule.
	DefaultRetryDelayMS = 1000
	// DefaultTimeoutSecs bounds the overall retry-loop deadline.
	DefaultTimeoutSecs = 1800
	// DefaultDaemonTTL is how long the daemon waits without traffic before
	// shutting itself down.
	DefaultDaemonTTL = 60
	// MinAutoSpawnTTL is the floor applied to an auto-spawned daemon's idle
	// TTL so it cannot expire before the spawning client's first request lands.
	MinAutoSpawnTTL = 5
)

// Duration is a wrapper around time.Duration that marshals to/from JSON as a
// human string (e.g. "30s", "5m") instead of a raw integer of nanoseconds.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration format: %w", err)
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config is the top-level, immutable-after-load configuration shared by
// read-only reference across the daemon and CLI.
type Config struct {
	Servers []*ServerConfig `json:"mcpServers" mapstructure:"servers"`

	ConcurrencyLimit int `json:"concurrency_limit" mapstructure:"concurrency-limit"`
	RetryMax         int `json:"retry_max" mapstructure:"retry-max"`
	RetryDelayMS     int `json:"retry_delay_ms" mapstructure:"retry-delay-ms"`
	TimeoutSecs      int `json:"timeout_secs" mapstructure:"timeout-secs"`
	DaemonTTL        int `json:"daemon_ttl" mapstructure:"daemon-ttl"`

	SocketPath string `json:"socket_path,omitempty" mapstructure:"socket-path"`

	Logging *LogConfig `json:"logging,omitempty" mapstructure:"logging"`
}

// LogConfig mirrors the daemon/CLI logging knobs.
type LogConfig struct {
	Level         string `json:"level" mapstructure:"level"`
	EnableFile    bool   `json:"enable_file" mapstructure:"enable-file"`
	EnableConsole bool   `json:"enable_console" mapstructure:"enable-console"`
	LogDir        string `json:"log_dir,omitempty" mapstructure:"log-dir"`
	Filename      string `json:"filename" mapstructure:"filename"`
	MaxSize       int    `json:"max_size" mapstructure:"max-size"`
	MaxBackups    int    `json:"max_backups" mapstructure:"max-backups"`
	MaxAge        int    `json:"max_age" mapstructure:"max-age"`
	Compress      bool   `json:"compress" mapstructure:"compress"`
	JSONFormat    bool   `json:"json_format" mapstructure:"json-format"`
}

// ServerConfig describes one upstream tool server. Exactly one transport
// descriptor applies: stdio (Command set) or http (URL set).
type ServerConfig struct {
	Name        string            `json:"name" mapstructure:"name"`
	Description string            `json:"description,omitempty" mapstructure:"description"`
	Protocol    string            `json:"protocol,omitempty" mapstructure:"protocol"` // stdio, http, streamable-http, auto
	Enabled     bool              `json:"enabled" mapstructure:"enabled"`

	// stdio transport
	Command    string            `json:"command,omitempty" mapstructure:"command"`
	Args       []string          `json:"args,omitempty" mapstructure:"args"`
	WorkingDir string            `json:"working_dir,omitempty" mapstructure:"working_dir"`
	Env        map[string]string `json:"env,omitempty" mapstructure:"env"`

	// http transport
	URL     string            `json:"url,omitempty" mapstructure:"url"`
	Headers map[string]string `json:"headers,omitempty" mapstructure:"headers"`

	// Tool filtering: glob patterns matched against tool names only.
	AllowedTools  []string `json:"allowed_tools,omitempty" mapstructure:"allowed_tools"`
	DisabledTools []string `json:"disabled_tools,omitempty" mapstructure:"disabled_tools"`

	Created time.Time `json:"created,omitempty" mapstructure:"created"`
	Updated time.Time `json:"updated,omitempty" mapstructure:"updated"`
}

// ToolAllowed reports whether name passes this server's allowed/disabled
// glob filters. When it doesn't, the second return value is the pattern
// responsible so the CLI can name it in the diagnostic.
func (s *ServerConfig) ToolAllowed(name string) (bool, string) {
	for _, pattern := range s.DisabledTools {
		if matched, _ := filepath.Match(pattern, name); matched {
			return false, pattern
		}
	}
	if len(s.AllowedTools) == 0 {
		return true, ""
	}
	for _, pattern := range s.AllowedTools {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true, ""
		}
	}
	return false, "allowed_tools"
}

// TransportKind returns the resolved transport kind for this server, the
// same auto-detection logic the daemon's Transport factory uses.
func (s *ServerConfig) TransportKind() string {
	if s.Protocol != "" && s.Protocol != "auto" {
		return s.Protocol
	}
	if s.Command != "" {
		return "stdio"
	}
	if s.URL != "" {
		return "http"
	}
	return "stdio"
}

// RetryConfig is a small value type derived from Config, freely copied into
// the retry engine.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryConfig derives a RetryConfig snapshot from the loaded Config.
func (c *Config) RetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: c.RetryMax,
		BaseDelay:   time.Duration(c.RetryDelayMS) * time.Millisecond,
		MaxDelay:    30 * time.Second,
	}
}

// Timeout returns the overall retry-loop deadline.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// DefaultConfig returns a Config populated with the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Servers:          []*ServerConfig{},
		ConcurrencyLimit: DefaultConcurrencyLimit,
		RetryMax:         DefaultRetryMax,
		RetryDelayMS:     DefaultRetryDelayMS,
		TimeoutSecs:      DefaultTimeoutSecs,
		DaemonTTL:        DefaultDaemonTTL,
		Logging: &LogConfig{
			Level:         "info",
			EnableConsole: true,
			Filename:      "daemon.log",
			MaxSize:       10,
			MaxBackups:    5,
			MaxAge:        30,
			Compress:      true,
		},
	}
}

// ValidationError represents one configuration validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// ValidateDetailed performs full validation and returns every violation
// found, rather than stopping at the first.
func (c *Config) ValidateDetailed() []ValidationError {
	var errs []ValidationError

	if c.ConcurrencyLimit <= 0 {
		errs = append(errs, ValidationError{"concurrency_limit", "must be positive"})
	}
	if c.RetryMax < 0 {
		errs = append(errs, ValidationError{"retry_max", "cannot be negative"})
	}
	if c.RetryDelayMS <= 0 {
		errs = append(errs, ValidationError{"retry_delay_ms", "must be positive"})
	}
	if c.TimeoutSecs <= 0 {
		errs = append(errs, ValidationError{"timeout_secs", "must be positive"})
	}
	if c.DaemonTTL <= 0 {
		errs = append(errs, ValidationError{"daemon_ttl", "must be positive"})
	}

	names := make(map[string]bool, len(c.Servers))
	for i, s := range c.Servers {
		prefix := fmt.Sprintf("mcpServers[%d]", i)

		if s.Name == "" {
			errs = append(errs, ValidationError{prefix + ".name", "server name is required"})
		} else if names[s.Name] {
			errs = append(errs, ValidationError{prefix + ".name", fmt.Sprintf("duplicate server name: %s", s.Name)})
		} else {
			names[s.Name] = true
		}

		switch s.TransportKind() {
		case "stdio":
			if s.Command == "" {
				errs = append(errs, ValidationError{prefix + ".command", "command is required for stdio protocol"})
			}
		case "http", "streamable-http", "sse":
			if s.URL == "" {
				errs = append(errs, ValidationError{prefix + ".url", "url is required for http protocol"})
			} else if !hasHTTPScheme(s.URL) {
				errs = append(errs, ValidationError{prefix + ".url", "url must use http:// or https:// scheme"})
			}
		default:
			errs = append(errs, ValidationError{prefix + ".protocol", fmt.Sprintf("invalid protocol: %s", s.Protocol)})
		}
	}

	if c.Logging != nil && c.Logging.Level != "" {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[c.Logging.Level] {
			errs = append(errs, ValidationError{"logging.level", fmt.Sprintf("invalid log level: %s", c.Logging.Level)})
		}
	}

	return errs
}

func hasHTTPScheme(raw string) bool {
	return len(raw) > 7 && (raw[:7] == "http://" || (len(raw) > 8 && raw[:8] == "https://"))
}

// Validate applies defaults for unset numeric fields, then runs
// ValidateDetailed and returns the first violation as an error.
func (c *Config) Validate() error {
	if c.ConcurrencyLimit <= 0 {
		c.ConcurrencyLimit = DefaultConcurrencyLimit
	}
	if c.RetryMax < 0 {
		c.RetryMax = DefaultRetryMax
	}
	if c.RetryDelayMS <= 0 {
		c.RetryDelayMS = DefaultRetryDelayMS
	}
	if c.TimeoutSecs <= 0 {
		c.TimeoutSecs = DefaultTimeoutSecs
	}
	if c.DaemonTTL <= 0 {
		c.DaemonTTL = DefaultDaemonTTL
	}
	if c.Logging == nil {
		c.Logging = &LogConfig{Level: "info", EnableConsole: true}
	}

	if errs := c.ValidateDetailed(); len(errs) > 0 {
		return fmt.Errorf("%s", errs[0].Error())
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c *Config) MarshalJSON() ([]byte, error) {
	type Alias Config
	return json.Marshal((*Alias)(c))
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Config) UnmarshalJSON(data []byte) error {
	type Alias Config
	aux := &struct{ *Alias }{Alias: (*Alias)(c)}
	return json.Unmarshal(data, aux)
}
