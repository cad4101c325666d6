package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

const (
	// DefaultDataDir is the per-user data directory name under the home dir.
	DefaultDataDir = ".mcp-cli"
	// ConfigFileName is the default TOML config file name.
	ConfigFileName = "mcp_servers.toml"

	envConfigPath = "MCP_CONFIG_PATH"
	envDaemonTTL  = "MCP_DAEMON_TTL"
)

// SearchLocations returns the ordered list of paths Load tries, used
// both by the loader and by the "config file missing" diagnostic so the
// message always names exactly what was searched.
func SearchLocations() []string {
	locs := []string{
		os.Getenv(envConfigPath),
		ConfigFileName,
		filepath.Join(".", "."+ConfigFileName),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locs = append(locs,
			filepath.Join(homeDir, DefaultDataDir, ConfigFileName),
			filepath.Join(homeDir, "."+ConfigFileName),
		)
	}
	return locs
}

// LoadFromFile loads and validates configuration from one explicit TOML
// file path. An empty path loads built-in defaults only.
func LoadFromFile(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Load searches SearchLocations() in order, loading the first file that
// exists, then applies the MCP_DAEMON_TTL environment override on top.
func Load() (*Config, error) {
	cfg := DefaultConfig()
	setupViper()

	for _, loc := range SearchLocations() {
		if loc == "" {
			continue
		}
		if _, err := os.Stat(loc); err == nil {
			if err := loadConfigFile(loc, cfg); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", loc, err)
			}
			applyEnvOverrides(cfg)
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("invalid configuration: %w", err)
			}
			return cfg, nil
		}
	}

	return nil, &NotFoundError{Searched: SearchLocations()}
}

// NotFoundError is returned by Load when no config file exists in any
// search location; its Error() names every location tried.
type NotFoundError struct {
	Searched []string
}

func (e *NotFoundError) Error() string {
	var b strings.Builder
	b.WriteString("no config file found, searched:")
	for _, loc := range e.Searched {
		display := loc
		if display == "" {
			display = fmt.Sprintf("$%s (not set)", envConfigPath)
		}
		b.WriteString("\n  - ")
		b.WriteString(display)
	}
	return b.String()
}

func setupViper() {
	viper.SetEnvPrefix("MCP")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}

// loadConfigFile parses path as TOML into cfg. An empty file is treated as
// "use defaults only".
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	for _, server := range cfg.Servers {
		if server.Created.IsZero() {
			server.Created = time.Now()
		}
		if server.Protocol == "" && server.Command == "" && server.URL == "" {
			continue
		}
	}
	return nil
}

// applyEnvOverrides applies the two environment variables spec.md names
// directly (MCP_CONFIG_PATH is consumed by SearchLocations, so only the
// daemon TTL override remains here).
func applyEnvOverrides(cfg *Config) {
	if raw := os.Getenv(envDaemonTTL); raw != "" {
		if ttl, err := strconv.Atoi(raw); err == nil {
			if ttl < MinAutoSpawnTTL {
				ttl = MinAutoSpawnTTL
			}
			cfg.DaemonTTL = ttl
		}
	}
}
