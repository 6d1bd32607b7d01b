// ============================================================================
// Botlang - bot scripting language toolkit
// ============================================================================
//
// Package:     config
// Description: Typed botlang.toml configuration for the CLI and server
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	boterror "github.com/msto63/botlang/foundation/core/error"
	"github.com/msto63/botlang/pkg/core/logging"
)

// EnvConfigPath names the environment variable holding the config path
const EnvConfigPath = "BOTLANG_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General     GeneralConfig          `toml:"general"`
	Interpreter InterpreterConfig      `toml:"interpreter"`
	Sensors     map[string]interface{} `toml:"sensors"`
	Server      ServerConfig           `toml:"server"`
	Journal     JournalConfig          `toml:"journal"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name      string `toml:"name"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// InterpreterConfig holds evaluation limits and output settings
type InterpreterConfig struct {
	MaxCallDepth int      `toml:"max_call_depth"`
	PrintOutput  *bool    `toml:"print_output"`
	Timeout      Duration `toml:"timeout"`
}

// ServerConfig holds decision server configuration
type ServerConfig struct {
	Host         string   `toml:"host"`
	Port         int      `toml:"port"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	Script       string   `toml:"script"`
	LogLevel     string   `toml:"log_level"`
}

// JournalConfig holds run journal settings
type JournalConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration with all defaults applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML file
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, boterror.Newf("config file not found: %s", path).
			WithCode(boterror.CodeNotFound).
			WithOperation("config.Load")
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, boterror.Wrap(err, "failed to parse config").
			WithCode(boterror.CodeInvalidConfig).
			WithDetail("path", path)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars(filepath.Dir(path))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads configuration from BOTLANG_CONFIG or a default location.
// Without any config file the defaults are returned.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		defaultPaths := []string{
			"./botlang.toml",
			"./configs/botlang.toml",
			filepath.Join(os.Getenv("HOME"), ".config/botlang/botlang.toml"),
		}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "botlang"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	// Interpreter
	if c.Interpreter.MaxCallDepth == 0 {
		c.Interpreter.MaxCallDepth = 512
	}
	if c.Interpreter.PrintOutput == nil {
		enabled := true
		c.Interpreter.PrintOutput = &enabled
	}

	// Sensors
	if c.Sensors == nil {
		c.Sensors = make(map[string]interface{})
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8765
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 30 * time.Second
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = 10 * time.Second
	}

	// Journal
	if c.Journal.Path == "" {
		c.Journal.Path = "./data/journal.db"
	}
}

// expandEnvVars expands environment variables in path values and resolves
// relative script paths against the config directory
func (c *Config) expandEnvVars(baseDir string) {
	c.Journal.Path = os.ExpandEnv(c.Journal.Path)
	c.Server.Script = os.ExpandEnv(c.Server.Script)
	if c.Server.Script != "" && !filepath.IsAbs(c.Server.Script) {
		c.Server.Script = filepath.Join(baseDir, c.Server.Script)
	}
}

// Validate checks value ranges and sensor names
func (c *Config) Validate() error {
	if c.Interpreter.MaxCallDepth < 0 {
		return invalid("interpreter.max_call_depth must not be negative")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return invalid(fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	for name := range c.Sensors {
		if !strings.HasPrefix(name, "_") || len(name) < 2 {
			return invalid(fmt.Sprintf("sensor name %q must start with '_'", name))
		}
	}
	if c.Server.LogLevel != "" {
		if _, err := logging.ParseLevel(c.Server.LogLevel); err != nil {
			return invalid(fmt.Sprintf("server.log_level %q is not a level", c.Server.LogLevel))
		}
	}
	switch strings.ToLower(c.General.LogFormat) {
	case "json", "text", "console", "logfmt":
	default:
		return invalid(fmt.Sprintf("unknown log format %q", c.General.LogFormat))
	}
	return nil
}

// PrintEnabled reports whether print() output goes to stdout
func (c *Config) PrintEnabled() bool {
	return c.Interpreter.PrintOutput == nil || *c.Interpreter.PrintOutput
}

// ServerAddress returns the listen address of the decision server
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func invalid(message string) error {
	return boterror.New(message).
		WithCode(boterror.CodeValidationFailed).
		WithOperation("config.Validate")
}
