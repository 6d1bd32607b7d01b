package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	boterror "github.com/msto63/botlang/foundation/core/error"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"minutes", "5m", 5 * time.Minute, false},
		{"complex", "1h30m", 90 * time.Minute, false},
		{"milliseconds", "100ms", 100 * time.Millisecond, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	d := Duration{5 * time.Minute}
	result, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(result) != "5m0s" {
		t.Errorf("MarshalText() = %v, want 5m0s", string(result))
	}
}

func TestConfig_applyDefaults(t *testing.T) {
	cfg := Default()

	if cfg.General.Name != "botlang" {
		t.Errorf("General.Name = %v, want botlang", cfg.General.Name)
	}
	if cfg.General.LogLevel != "info" {
		t.Errorf("General.LogLevel = %v, want info", cfg.General.LogLevel)
	}
	if cfg.General.LogFormat != "text" {
		t.Errorf("General.LogFormat = %v, want text", cfg.General.LogFormat)
	}
	if cfg.Interpreter.MaxCallDepth != 512 {
		t.Errorf("Interpreter.MaxCallDepth = %v, want 512", cfg.Interpreter.MaxCallDepth)
	}
	if !cfg.PrintEnabled() {
		t.Error("PrintEnabled() = false, want true")
	}
	if cfg.Sensors == nil {
		t.Error("Sensors should be initialized")
	}
	if cfg.Server.Port != 8765 {
		t.Errorf("Server.Port = %v, want 8765", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout.Duration != 30*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 30s", cfg.Server.ReadTimeout.Duration)
	}
	if cfg.Journal.Enabled {
		t.Error("Journal.Enabled should default to false")
	}
	if cfg.ServerAddress() != "127.0.0.1:8765" {
		t.Errorf("ServerAddress() = %v, want 127.0.0.1:8765", cfg.ServerAddress())
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/botlang.toml")
	if !boterror.HasCode(err, boterror.CodeNotFound) {
		t.Errorf("Load() error = %v, want NOT_FOUND", err)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "botlang.toml")

	configContent := `
[general]
name = "arena"
log_level = "debug"

[interpreter]
max_call_depth = 64
print_output = false
timeout = "2s"

[sensors]
_FRONT_NEIGHBOR = "EMPTY"
_HEALTH = 100

[server]
port = 9999
script = "bots/attacker.bl"

[journal]
enabled = true
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.General.Name != "arena" {
		t.Errorf("General.Name = %v, want arena", cfg.General.Name)
	}
	if cfg.Interpreter.MaxCallDepth != 64 {
		t.Errorf("Interpreter.MaxCallDepth = %v, want 64", cfg.Interpreter.MaxCallDepth)
	}
	if cfg.PrintEnabled() {
		t.Error("PrintEnabled() = true, want false")
	}
	if cfg.Interpreter.Timeout.Duration != 2*time.Second {
		t.Errorf("Interpreter.Timeout = %v, want 2s", cfg.Interpreter.Timeout.Duration)
	}
	if cfg.Sensors["_FRONT_NEIGHBOR"] != "EMPTY" {
		t.Errorf("Sensors[_FRONT_NEIGHBOR] = %v, want EMPTY", cfg.Sensors["_FRONT_NEIGHBOR"])
	}
	if cfg.Sensors["_HEALTH"] != int64(100) {
		t.Errorf("Sensors[_HEALTH] = %v, want 100", cfg.Sensors["_HEALTH"])
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %v, want 9999", cfg.Server.Port)
	}
	if want := filepath.Join(tmpDir, "bots/attacker.bl"); cfg.Server.Script != want {
		t.Errorf("Server.Script = %v, want %v", cfg.Server.Script, want)
	}
	if !cfg.Journal.Enabled {
		t.Error("Journal.Enabled = false, want true")
	}
	// Defaults still apply to missing values
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %v, want 127.0.0.1 (default)", cfg.Server.Host)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    boterror.Code
	}{
		{"syntax", "[general\nname = 1", boterror.CodeInvalidConfig},
		{"sensor name", "[sensors]\nFRONT = 1", boterror.CodeValidationFailed},
		{"port", "[server]\nport = 70000", boterror.CodeValidationFailed},
		{"log format", "[general]\nlog_format = \"xml\"", boterror.CodeValidationFailed},
		{"server log level", "[server]\nlog_level = \"loud\"", boterror.CodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "botlang.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write test config: %v", err)
			}
			_, err := Load(path)
			if !boterror.HasCode(err, tt.code) {
				t.Errorf("Load() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestConfig_expandEnvVars(t *testing.T) {
	t.Setenv("BOTLANG_TEST_DIR", "/var/lib/botlang")

	cfg := &Config{Journal: JournalConfig{Path: "$BOTLANG_TEST_DIR/journal.db"}}
	cfg.expandEnvVars("/etc/botlang")

	if cfg.Journal.Path != "/var/lib/botlang/journal.db" {
		t.Errorf("Journal.Path = %v, want /var/lib/botlang/journal.db", cfg.Journal.Path)
	}
}

func TestLoadFromEnv(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	originalWd, _ := os.Getwd()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	defer os.Chdir(originalWd)

	t.Setenv(EnvConfigPath, "")
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() without config error = %v", err)
	}
	if cfg.General.Name != "botlang" {
		t.Errorf("General.Name = %v, want defaults", cfg.General.Name)
	}

	path := filepath.Join(tmpDir, "custom.toml")
	if err := os.WriteFile(path, []byte("[general]\nname = \"custom\""), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	t.Setenv(EnvConfigPath, path)
	cfg, err = LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.General.Name != "custom" {
		t.Errorf("General.Name = %v, want custom", cfg.General.Name)
	}
}
