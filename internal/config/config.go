// Package config loads the daemon's runtime configuration from environment
// variables, a config file, and defaults, in that precedence order (env
// wins), via a package-level viper singleton.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var v *viper.Viper

// Initialize sets up the viper configuration singleton. Must be called
// once at application startup before any Get* function is used.
func Initialize() error {
	v = viper.New()
	v.SetConfigType("yaml")

	configFileSet := false

	// 1. User config directory (~/.config/statusstore/config.yaml)
	if configDir, err := os.UserConfigDir(); err == nil {
		configPath := filepath.Join(configDir, "statusstore", "config.yaml")
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			configFileSet = true
		}
	}

	// 2. Home directory (~/.statusstore/config.yaml)
	if !configFileSet {
		if homeDir, err := os.UserHomeDir(); err == nil {
			configPath := filepath.Join(homeDir, ".statusstore", "config.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
			}
		}
	}

	// Environment variables take precedence over the config file, e.g.
	// STATUSSTORE_STORE_DIR, STATUSSTORE_LISTEN_ADDR.
	v.SetEnvPrefix("STATUSSTORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("store-dir", "./data")
	v.SetDefault("listen-addr", ":7781")
	v.SetDefault("lock-timeout", "30s")
	v.SetDefault("shutdown-timeout", "10s")
	v.SetDefault("bootstrap-commit-count", 50)
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "json")

	// Legacy, unprefixed env vars carried over from the ingestion pipeline
	// this store replaces; bound explicitly since AutomaticEnv only applies
	// the STATUSSTORE_ prefix.
	_ = v.BindEnv("store-dir", "STORE_DIR")
	_ = v.BindEnv("listen-addr", "LISTEN_ADDR")

	if configFileSet {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault    ConfigSource = "default"
	SourceConfigFile ConfigSource = "config_file"
	SourceEnvVar     ConfigSource = "env_var"
	SourceFlag       ConfigSource = "flag"
)

// GetValueSource returns the source of a configuration value. Priority
// (highest to lowest): env var > config file > default. Flag overrides are
// handled separately by the caller, since viper doesn't know about cobra
// flags.
func GetValueSource(key string) ConfigSource {
	if v == nil {
		return SourceDefault
	}

	envKey := "STATUSSTORE_" + strings.ToUpper(strings.ReplaceAll(strings.ReplaceAll(key, "-", "_"), ".", "_"))
	if os.Getenv(envKey) != "" {
		return SourceEnvVar
	}
	if key == "store-dir" && os.Getenv("STORE_DIR") != "" {
		return SourceEnvVar
	}
	if key == "listen-addr" && os.Getenv("LISTEN_ADDR") != "" {
		return SourceEnvVar
	}

	if v.InConfig(key) {
		return SourceConfigFile
	}
	return SourceDefault
}

// LogOverride logs a message about a configuration override. Callers guard
// this on verbose mode.
func LogOverride(key string, source ConfigSource, effective interface{}) {
	fmt.Fprintf(os.Stderr, "config: %s = %v (from %s)\n", key, effective, source)
}

// GetString retrieves a string configuration value.
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool retrieves a boolean configuration value.
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetInt retrieves an integer configuration value.
func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

// GetDuration retrieves a duration configuration value.
func GetDuration(key string) time.Duration {
	if v == nil {
		return 0
	}
	return v.GetDuration(key)
}

// Set overrides a configuration value, used by cobra flag binding.
func Set(key string, value interface{}) {
	if v != nil {
		v.Set(key, value)
	}
}

// AllSettings returns all configuration settings as a map.
func AllSettings() map[string]interface{} {
	if v == nil {
		return map[string]interface{}{}
	}
	return v.AllSettings()
}

// StoreDir is the directory holding one SQLite file per repository.
func StoreDir() string { return GetString("store-dir") }

// ListenAddr is the address the gRPC server binds.
func ListenAddr() string { return GetString("listen-addr") }

// LockTimeout bounds how long the single-instance file lock waits before
// giving up (spec.md exit code 1: bad bind / unreadable DB dir).
func LockTimeout() time.Duration { return GetDuration("lock-timeout") }

// ShutdownTimeout bounds how long the gRPC server waits for in-flight
// RPCs to drain on SIGINT/SIGTERM before it is hard-stopped.
func ShutdownTimeout() time.Duration { return GetDuration("shutdown-timeout") }

// BootstrapCommitCount is N in the incremental import protocol's
// bootstrap step: the number of most-recent commits fetched on a
// repository's first-ever import (spec.md §4.8).
func BootstrapCommitCount() int { return GetInt("bootstrap-commit-count") }

// LogLevel is the minimum zap level name ("debug", "info", "warn", "error").
func LogLevel() string { return GetString("log-level") }

// LogFormat is either "json" (production) or "console" (human-readable).
func LogFormat() string { return GetString("log-format") }
