// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree.

// Package config loads and writes the application configuration.
// Precedence, lowest to highest: defaults, config file, a project-local
// .scriptum.yaml in the working directory, environment variables
// (SCRIPTUM_ prefix), command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the full application configuration as persisted to
// scriptum.yaml.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Language string         `mapstructure:"language" yaml:"language"`
	CaseMode string         `mapstructure:"case_mode" yaml:"case_mode"`
	Drill    DrillConfig    `mapstructure:"drill" yaml:"drill"`
}

// DatabaseConfig selects the storage backend. Type is one of sqlite,
// postgres or mysql; Dsn is the driver-specific connection string.
type DatabaseConfig struct {
	Type string `mapstructure:"type" yaml:"type"`
	Dsn  string `mapstructure:"dsn" yaml:"dsn"`
}

// DrillConfig holds defaults for generated drill lessons. A Seed of 0
// means a fresh random seed per drill.
type DrillConfig struct {
	Words int   `mapstructure:"words" yaml:"words"`
	Seed  int64 `mapstructure:"seed" yaml:"seed"`
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		// System-wide configuration paths
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Scriptum")
		default: // Linux, macOS, etc.
			configDir = "/etc/scriptum"
		}
	} else {
		// User-specific configuration paths
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "scriptum")
	}

	return filepath.Join(configDir, "scriptum.yaml"), nil
}

// LoadConfig resolves the configuration from all sources and unmarshals
// it into T. A missing or zero-length config file is reported as
// viper.ConfigFileNotFoundError so callers can run first-time setup;
// the returned T still carries the defaults in that case.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, additionalConfigFilePath *string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("scriptum")
	v.SetConfigType("yaml")

	// An explicit --config path wins over the search locations.
	if additionalConfigFilePath != nil && *additionalConfigFilePath != "" {
		v.SetConfigFile(*additionalConfigFilePath)
	}

	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	notFound := false
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
		notFound = true
	} else if isEmptyFile(v.ConfigFileUsed()) {
		// A zero-length file gives viper nothing to parse; treat it
		// like a missing file so first-run setup regenerates it.
		notFound = true
	}

	mergeLocalConfig(v)

	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("scriptum")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return c, err
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	if notFound {
		return c, viper.ConfigFileNotFoundError{}
	}
	return c, nil
}

func isEmptyFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Size() == 0
}

// mergeLocalConfig merges a .scriptum.yaml from the current directory
// if present, so a practice corpus checked into a repo can pin its own
// lesson and database settings. A malformed local file is ignored
// rather than blocking startup.
func mergeLocalConfig(v *viper.Viper) {
	localConfigFile := ".scriptum.yaml"
	if _, err := os.Stat(localConfigFile); err == nil {
		v.SetConfigFile(localConfigFile)
		_ = v.MergeInConfig()
		// Reset the config file path to avoid side effects.
		v.SetConfigFile("")
	}
}

// WriteConfigFile marshals c to YAML and writes it to the user (or
// system) config path, creating the directory if needed.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := GetConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	return os.WriteFile(path, data, 0600)
}
