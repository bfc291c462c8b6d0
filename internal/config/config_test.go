// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree.

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	cfg "github.com/scriptum/scriptum/internal/config"
)

func defaults() map[string]any {
	return map[string]any{
		"database.type": "sqlite",
		"database.dsn":  "./scriptum.db",
		"language":      "en",
		"case_mode":     "strict",
		"drill.words":   12,
		"drill.seed":    int64(0),
	}
}

func TestLoadConfig_MissingFile_ReturnsNotFoundWithDefaults(t *testing.T) {
	tmp := t.TempDir()
	os.Setenv("XDG_CONFIG_HOME", tmp)
	defer os.Unsetenv("XDG_CONFIG_HOME")

	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, defaults(), nil)
	if err == nil {
		t.Fatalf("expected ConfigFileNotFoundError for missing file, got nil")
	}
	if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		t.Fatalf("expected ConfigFileNotFoundError, got: %T %v", err, err)
	}
	// Defaults must survive the not-found path so first-run setup can
	// persist them as-is.
	if got.Database.Type != "sqlite" || got.Language != "en" {
		t.Fatalf("defaults not applied on not-found: %+v", got)
	}
	if got.Drill.Words != 12 {
		t.Fatalf("expected drill.words default 12, got %d", got.Drill.Words)
	}
}

func TestLoadConfig_EmptyCandidate_TreatedAsNotFound(t *testing.T) {
	tmp := t.TempDir()
	os.Setenv("XDG_CONFIG_HOME", tmp)
	defer os.Unsetenv("XDG_CONFIG_HOME")

	cfgDir := filepath.Join(tmp, "scriptum")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	emptyPath := filepath.Join(cfgDir, "scriptum.yaml")
	f, err := os.Create(emptyPath)
	if err != nil {
		t.Fatalf("create empty file: %v", err)
	}
	f.Close()

	_, err = cfg.LoadConfig[cfg.Config](&cobra.Command{}, defaults(), nil)
	if err == nil {
		t.Fatalf("expected ConfigFileNotFoundError for empty candidate, got nil")
	}
	if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		t.Fatalf("expected ConfigFileNotFoundError, got: %T %v", err, err)
	}
}

func TestLoadConfig_ReadsExplicitFile(t *testing.T) {
	tmp := t.TempDir()
	yaml := "database:\n  type: postgres\n  dsn: postgresql://user@/scriptum\nlanguage: de\ncase_mode: fold\ndrill:\n  words: 20\n"
	file := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(file, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, defaults(), &file)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if got.Database.Type != "postgres" {
		t.Fatalf("expected postgres, got %q", got.Database.Type)
	}
	if got.Language != "de" {
		t.Fatalf("expected de, got %q", got.Language)
	}
	if got.CaseMode != "fold" {
		t.Fatalf("expected fold, got %q", got.CaseMode)
	}
	if got.Drill.Words != 20 {
		t.Fatalf("expected drill.words 20, got %d", got.Drill.Words)
	}
}

func TestLoadConfig_MalformedFile_ReturnsError(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(file, []byte("database: [unclosed\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	_, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, defaults(), &file)
	if err == nil {
		t.Fatalf("expected parse error for broken yaml, got nil")
	}
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		t.Fatalf("parse error must not be reported as not-found")
	}
}

func TestLoadConfig_EnvironmentOverride(t *testing.T) {
	tmp := t.TempDir()
	os.Setenv("XDG_CONFIG_HOME", tmp)
	os.Setenv("SCRIPTUM_LANGUAGE", "de")
	defer os.Unsetenv("XDG_CONFIG_HOME")
	defer os.Unsetenv("SCRIPTUM_LANGUAGE")

	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, defaults(), nil)
	if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		t.Fatalf("expected not-found (no file written), got: %v", err)
	}
	if got.Language != "de" {
		t.Fatalf("expected env override de, got %q", got.Language)
	}
}

func TestWriteConfigFile_CreatesFile(t *testing.T) {
	tmp := t.TempDir()
	os.Setenv("XDG_CONFIG_HOME", tmp)
	defer os.Unsetenv("XDG_CONFIG_HOME")

	c := cfg.Config{}
	c.Database.Type = "sqlite"
	c.Database.Dsn = "./scriptum.db"
	c.Language = "en"
	c.CaseMode = "strict"
	c.Drill.Words = 12

	if err := cfg.WriteConfigFile(&c, false); err != nil {
		t.Fatalf("WriteConfigFile failed: %v", err)
	}

	path, err := cfg.GetConfigPath(false)
	if err != nil {
		t.Fatalf("GetConfigPath failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file at %s, stat error: %v", path, err)
	}

	// Round-trip: what was written must load back unchanged.
	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, defaults(), &path)
	if err != nil {
		t.Fatalf("LoadConfig after write failed: %v", err)
	}
	if got.Database.Dsn != "./scriptum.db" || got.CaseMode != "strict" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
}
