package main

import (
	"os"
	"path/filepath"
	"testing"
)

func resetFlags() {
	fromDialect = ""
	toDialect = ""
	engine = ""
	charset = ""
}

func TestLoadConfig(t *testing.T) {
	t.Run("empty path returns empty config", func(t *testing.T) {
		cfg, err := loadConfig("")
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if cfg.From != "" || cfg.To != "" {
			t.Errorf("Expected empty config, got %+v", cfg)
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		if _, err := loadConfig("/nonexistent/sqlshift.yaml"); err == nil {
			t.Error("Expected error for missing config file")
		}
	})

	t.Run("yaml fields are read", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		data := "from: mysql\nto: postgres\nengine: MyISAM\ncharset: utf8\n"
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}

		cfg, err := loadConfig(path)
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if cfg.From != "mysql" || cfg.To != "postgres" || cfg.Engine != "MyISAM" || cfg.Charset != "utf8" {
			t.Errorf("Unexpected config: %+v", cfg)
		}
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("from: [unclosed"), 0o644); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}
		if _, err := loadConfig(path); err == nil {
			t.Error("Expected error for malformed config file")
		}
	})
}

func TestConfigApply(t *testing.T) {
	t.Run("fills unset flags", func(t *testing.T) {
		resetFlags()
		cfg := &config{From: "mysql", To: "sqlite", Engine: "InnoDB", Charset: "utf8mb4"}
		cfg.apply()

		if fromDialect != "mysql" || toDialect != "sqlite" {
			t.Errorf("Expected dialects from config, got from=%q to=%q", fromDialect, toDialect)
		}
		if engine != "InnoDB" || charset != "utf8mb4" {
			t.Errorf("Expected engine settings from config, got engine=%q charset=%q", engine, charset)
		}
	})

	t.Run("command line flags win", func(t *testing.T) {
		resetFlags()
		fromDialect = "postgres"
		cfg := &config{From: "mysql", To: "sqlite"}
		cfg.apply()

		if fromDialect != "postgres" {
			t.Errorf("Expected flag value to win, got %q", fromDialect)
		}
		if toDialect != "sqlite" {
			t.Errorf("Expected unset flag filled from config, got %q", toDialect)
		}
	})
}
