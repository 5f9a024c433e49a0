package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func resetLogging() {
	CloseAll()
	logsDir = ""
	config = loggingConfig{}
	logLevel = levelInfo
}

func writeConfig(t *testing.T, workspace, content string) {
	t.Helper()
	configDir := filepath.Join(workspace, ".kindred")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
}

// TestAllCategoriesLog tests that all categories create log files when
// debug_mode is true.
func TestAllCategoriesLog(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, `{
		"logging": {
			"level": "debug",
			"debug_mode": true,
			"categories": {
				"boot": true,
				"kernel": true,
				"consistency": true,
				"dialog": true,
				"session": true
			}
		}
	}`)

	resetLogging()
	defer resetLogging()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	categories := []Category{
		CategoryBoot, CategoryKernel, CategoryConsistency,
		CategoryDialog, CategorySession,
	}
	for _, c := range categories {
		if !IsCategoryEnabled(c) {
			t.Errorf("category %s should be enabled", c)
		}
		Get(c).Info("test message for %s", c)
	}
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(tempDir, ".kindred", "logs"))
	if err != nil {
		t.Fatalf("Failed to read logs dir: %v", err)
	}
	for _, c := range categories {
		found := false
		for _, e := range entries {
			if strings.HasSuffix(e.Name(), "_"+string(c)+".log") {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("no log file for category %s", c)
		}
	}
}

// TestDisabledByDefault tests that logging is a no-op without a config.
func TestDisabledByDefault(t *testing.T) {
	tempDir := t.TempDir()

	resetLogging()
	defer resetLogging()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}
	if IsCategoryEnabled(CategoryKernel) {
		t.Error("categories should be disabled without a config file")
	}

	// Must not create any files or panic.
	Kernel("dropped message")
	KernelWarn("dropped warning")
	if _, err := os.Stat(filepath.Join(tempDir, ".kindred", "logs")); !os.IsNotExist(err) {
		t.Error("no logs directory should be created when disabled")
	}
}

// TestCategoryToggle tests that a disabled category stays silent while
// others log.
func TestCategoryToggle(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, `{
		"logging": {
			"level": "info",
			"debug_mode": true,
			"categories": {
				"kernel": true,
				"dialog": false
			}
		}
	}`)

	resetLogging()
	defer resetLogging()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}
	if !IsCategoryEnabled(CategoryKernel) {
		t.Error("kernel should be enabled")
	}
	if IsCategoryEnabled(CategoryDialog) {
		t.Error("dialog should be disabled")
	}
	// Unlisted categories default to enabled.
	if !IsCategoryEnabled(CategorySession) {
		t.Error("session should default to enabled")
	}
}
