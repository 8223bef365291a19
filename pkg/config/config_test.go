package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func intPtr(v int) *int {
	return &v
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.ISIC.BaseURL != DefaultBaseURL {
		t.Errorf("Expected default base URL to be %s, got %s", DefaultBaseURL, config.ISIC.BaseURL)
	}

	if config.Query.PageSize != 50 {
		t.Errorf("Expected default page size to be 50, got %d", config.Query.PageSize)
	}

	if config.Query.Offset != 0 {
		t.Errorf("Expected default offset to be 0, got %d", config.Query.Offset)
	}

	if config.Query.Limit != nil {
		t.Errorf("Expected default limit to be unbounded, got %d", *config.Query.Limit)
	}

	if config.Download.ConcurrentDownloads != 1 {
		t.Errorf("Expected default concurrent downloads to be 1, got %d", config.Download.ConcurrentDownloads)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Expected default config to be valid, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ISICFETCH_BASE_URL", "http://localhost:9999/api/v2")
	t.Setenv("ISICFETCH_DIAGNOSIS", "basal cell carcinoma")
	t.Setenv("ISICFETCH_OFFSET", "100")
	t.Setenv("ISICFETCH_LIMIT", "25")
	t.Setenv("ISICFETCH_PAGE_SIZE", "10")
	t.Setenv("ISICFETCH_OUTPUT_DIR", "/tmp/isic")
	t.Setenv("ISICFETCH_CONCURRENT_DOWNLOADS", "4")
	t.Setenv("ISICFETCH_TIMEOUT", "15s")
	t.Setenv("ISICFETCH_LOG_LEVEL", "debug")
	t.Setenv("ISICFETCH_PROGRESS_ENABLED", "false")

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	if config.ISIC.BaseURL != "http://localhost:9999/api/v2" {
		t.Errorf("Expected base URL from env, got %s", config.ISIC.BaseURL)
	}
	if config.Query.Diagnosis != "basal cell carcinoma" {
		t.Errorf("Expected diagnosis from env, got %s", config.Query.Diagnosis)
	}
	if config.Query.Offset != 100 {
		t.Errorf("Expected offset to be 100, got %d", config.Query.Offset)
	}
	if config.Query.Limit == nil || *config.Query.Limit != 25 {
		t.Errorf("Expected limit to be 25, got %v", config.Query.Limit)
	}
	if config.Query.PageSize != 10 {
		t.Errorf("Expected page size to be 10, got %d", config.Query.PageSize)
	}
	if config.Output.Directory != "/tmp/isic" {
		t.Errorf("Expected output directory to be /tmp/isic, got %s", config.Output.Directory)
	}
	if config.Download.ConcurrentDownloads != 4 {
		t.Errorf("Expected concurrent downloads to be 4, got %d", config.Download.ConcurrentDownloads)
	}
	if config.Download.Timeout != 15*time.Second {
		t.Errorf("Expected timeout to be 15s, got %s", config.Download.Timeout)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("Expected log level to be debug, got %s", config.Logging.Level)
	}
	if config.UI.ProgressEnabled {
		t.Error("Expected progress to be disabled")
	}
}

func TestLoadFromEnvInvalidNumber(t *testing.T) {
	t.Setenv("ISICFETCH_LIMIT", "many")

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err == nil {
		t.Error("Expected an error for a non-numeric limit")
	}
	if config.Query.Limit != nil {
		t.Error("Expected limit to stay unbounded after a parse error")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return DefaultConfig()
	}

	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantError bool
	}{
		{
			name:      "valid config",
			mutate:    func(c *Config) {},
			wantError: false,
		},
		{
			name:      "zero limit is allowed",
			mutate:    func(c *Config) { c.Query.Limit = intPtr(0) },
			wantError: false,
		},
		{
			name:      "negative offset",
			mutate:    func(c *Config) { c.Query.Offset = -1 },
			wantError: true,
		},
		{
			name:      "negative limit",
			mutate:    func(c *Config) { c.Query.Limit = intPtr(-5) },
			wantError: true,
		},
		{
			name:      "zero page size",
			mutate:    func(c *Config) { c.Query.PageSize = 0 },
			wantError: true,
		},
		{
			name:      "relative base URL",
			mutate:    func(c *Config) { c.ISIC.BaseURL = "api/v2" },
			wantError: true,
		},
		{
			name:      "missing output directory",
			mutate:    func(c *Config) { c.Output.Directory = "" },
			wantError: true,
		},
		{
			name:      "too many concurrent downloads",
			mutate:    func(c *Config) { c.Download.ConcurrentDownloads = 32 },
			wantError: true,
		},
		{
			name:      "invalid log level",
			mutate:    func(c *Config) { c.Logging.Level = "verbose" },
			wantError: true,
		},
		{
			name:      "invalid log format",
			mutate:    func(c *Config) { c.Logging.Format = "xml" },
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid()
			tt.mutate(config)
			err := config.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()

	flags := map[string]interface{}{
		"diagnosis":  "melanoma",
		"offset":     20,
		"limit":      5,
		"page-size":  100,
		"output":     "/flag/output",
		"create-dir": true,
		"concurrent": 3,
		"log-level":  "error",
	}

	config.MergeCommandLineFlags(flags)

	if config.Query.Diagnosis != "melanoma" {
		t.Errorf("Expected diagnosis to be melanoma, got %s", config.Query.Diagnosis)
	}
	if config.Query.Offset != 20 {
		t.Errorf("Expected offset to be 20, got %d", config.Query.Offset)
	}
	if config.Query.Limit == nil || *config.Query.Limit != 5 {
		t.Errorf("Expected limit to be 5, got %v", config.Query.Limit)
	}
	if config.Query.PageSize != 100 {
		t.Errorf("Expected page size to be 100, got %d", config.Query.PageSize)
	}
	if config.Output.Directory != "/flag/output" {
		t.Errorf("Expected output directory to be /flag/output, got %s", config.Output.Directory)
	}
	if !config.Output.CreateDirectory {
		t.Error("Expected create directory to be enabled")
	}
	if config.Download.ConcurrentDownloads != 3 {
		t.Errorf("Expected concurrent downloads to be 3, got %d", config.Download.ConcurrentDownloads)
	}
	if config.Logging.Level != "error" {
		t.Errorf("Expected log level to be error, got %s", config.Logging.Level)
	}
}

func TestLoadFromEnvNegativeLimitClearsBound(t *testing.T) {
	t.Setenv("ISICFETCH_LIMIT", "-1")

	config := DefaultConfig()
	config.Query.Limit = intPtr(10)
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if config.Query.Limit != nil {
		t.Errorf("Expected negative limit to clear the bound, got %d", *config.Query.Limit)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Expected config to validate, got %v", err)
	}
}

func TestMergeCommandLineFlagsNegativeLimitClearsBound(t *testing.T) {
	config := DefaultConfig()
	config.Query.Limit = intPtr(10)

	config.MergeCommandLineFlags(map[string]interface{}{"limit": -1})

	if config.Query.Limit != nil {
		t.Errorf("Expected negative limit flag to clear the bound, got %d", *config.Query.Limit)
	}
}

func TestSaveAndLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "isicfetch.yaml")

	config := DefaultConfig()
	config.Query.Diagnosis = "nevus"
	config.Query.Limit = intPtr(250)
	config.Download.ConcurrentDownloads = 8
	config.Download.Timeout = 90 * time.Second

	if err := config.Save(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loadedConfig := DefaultConfig()
	if err := loadedConfig.LoadFromFile(configPath); err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loadedConfig.Query.Diagnosis != "nevus" {
		t.Errorf("Expected loaded diagnosis to be nevus, got %s", loadedConfig.Query.Diagnosis)
	}
	if loadedConfig.Query.Limit == nil || *loadedConfig.Query.Limit != 250 {
		t.Errorf("Expected loaded limit to be 250, got %v", loadedConfig.Query.Limit)
	}
	if loadedConfig.Download.ConcurrentDownloads != 8 {
		t.Errorf("Expected loaded concurrent downloads to be 8, got %d", loadedConfig.Download.ConcurrentDownloads)
	}
	if loadedConfig.Download.Timeout != 90*time.Second {
		t.Errorf("Expected loaded timeout to be 90s, got %s", loadedConfig.Download.Timeout)
	}
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(configPath, []byte("query: [unterminated"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	config := DefaultConfig()
	if err := config.LoadFromFile(configPath); err == nil {
		t.Error("Expected an error for invalid YAML")
	}
}

func TestLoadPrecedence(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "isicfetch.yaml")
	content := []byte(`
query:
  diagnosis: "from file"
  page_size: 20
output:
  directory: /from/file
`)
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	t.Setenv("ISICFETCH_PAGE_SIZE", "30")
	t.Setenv("ISICFETCH_OUTPUT_DIR", "/from/env")

	config, err := Load(configPath, map[string]interface{}{
		"output": "/from/flag",
	})
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if config.Query.Diagnosis != "from file" {
		t.Errorf("Expected diagnosis from file, got %s", config.Query.Diagnosis)
	}
	if config.Query.PageSize != 30 {
		t.Errorf("Expected env to override page size, got %d", config.Query.PageSize)
	}
	if config.Output.Directory != "/from/flag" {
		t.Errorf("Expected flag to override output directory, got %s", config.Output.Directory)
	}
}
