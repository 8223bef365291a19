package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultBaseURL is the root of the ISIC Archive v2 API
	DefaultBaseURL = "https://api.isic-archive.com/api/v2"

	// DefaultPageSize is the number of records requested per search page
	DefaultPageSize = 50

	envPrefix = "ISICFETCH_"
)

// Config holds all configuration options for isicfetch
type Config struct {
	// ISIC API access
	ISIC ISICConfig `yaml:"isic" json:"isic"`

	// Search parameters
	Query QueryConfig `yaml:"query" json:"query"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Terminal output
	UI UIConfig `yaml:"ui" json:"ui"`
}

// ISICConfig holds the API endpoint configuration
type ISICConfig struct {
	BaseURL   string `yaml:"base_url" json:"base_url"`
	UserAgent string `yaml:"user_agent" json:"user_agent"`
}

// QueryConfig holds the search parameters. A nil Limit means no cap.
type QueryConfig struct {
	Diagnosis string `yaml:"diagnosis" json:"diagnosis"`
	Offset    int    `yaml:"offset" json:"offset"`
	Limit     *int   `yaml:"limit,omitempty" json:"limit,omitempty"`
	PageSize  int    `yaml:"page_size" json:"page_size"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	Directory       string `yaml:"directory" json:"directory"`
	CreateDirectory bool   `yaml:"create_directory" json:"create_directory"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	ConcurrentDownloads int           `yaml:"concurrent_downloads" json:"concurrent_downloads"`
	Timeout             time.Duration `yaml:"timeout" json:"timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file" json:"file"`
}

// UIConfig holds terminal output preferences
type UIConfig struct {
	ProgressEnabled bool `yaml:"progress_enabled" json:"progress_enabled"`
	ColorEnabled    bool `yaml:"color_enabled" json:"color_enabled"`
	Quiet           bool `yaml:"quiet" json:"quiet"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		ISIC: ISICConfig{
			BaseURL:   DefaultBaseURL,
			UserAgent: "isicfetch/1.0",
		},
		Query: QueryConfig{
			Offset:   0,
			Limit:    nil,
			PageSize: DefaultPageSize,
		},
		Output: OutputConfig{
			Directory:       "./images",
			CreateDirectory: false,
		},
		Download: DownloadConfig{
			ConcurrentDownloads: 1,
			Timeout:             60 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
			File:   "",
		},
		UI: UIConfig{
			ProgressEnabled: true,
			ColorEnabled:    true,
			Quiet:           false,
		},
	}
}

// LoadFromEnv loads configuration from ISICFETCH_* environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if baseURL := os.Getenv(envPrefix + "BASE_URL"); baseURL != "" {
		c.ISIC.BaseURL = baseURL
	}
	if userAgent := os.Getenv(envPrefix + "USER_AGENT"); userAgent != "" {
		c.ISIC.UserAgent = userAgent
	}

	if diagnosis := os.Getenv(envPrefix + "DIAGNOSIS"); diagnosis != "" {
		c.Query.Diagnosis = diagnosis
	}
	if offset := os.Getenv(envPrefix + "OFFSET"); offset != "" {
		val, err := strconv.Atoi(offset)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sOFFSET: %w", envPrefix, err))
		} else {
			c.Query.Offset = val
		}
	}
	if limit := os.Getenv(envPrefix + "LIMIT"); limit != "" {
		val, err := strconv.Atoi(limit)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sLIMIT: %w", envPrefix, err))
		} else if val < 0 {
			c.Query.Limit = nil
		} else {
			c.Query.Limit = &val
		}
	}
	if pageSize := os.Getenv(envPrefix + "PAGE_SIZE"); pageSize != "" {
		val, err := strconv.Atoi(pageSize)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sPAGE_SIZE: %w", envPrefix, err))
		} else {
			c.Query.PageSize = val
		}
	}

	if outputDir := os.Getenv(envPrefix + "OUTPUT_DIR"); outputDir != "" {
		c.Output.Directory = outputDir
	}

	if concurrent := os.Getenv(envPrefix + "CONCURRENT_DOWNLOADS"); concurrent != "" {
		val, err := strconv.Atoi(concurrent)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sCONCURRENT_DOWNLOADS: %w", envPrefix, err))
		} else if val > 0 {
			c.Download.ConcurrentDownloads = val
		}
	}
	if timeout := os.Getenv(envPrefix + "TIMEOUT"); timeout != "" {
		val, err := time.ParseDuration(timeout)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sTIMEOUT: %w", envPrefix, err))
		} else {
			c.Download.Timeout = val
		}
	}

	if logLevel := os.Getenv(envPrefix + "LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat := os.Getenv(envPrefix + "LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if progress := os.Getenv(envPrefix + "PROGRESS_ENABLED"); progress != "" {
		c.UI.ProgressEnabled = strings.ToLower(progress) == "true"
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".isicfetch.yaml",
		".isicfetch.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "isicfetch", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "isicfetch", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".isicfetch.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.ISIC.BaseURL == "" {
		errs = append(errs, errors.New("ISIC base URL is required"))
	} else if u, err := url.Parse(c.ISIC.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("ISIC base URL %q is not an absolute URL", c.ISIC.BaseURL))
	}

	if c.Query.Offset < 0 {
		errs = append(errs, errors.New("offset cannot be negative"))
	}
	if c.Query.Limit != nil && *c.Query.Limit < 0 {
		errs = append(errs, errors.New("limit cannot be negative"))
	}
	if c.Query.PageSize <= 0 {
		errs = append(errs, errors.New("page size must be positive"))
	}

	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	if c.Download.ConcurrentDownloads <= 0 {
		errs = append(errs, errors.New("concurrent downloads must be positive"))
	}
	if c.Download.ConcurrentDownloads > 16 {
		errs = append(errs, errors.New("concurrent downloads should not exceed 16"))
	}
	if c.Download.Timeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	validFormats := map[string]bool{
		"auto": true, "text": true, "json": true,
	}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, errors.New("invalid log format"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only keys present in the map override the current values.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if baseURL, ok := flags["base-url"].(string); ok && baseURL != "" {
		c.ISIC.BaseURL = baseURL
	}
	if diagnosis, ok := flags["diagnosis"].(string); ok {
		c.Query.Diagnosis = diagnosis
	}
	if offset, ok := flags["offset"].(int); ok {
		c.Query.Offset = offset
	}
	if limit, ok := flags["limit"].(int); ok {
		if limit < 0 {
			c.Query.Limit = nil
		} else {
			c.Query.Limit = &limit
		}
	}
	if pageSize, ok := flags["page-size"].(int); ok {
		c.Query.PageSize = pageSize
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.Directory = outputDir
	}
	if createDir, ok := flags["create-dir"].(bool); ok {
		c.Output.CreateDirectory = createDir
	}
	if concurrent, ok := flags["concurrent"].(int); ok {
		c.Download.ConcurrentDownloads = concurrent
	}
	if timeout, ok := flags["timeout"].(time.Duration); ok && timeout > 0 {
		c.Download.Timeout = timeout
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if progress, ok := flags["progress"].(bool); ok {
		c.UI.ProgressEnabled = progress
	}
	if quiet, ok := flags["quiet"].(bool); ok {
		c.UI.Quiet = quiet
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// godotenv never overrides variables that are already set
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".isicfetch.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
