package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by LoadFromEnv.
const (
	EnvToken         = "LINKEDIN_TOKEN"
	EnvBaseURL       = "LIPOST_BASE_URL"
	EnvStrictUploads = "LIPOST_STRICT_UPLOADS"
	EnvVisibility    = "LIPOST_VISIBILITY"
	EnvLogLevel      = "LIPOST_LOG_LEVEL"
)

// Config holds all configuration options for lipost
type Config struct {
	// LinkedIn API access
	LinkedIn LinkedInConfig `yaml:"linkedin" json:"linkedin"`

	// Image upload behaviour
	Upload UploadConfig `yaml:"upload" json:"upload"`

	// Post defaults
	Post PostConfig `yaml:"post" json:"post"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// LinkedInConfig holds API access settings
type LinkedInConfig struct {
	Token   string `yaml:"token" json:"token"`
	BaseURL string `yaml:"base_url" json:"base_url"`
}

// UploadConfig holds image upload settings
type UploadConfig struct {
	// StrictUploads turns a non-2xx image PUT into a fatal error.
	StrictUploads bool   `yaml:"strict_uploads" json:"strict_uploads"`
	ImageTitle    string `yaml:"image_title" json:"image_title"`
}

// PostConfig holds defaults applied to every published post
type PostConfig struct {
	Visibility string `yaml:"visibility" json:"visibility"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LinkedIn: LinkedInConfig{
			BaseURL: "https://api.linkedin.com",
		},
		Upload: UploadConfig{
			StrictUploads: false,
			ImageTitle:    "Image Title",
		},
		Post: PostConfig{
			Visibility: "PUBLIC",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if token := strings.TrimSpace(os.Getenv(EnvToken)); token != "" {
		c.LinkedIn.Token = token
	}
	if baseURL := strings.TrimSpace(os.Getenv(EnvBaseURL)); baseURL != "" {
		c.LinkedIn.BaseURL = baseURL
	}
	if strict := os.Getenv(EnvStrictUploads); strict != "" {
		c.Upload.StrictUploads = strings.ToLower(strict) == "true"
	}
	if visibility := os.Getenv(EnvVisibility); visibility != "" {
		c.Post.Visibility = strings.ToUpper(visibility)
	}
	if logLevel := os.Getenv(EnvLogLevel); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	c.Post.Visibility = strings.ToUpper(strings.TrimSpace(c.Post.Visibility))

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".lipost.yaml",
		".lipost.yml",
		filepath.Join(home, ".config", "lipost", "config.yaml"),
		filepath.Join(home, ".config", "lipost", "config.yml"),
		filepath.Join(home, ".lipost.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid. A missing token is not an
// error here: it may still come from a token store.
func (c *Config) Validate() error {
	var errs []error

	if c.LinkedIn.BaseURL == "" {
		errs = append(errs, errors.New("LinkedIn base URL is required"))
	} else if !strings.HasPrefix(c.LinkedIn.BaseURL, "http://") && !strings.HasPrefix(c.LinkedIn.BaseURL, "https://") {
		errs = append(errs, fmt.Errorf("LinkedIn base URL must be http(s): %q", c.LinkedIn.BaseURL))
	}

	if strings.TrimSpace(c.Upload.ImageTitle) == "" {
		errs = append(errs, errors.New("image title is required"))
	}

	validVisibility := map[string]bool{"PUBLIC": true, "CONNECTIONS": true}
	if !validVisibility[strings.ToUpper(c.Post.Visibility)] {
		errs = append(errs, fmt.Errorf("invalid post visibility: %q", c.Post.Visibility))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file. The token is never written.
func (c *Config) Save(path string) error {
	out := *c
	out.LinkedIn.Token = ""

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if token, ok := flags["token"].(string); ok && token != "" {
		c.LinkedIn.Token = token
	}
	if baseURL, ok := flags["base-url"].(string); ok && baseURL != "" {
		c.LinkedIn.BaseURL = baseURL
	}
	if strict, ok := flags["strict-uploads"].(bool); ok {
		c.Upload.StrictUploads = strict
	}
	if visibility, ok := flags["visibility"].(string); ok && visibility != "" {
		c.Post.Visibility = strings.ToUpper(visibility)
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".lipost.env"))

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
