// Package config loads server configuration, the Go-native (YAML) stand-in
// for the original server's hand-rolled INI reader: defaults mirror
// config_init, and Load/Normalize mirror config_load's validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig mirrors the original server_config fields, renamed to Go
// conventions, plus the CGI script timeout this port adds.
type ServerConfig struct {
	Port                     string `yaml:"port"`
	DocumentRoot             string `yaml:"document_root"`
	CGIBinPath               string `yaml:"cgi_bin_path"`
	ServerName               string `yaml:"server_name"`
	DynamicDirName           string `yaml:"dynamic_dir_name"`
	StaticDirName            string `yaml:"static_dir_name"`
	ConnectionTimeoutSeconds int    `yaml:"connection_timeout_seconds"`
	CGITimeoutSeconds        int    `yaml:"cgi_timeout_seconds"`
	EnableLogging            bool   `yaml:"enable_logging"`
}

// Default returns the built-in defaults, equivalent to config_init.
func Default() *ServerConfig {
	return &ServerConfig{
		Port:                     "8080",
		DocumentRoot:             "./public",
		CGIBinPath:               "./public/cgi-bin",
		ServerName:               "cgiserve/1.0",
		DynamicDirName:           "cgi-bin",
		StaticDirName:            "static",
		ConnectionTimeoutSeconds: 60,
		CGITimeoutSeconds:        10,
		EnableLogging:            true,
	}
}

// Load reads and decodes a YAML config file over top of Default, then
// normalizes and validates the result. A plain int is used for the two
// durations instead of time.Duration because yaml.v3 decodes a scalar
// integer into a time.Duration field as raw nanoseconds, not seconds,
// which would silently turn "60" into 60ns.
func Load(path string) (*ServerConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize trims trailing slashes from path-like fields (config_load
// did the equivalent by always appending its own separator) and rejects
// configurations missing a required field.
func (c *ServerConfig) normalize() error {
	c.DocumentRoot = strings.TrimRight(c.DocumentRoot, "/")
	c.CGIBinPath = strings.TrimRight(c.CGIBinPath, "/")

	if c.Port == "" {
		return fmt.Errorf("config: port must not be empty")
	}
	if c.DocumentRoot == "" {
		return fmt.Errorf("config: document_root must not be empty")
	}
	if c.DynamicDirName == "" {
		return fmt.Errorf("config: dynamic_dir_name must not be empty")
	}
	if c.ConnectionTimeoutSeconds <= 0 {
		return fmt.Errorf("config: connection_timeout_seconds must be positive")
	}
	if !filepath.IsAbs(c.DocumentRoot) {
		abs, err := filepath.Abs(c.DocumentRoot)
		if err != nil {
			return fmt.Errorf("config: resolving document_root: %w", err)
		}
		c.DocumentRoot = abs
	}
	if !filepath.IsAbs(c.CGIBinPath) {
		abs, err := filepath.Abs(c.CGIBinPath)
		if err != nil {
			return fmt.Errorf("config: resolving cgi_bin_path: %w", err)
		}
		c.CGIBinPath = abs
	}
	return nil
}

// ConnectionTimeout converts ConnectionTimeoutSeconds to a time.Duration.
func (c *ServerConfig) ConnectionTimeout() time.Duration {
	return time.Duration(c.ConnectionTimeoutSeconds) * time.Second
}

// CGITimeout converts CGITimeoutSeconds to a time.Duration; zero disables
// the CGI script watchdog entirely.
func (c *ServerConfig) CGITimeout() time.Duration {
	if c.CGITimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.CGITimeoutSeconds) * time.Second
}
