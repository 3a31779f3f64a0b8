package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const appDirName = "msfs-dashboard"

// Config is the startup configuration, read from the YAML file given with -c
// and layered over DefaultConfig.
type Config struct {
	Host    string        `yaml:"host"` // "simconnect" or "demo"
	Log     LogConfig     `yaml:"log"`
	Session SessionConfig `yaml:"session"`
	Feed    FeedConfig    `yaml:"feed"`
	Storage StorageConfig `yaml:"storage"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

type FeedConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type StorageConfig struct {
	Path           string        `yaml:"path"`
	SampleInterval time.Duration `yaml:"sampleInterval"`
}

// appConfigDir is where settings, logs and the recording database live.
func appConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, appDirName)
}

func DefaultConfig() *Config {
	dir := appConfigDir()
	return &Config{
		Host: "simconnect",
		Log: LogConfig{
			Level: "info",
			Dir:   dir,
		},
		Session: DefaultSessionConfig(),
		Feed: FeedConfig{
			Addr: "127.0.0.1:49880",
		},
		Storage: StorageConfig{
			Path:           filepath.Join(dir, "telemetry.db"),
			SampleInterval: time.Second,
		},
	}
}

// LoadConfig reads a YAML file over the defaults. An empty path yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := newHostTransport(c.Host); err != nil {
		return err
	}
	if c.Session.ClientName == "" {
		return fmt.Errorf("session.clientName is empty")
	}
	if c.Session.DispatchInterval <= 0 {
		return fmt.Errorf("session.dispatchInterval must be positive, got %s", c.Session.DispatchInterval)
	}
	if c.Storage.SampleInterval <= 0 {
		return fmt.Errorf("storage.sampleInterval must be positive, got %s", c.Storage.SampleInterval)
	}
	if c.Feed.Enabled && c.Feed.Addr == "" {
		return fmt.Errorf("feed.addr is required when the feed is enabled")
	}
	return nil
}

func newHostTransport(name string) (HostTransport, error) {
	switch name {
	case "simconnect", "":
		return NewSimConnectTransport(), nil
	case "demo":
		return NewDemoTransport(), nil
	default:
		return nil, fmt.Errorf("unknown host %q", name)
	}
}
