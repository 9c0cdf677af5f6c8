package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	defaultConfigName     = "config.json"
	defaultDatabaseFile   = "client.db"
	defaultLogFile        = "papermc.log"
	defaultBaseURL        = "http://localhost:8080"
	defaultPollInterval   = 10
	defaultReconnectDelay = 3
	defaultToastSeconds   = 3
	defaultLogLevel       = "info"
)

type Config struct {
	BaseURL               string `json:"base_url"`
	PollIntervalSeconds   int    `json:"poll_interval_seconds"`
	ReconnectDelaySeconds int    `json:"reconnect_delay_seconds"`
	ToastSeconds          int    `json:"toast_seconds"`
	DatabasePath          string `json:"database_path"`
	LogPath               string `json:"log_path"`
	LogLevel              string `json:"log_level"`
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

func (c *Config) ReconnectDelay() time.Duration {
	return time.Duration(c.ReconnectDelaySeconds) * time.Second
}

func (c *Config) ToastTTL() time.Duration {
	return time.Duration(c.ToastSeconds) * time.Second
}

func IsDev() bool {
	return os.Getenv("PAPERMC_DEV") == "true"
}

// Dir is the per-user directory holding config, database and log file.
func Dir() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	appName := "papermc"
	if IsDev() {
		appName = "papermc-dev"
	}
	return filepath.Join(userConfigDir, appName), nil
}

func LoadConfig(configDir string) (*Config, error) {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, err
	}

	configPath := filepath.Join(configDir, defaultConfigName)

	var cfg *Config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg, err = createDefaultConfig(configPath, configDir)
		if err != nil {
			return nil, err
		}
	} else {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg = &Config{}
		if err := json.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyDefaults(configDir)
	cfg.applyEnv()
	return cfg, nil
}

func defaults(configDir string) Config {
	return Config{
		BaseURL:               defaultBaseURL,
		PollIntervalSeconds:   defaultPollInterval,
		ReconnectDelaySeconds: defaultReconnectDelay,
		ToastSeconds:          defaultToastSeconds,
		DatabasePath:          filepath.Join(configDir, defaultDatabaseFile),
		LogPath:               filepath.Join(configDir, defaultLogFile),
		LogLevel:              defaultLogLevel,
	}
}

func (c *Config) applyDefaults(configDir string) {
	d := defaults(configDir)
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.PollIntervalSeconds <= 0 {
		c.PollIntervalSeconds = d.PollIntervalSeconds
	}
	if c.ReconnectDelaySeconds <= 0 {
		c.ReconnectDelaySeconds = d.ReconnectDelaySeconds
	}
	if c.ToastSeconds <= 0 {
		c.ToastSeconds = d.ToastSeconds
	}
	if c.DatabasePath == "" {
		c.DatabasePath = d.DatabasePath
	}
	if c.LogPath == "" {
		c.LogPath = d.LogPath
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PAPERMC_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("PAPERMC_POLL_INTERVAL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			log.Printf("Ignoring PAPERMC_POLL_INTERVAL=%q: must be a positive number of seconds", v)
		} else {
			c.PollIntervalSeconds = n
		}
	}
	if v := os.Getenv("PAPERMC_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

func createDefaultConfig(configPath, configDir string) (*Config, error) {
	cfg := defaults(configDir)

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return nil, err
	}

	return &cfg, nil
}
