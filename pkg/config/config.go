package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

const (
	DefaultPort         = "3001"
	DefaultHost         = "localhost"
	DefaultCorpusPath   = "completeworks.txt"
	DefaultContextBytes = 250
	DefaultPageSize     = 20
	DefaultMaxPageSize  = 100
	DefaultEndpoint     = "http://localhost:3001"
	DefaultTimeout      = 10 * time.Second
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Corpus   CorpusConfig   `toml:"corpus"`
	Search   SearchConfig   `toml:"search"`
	QueryLog QueryLogConfig `toml:"querylog"`
	Client   ClientConfig   `toml:"client"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
}

type CorpusConfig struct {
	Path         string `toml:"path"`
	ContextBytes int    `toml:"context_bytes"`
	Watch        bool   `toml:"watch"`
}

type SearchConfig struct {
	PageSize    int `toml:"page_size"`
	MaxPageSize int `toml:"max_page_size"`
}

type QueryLogConfig struct {
	// Path of the SQLite query log. Empty disables recording.
	Path string `toml:"path"`
}

type ClientConfig struct {
	Endpoint     string   `toml:"endpoint"`
	Timeout      Duration `toml:"timeout"`
	DiscardStale bool     `toml:"discard_stale"`
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

func GetDefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads the TOML file at configPath. A missing file yields the
// defaults. The PORT environment variable overrides server.port.
func LoadConfig(configPath string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshaling config: %w", err)
		}
	}

	cfg.applyDefaults()

	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == "" {
		c.Server.Port = DefaultPort
	}
	if c.Corpus.Path == "" {
		c.Corpus.Path = DefaultCorpusPath
	}
	if c.Corpus.ContextBytes <= 0 {
		c.Corpus.ContextBytes = DefaultContextBytes
	}
	if c.Search.PageSize <= 0 {
		c.Search.PageSize = DefaultPageSize
	}
	if c.Search.MaxPageSize <= 0 {
		c.Search.MaxPageSize = DefaultMaxPageSize
	}
	if c.Search.PageSize > c.Search.MaxPageSize {
		c.Search.MaxPageSize = c.Search.PageSize
	}
	if c.Client.Endpoint == "" {
		c.Client.Endpoint = DefaultEndpoint
	}
	if c.Client.Timeout.Duration == 0 {
		c.Client.Timeout = Duration{DefaultTimeout}
	}
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// SaveTemplateConfig writes the commented sample configuration, pointing the
// query log at the default data directory.
func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	dataDir, err := GetDefaultStorageDir()
	if err != nil {
		return fmt.Errorf("getting default storage directory: %w", err)
	}

	template := strings.Replace(configTemplate, "/home/user/.local/share/shakesearch", dataDir, 1)
	return os.WriteFile(configPath, []byte(template), 0644)
}

// GetDefaultStorageDir returns the data directory used for the query log.
func GetDefaultStorageDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	dir := filepath.Join(dataDir, "shakesearch")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating storage directory %s: %w", dir, err)
	}

	return dir, nil
}

// GetConfigDir returns the configuration directory, creating it if needed.
func GetConfigDir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	dir := filepath.Join(configDir, "shakesearch")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	return dir, nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
