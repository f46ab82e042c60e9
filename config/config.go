package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/CIDgravity/snakelet"
)

// config structure
type Config struct {
	API    APIConfig    `mapstructure:"API"`
	Github GithubConfig `mapstructure:"GITHUB"`
	Tasks  TasksConfig  `mapstructure:"TASKS"`
	Logs   LogsConfig   `mapstructure:"LOGS"`
	Theme  ThemeConfig  `mapstructure:"THEME"`
	Store  StoreConfig  `mapstructure:"STORE"`
	Export ExportConfig `mapstructure:"EXPORT"`
}

type APIConfig struct {
	ListenPort   string `mapstructure:"ListenPort"`
	PageTemplate string `mapstructure:"PageTemplate"` // optional html page replacing the built-in one
}

type GithubConfig struct {
	Username         string `mapstructure:"Username"`
	BaseURL          string `mapstructure:"BaseURL"`          // empty means api.github.com
	RateLimitPerHour int    `mapstructure:"RateLimitPerHour"` // used when github rate limits can't be loaded at startup
}

type TasksConfig struct {
	MaxParallelTasksAllowed int `mapstructure:"MaxParallelTasksAllowed"`
}

type LogsConfig struct {
	Level            string `mapstructure:"Level"` // error | warn | info | debug - case insensitive
	OutputLogsAsJSON bool   `mapstructure:"OutputLogsAsJson"`
}

type ThemeConfig struct {
	SecureCookie bool `mapstructure:"SecureCookie"`
	PreferDark   bool `mapstructure:"PreferDark"` // platform signal for the export command
}

type StoreConfig struct {
	Path string `mapstructure:"Path"`
}

type ExportConfig struct {
	OutputDir string `mapstructure:"OutputDir"`
}

// Load reads config/config.toml next to the binary, then from the working directory
func Load() (*Config, error) {
	dir, err := filepath.Abs(filepath.Dir(os.Args[0]))

	if err != nil {
		return nil, err
	}

	// check config file exists
	configFilePath := dir + "/config/config.toml"

	if _, err := os.Stat(configFilePath); errors.Is(err, os.ErrNotExist) {
		if _, err := os.Stat("config/config.toml"); errors.Is(err, os.ErrNotExist) {
			return nil, err
		} else {
			configFilePath = "config/config.toml"
		}
	}

	return LoadFile(configFilePath)
}

// LoadFile loads defaults then overrides them with the given file content
func LoadFile(configFilePath string) (*Config, error) {
	cfg := GetDefault()
	_, err := snakelet.InitAndLoad(cfg, configFilePath)

	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// GetDefault
func GetDefault() *Config {
	return &Config{
		API: APIConfig{
			ListenPort: "5000",
		},
		Github: GithubConfig{
			Username:         "octocat",
			RateLimitPerHour: 60,
		},
		Tasks: TasksConfig{
			MaxParallelTasksAllowed: 4,
		},
		Logs: LogsConfig{
			Level:            "debug",
			OutputLogsAsJSON: false,
		},
		Theme: ThemeConfig{
			SecureCookie: false,
			PreferDark:   false,
		},
		Store: StoreConfig{
			Path: "data/preferences.db",
		},
		Export: ExportConfig{
			OutputDir: "public",
		},
	}
}
