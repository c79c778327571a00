package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPrefixSentinel sorts after ASCII letters, digits, space, '\'' and
// '-', which is the alphabet expected in last names. Prefix scans use it as
// the inclusive upper bound of the search window.
const DefaultPrefixSentinel = "~"

type Config struct {
	Server ServerConfig `yaml:"server"`
	Index  IndexConfig  `yaml:"index"`
	Seed   SeedConfig   `yaml:"seed"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Addr    string `yaml:"addr"`     // HTTP Listen Address (e.g. :8080)
	TCPAddr string `yaml:"tcp_addr"` // TCP Listen Address (e.g. :9090)
}

type IndexConfig struct {
	Kind           string `yaml:"kind"`   // "bst" or "btree"
	Degree         int    `yaml:"degree"` // btree only
	PrefixSentinel string `yaml:"prefix_sentinel"`
}

type SeedConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"` // "csv" | "sqlite"; inferred from the extension when empty
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:    ":8080",
			TCPAddr: ":9090",
		},
		Index: IndexConfig{
			Kind:           "bst",
			Degree:         32,
			PrefixSentinel: DefaultPrefixSentinel,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath == "" {
		for _, p := range []string{"configs/indexdb.yaml", "indexdb.yaml"} {
			data, err := os.ReadFile(p)
			if err == nil {
				if err := yaml.Unmarshal(data, cfg); err != nil {
					return cfg, fmt.Errorf("parse %s: %w", p, err)
				}
				applyDefaults(cfg)
				return cfg, nil
			}
		}
		applyDefaults(cfg)
		return cfg, nil // no file found: use defaults
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", configPath, err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	switch strings.ToLower(cfg.Index.Kind) {
	case "bst", "btree":
		cfg.Index.Kind = strings.ToLower(cfg.Index.Kind)
	default:
		cfg.Index.Kind = "bst"
	}
	if cfg.Index.Degree < 2 {
		cfg.Index.Degree = 32
	}
	if cfg.Index.PrefixSentinel == "" {
		cfg.Index.PrefixSentinel = DefaultPrefixSentinel
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.TCPAddr == "" {
		cfg.Server.TCPAddr = ":9090"
	}
}
