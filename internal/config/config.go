package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDataDir     = ".dynseq"
	DefaultLogLevel    = "info"
	DefaultGrowthN     = 64
	DefaultBenchRounds = 5
	DefaultFrameWidth  = 64
)

type Config struct {
	DataDir  string       `yaml:"data_dir"`
	LogLevel string       `yaml:"log_level"`
	Vector   VectorConfig `yaml:"vector"`
	Growth   GrowthConfig `yaml:"growth"`
	Bench    BenchConfig  `yaml:"bench"`
	Viewer   ViewerConfig `yaml:"viewer"`
}

type VectorConfig struct {
	InitialCapacity int `yaml:"initial_capacity"`
	Limit           int `yaml:"limit"`
}

type GrowthConfig struct {
	Appends int `yaml:"appends"`
}

type BenchConfig struct {
	Sizes  []int `yaml:"sizes"`
	Rounds int   `yaml:"rounds"`
}

type ViewerConfig struct {
	Width int `yaml:"width"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:  DefaultDataDir,
		LogLevel: DefaultLogLevel,
		Growth:   GrowthConfig{Appends: DefaultGrowthN},
		Bench: BenchConfig{
			Sizes:  []int{1_000, 10_000, 100_000},
			Rounds: DefaultBenchRounds,
		},
		Viewer: ViewerConfig{Width: DefaultFrameWidth},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Vector.InitialCapacity < 0 {
		return fmt.Errorf("vector.initial_capacity must not be negative")
	}
	if c.Vector.Limit < 0 {
		return fmt.Errorf("vector.limit must not be negative")
	}
	if c.Vector.Limit > 0 && c.Vector.InitialCapacity > c.Vector.Limit {
		return fmt.Errorf("vector.initial_capacity %d exceeds limit %d", c.Vector.InitialCapacity, c.Vector.Limit)
	}
	if c.Growth.Appends <= 0 {
		return fmt.Errorf("growth.appends must be positive")
	}
	for _, n := range c.Bench.Sizes {
		if n <= 0 {
			return fmt.Errorf("bench.sizes must be positive, got %d", n)
		}
	}
	if c.Bench.Rounds <= 0 {
		return fmt.Errorf("bench.rounds must be positive")
	}
	return nil
}
