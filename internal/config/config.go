package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/knapviz/internal/knapsack"
)

const (
	DefaultCapacity   = 5
	DefaultDelayMS    = 200
	DefaultTheme      = "cyberpunk"
	DefaultStylesheet = "visualisation.css"
	DefaultGap        = 2.0
	DefaultAddr       = "localhost:8080"

	// MaxDelayMS caps parsed delays at one minute per step.
	MaxDelayMS = 60_000
)

type Config struct {
	Capacity   int         `yaml:"capacity"`
	Weights    []int       `yaml:"weights"`
	Prices     []int       `yaml:"prices"`
	DelayMS    int         `yaml:"delay_ms"`
	Theme      string      `yaml:"theme"`
	Stylesheet string      `yaml:"stylesheet"`
	Gap        float64     `yaml:"gap"`
	Serve      ServeConfig `yaml:"serve"`
}

type ServeConfig struct {
	Addr string `yaml:"addr"`
}

func DefaultConfig() *Config {
	return &Config{
		Capacity:   DefaultCapacity,
		Weights:    []int{2, 3, 4, 5},
		Prices:     []int{3, 4, 5, 6},
		DelayMS:    DefaultDelayMS,
		Theme:      DefaultTheme,
		Stylesheet: DefaultStylesheet,
		Gap:        DefaultGap,
		Serve:      ServeConfig{Addr: DefaultAddr},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
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

// Delay is the pacing delay between animation steps.
func (c *Config) Delay() time.Duration {
	return time.Duration(c.DelayMS) * time.Millisecond
}

// Clone returns a deep copy, so presets can be customised safely.
func (c *Config) Clone() *Config {
	out := *c
	out.Weights = append([]int(nil), c.Weights...)
	out.Prices = append([]int(nil), c.Prices...)
	return &out
}

// ParseList parses a comma-separated list of positive integers such as
// "2, 3,4".
func ParseList(field, s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []int{}, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("config: %s: entry %d (%q) is not an integer", field, i+1, part)
		}
		if n <= 0 {
			return nil, fmt.Errorf("config: %s: entry %d must be positive, got %d", field, i+1, n)
		}
		out = append(out, n)
	}
	return out, nil
}

// ParseCapacity parses the bag capacity. Zero is accepted and yields an
// empty bag.
func ParseCapacity(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("config: capacity %q is not an integer", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("config: capacity must not be negative, got %d", n)
	}
	if n >= knapsack.MaxCells {
		return 0, fmt.Errorf("config: capacity must be below %d, got %d", knapsack.MaxCells, n)
	}
	return n, nil
}

// ParseDelay parses a finite millisecond delay. Negative values are clamped
// to zero and large ones to MaxDelayMS.
func ParseDelay(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("config: delay %q is not a number", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("config: delay %q is not a number", s)
	}
	if f < 0 {
		return 0, nil
	}
	if f > MaxDelayMS {
		return MaxDelayMS, nil
	}
	return int(f), nil
}
