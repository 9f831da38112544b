package viewer

import (
	"fmt"
	"os"

	"github.com/stewi1014/dualfractal/kernel"
	"github.com/stewi1014/dualfractal/programs"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth      = 1200
	DefaultHeight     = 800
	DefaultResolution = 10
	DefaultProgram    = "escape"
	DefaultLogLevel   = "info"
)

type Config struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Program    string     `yaml:"program"`
	Mode       string     `yaml:"mode"`
	Resolution int        `yaml:"resolution"`
	Iterations int        `yaml:"iterations"`
	Center     [2]float64 `yaml:"center"`
	Scale      float64    `yaml:"scale"`
	MoveSpeed  float64    `yaml:"move_speed"`
	ZoomSpeed  float64    `yaml:"zoom_speed"`

	// Escape bounds |z|^2 in the escape program; zero leaves it unbounded.
	Escape float64 `yaml:"escape"`

	// Seed is added to the julia programs' built-in seed.
	Seed [2]float64 `yaml:"seed"`

	Workers  int    `yaml:"workers"`
	LogLevel string `yaml:"log_level"`
	HUD      bool   `yaml:"hud"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Program:    DefaultProgram,
		Mode:       kernel.Accelerated.String(),
		Resolution: DefaultResolution,
		Iterations: programs.DefaultIterations,
		Scale:      1,
		MoveSpeed:  programs.DefaultMoveSpeed,
		ZoomSpeed:  programs.DefaultZoomSpeed,
		LogLevel:   DefaultLogLevel,
		HUD:        true,
	}
}

// Load reads a yaml config, filling unset fields from DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %v: %w", path, err)
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
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid size %vx%v", c.Width, c.Height)
	}
	if _, err := kernel.ParseMode(c.Mode); err != nil {
		return err
	}
	if c.Resolution < 1 {
		return fmt.Errorf("%w: got %v", kernel.ErrInvalidResolution, c.Resolution)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("iteration count must be at least 1, got %v", c.Iterations)
	}
	if c.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %v", c.Scale)
	}
	if c.Escape < 0 {
		return fmt.Errorf("escape threshold must not be negative, got %v", c.Escape)
	}
	if _, err := programs.Lookup(c.Program); err != nil {
		return err
	}
	return nil
}
