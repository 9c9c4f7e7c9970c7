// Package config loads and validates the simulation's tunables. It follows
// _examples/niceyeti-tabular/tabular/reinforcement/learning.go's viper-based
// YAML loading and _examples/GoCodeAlone-EvoSim/config.go's nested-struct +
// Default()/Validate() shape.
package config

import (
	"fmt"

	"github.com/sitegui/nature-pixel/internal/apierr"
	"github.com/spf13/viper"
)

// WaterConfig holds the eleven water tunables of spec.md §4.4/§4.5/§6.
type WaterConfig struct {
	Thickness              int     `mapstructure:"water_thickness" yaml:"water_thickness"`
	FlowMaxRadius          int     `mapstructure:"water_flow_max_radius" yaml:"water_flow_max_radius"`
	FlowTickSeconds        float64 `mapstructure:"water_flow_tick_seconds" yaml:"water_flow_tick_seconds"`
	EvaporationRatio       float64 `mapstructure:"water_evaporation_ratio" yaml:"water_evaporation_ratio"`
	EvaporationTickSeconds float64 `mapstructure:"water_evaporation_tick_seconds" yaml:"water_evaporation_tick_seconds"`
	RainRatio              float64 `mapstructure:"water_rain_ratio" yaml:"water_rain_ratio"`
	RainTickSeconds        float64 `mapstructure:"water_rain_tick_seconds" yaml:"water_rain_tick_seconds"`
	MinCycleSeconds        float64 `mapstructure:"water_min_cycle_seconds" yaml:"water_min_cycle_seconds"`
	MaxCycleSeconds        float64 `mapstructure:"water_max_cycle_seconds" yaml:"water_max_cycle_seconds"`
	MaxRainRadius          int     `mapstructure:"water_max_rain_radius" yaml:"water_max_rain_radius"`
	InAtmosphereRatio      float64 `mapstructure:"water_in_atmosphere_ratio" yaml:"water_in_atmosphere_ratio"`
}

// AgentConfig holds the tunables shared by the simple-animal engine
// (insect and amphibian each get their own instance).
type AgentConfig struct {
	TickSeconds            float64 `mapstructure:"tick_seconds" yaml:"tick_seconds"`
	EatingRadius           int     `mapstructure:"eating_radius" yaml:"eating_radius"`
	MatingRadius           int     `mapstructure:"mating_radius" yaml:"mating_radius"`
	DestinationRadius      int     `mapstructure:"destination_radius" yaml:"destination_radius"`
	StarvationDelaySeconds float64 `mapstructure:"starvation_delay_seconds" yaml:"starvation_delay_seconds"`
}

// SnakeSpeciesConfig holds the per-species tunables of spec.md §6.
type SnakeSpeciesConfig struct {
	MaxSize   int     `mapstructure:"max_size" yaml:"max_size"`
	MoveRatio float64 `mapstructure:"move_ratio" yaml:"move_ratio"`
}

// SnakeConfig holds the snake-engine tunables.
type SnakeConfig struct {
	MinSize                int                `mapstructure:"min_size" yaml:"min_size"`
	EatingRadius           int                `mapstructure:"eating_radius" yaml:"eating_radius"`
	StarvationDelaySeconds float64            `mapstructure:"starvation_delay_seconds" yaml:"starvation_delay_seconds"`
	TickSeconds            float64            `mapstructure:"tick_seconds" yaml:"tick_seconds"`
	A                      SnakeSpeciesConfig `mapstructure:"a" yaml:"a"`
	B                      SnakeSpeciesConfig `mapstructure:"b" yaml:"b"`
	C                      SnakeSpeciesConfig `mapstructure:"c" yaml:"c"`
}

// Config is the complete, validated configuration for a running simulation.
type Config struct {
	Port               int     `mapstructure:"port" yaml:"port"`
	MapSize            int     `mapstructure:"map_size" yaml:"map_size"`
	HeightMap          string  `mapstructure:"height_map" yaml:"height_map"`
	LongPollingSeconds float64 `mapstructure:"long_pooling_seconds" yaml:"long_pooling_seconds"`
	AssetsDir          string  `mapstructure:"assets_dir" yaml:"assets_dir"`

	Water     WaterConfig `mapstructure:"water" yaml:"water"`
	Insect    AgentConfig `mapstructure:"insect" yaml:"insect"`
	Amphibian AgentConfig `mapstructure:"amphibian" yaml:"amphibian"`
	Snake     SnakeConfig `mapstructure:"snake" yaml:"snake"`
}

// Default returns a fully populated configuration with reasonable defaults,
// the way _examples/GoCodeAlone-EvoSim/config.go's DefaultSimulationConfig does.
func Default() *Config {
	return &Config{
		Port:               8080,
		MapSize:            100,
		HeightMap:          "height_map.png",
		LongPollingSeconds: 30,
		AssetsDir:          "web",
		Water: WaterConfig{
			Thickness:              1,
			FlowMaxRadius:          3,
			FlowTickSeconds:        1,
			EvaporationRatio:       0.05,
			EvaporationTickSeconds: 2,
			RainRatio:              0.05,
			RainTickSeconds:        2,
			MinCycleSeconds:        60,
			MaxCycleSeconds:        300,
			MaxRainRadius:          10,
			InAtmosphereRatio:      0.1,
		},
		Insect: AgentConfig{
			TickSeconds:            1,
			EatingRadius:           1,
			MatingRadius:           3,
			DestinationRadius:      5,
			StarvationDelaySeconds: 30,
		},
		Amphibian: AgentConfig{
			TickSeconds:            1,
			EatingRadius:           2,
			MatingRadius:           4,
			DestinationRadius:      6,
			StarvationDelaySeconds: 45,
		},
		Snake: SnakeConfig{
			MinSize:                3,
			EatingRadius:           2,
			StarvationDelaySeconds: 60,
			TickSeconds:            1,
			A:                      SnakeSpeciesConfig{MaxSize: 5, MoveRatio: 1.0},
			B:                      SnakeSpeciesConfig{MaxSize: 8, MoveRatio: 0.7},
			C:                      SnakeSpeciesConfig{MaxSize: 12, MoveRatio: 0.5},
		},
	}
}

// Load reads a YAML configuration file at path into a Config seeded with
// Default()'s values, validates it, and returns it.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, &apierr.ConfigLoadError{Cause: err}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, &apierr.ConfigLoadError{Cause: err}
	}

	if err := cfg.Validate(); err != nil {
		return nil, &apierr.ConfigLoadError{Cause: err}
	}

	return cfg, nil
}

// Validate reports the first configuration error found, following
// _examples/GoCodeAlone-EvoSim/config.go's Validate() style.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in (0, 65535], got %d", c.Port)
	}
	if c.MapSize <= 0 {
		return fmt.Errorf("map_size must be positive, got %d", c.MapSize)
	}
	if c.HeightMap == "" {
		return fmt.Errorf("height_map path must not be empty")
	}
	if c.LongPollingSeconds <= 0 {
		return fmt.Errorf("long_pooling_seconds must be positive, got %f", c.LongPollingSeconds)
	}
	if c.Water.Thickness <= 0 {
		return fmt.Errorf("water.thickness must be positive, got %d", c.Water.Thickness)
	}
	if c.Water.FlowMaxRadius <= 0 {
		return fmt.Errorf("water.flow_max_radius must be positive, got %d", c.Water.FlowMaxRadius)
	}
	if c.Water.EvaporationRatio <= 0 || c.Water.EvaporationRatio >= 1 {
		return fmt.Errorf("water.evaporation_ratio must be in (0,1), got %f", c.Water.EvaporationRatio)
	}
	if c.Water.RainRatio <= 0 || c.Water.RainRatio >= 1 {
		return fmt.Errorf("water.rain_ratio must be in (0,1), got %f", c.Water.RainRatio)
	}
	if c.Water.MinCycleSeconds <= 0 || c.Water.MaxCycleSeconds < c.Water.MinCycleSeconds {
		return fmt.Errorf("water.min_cycle_seconds/max_cycle_seconds must be positive and ordered")
	}
	if err := c.Insect.validate("insect"); err != nil {
		return err
	}
	if err := c.Amphibian.validate("amphibian"); err != nil {
		return err
	}
	if c.Snake.MinSize <= 0 {
		return fmt.Errorf("snake.min_size must be positive, got %d", c.Snake.MinSize)
	}
	for name, s := range map[string]SnakeSpeciesConfig{"a": c.Snake.A, "b": c.Snake.B, "c": c.Snake.C} {
		if s.MaxSize < c.Snake.MinSize {
			return fmt.Errorf("snake.%s.max_size (%d) must be >= snake.min_size (%d)", name, s.MaxSize, c.Snake.MinSize)
		}
		if s.MoveRatio < 0 || s.MoveRatio > 1 {
			return fmt.Errorf("snake.%s.move_ratio must be in [0,1], got %f", name, s.MoveRatio)
		}
	}
	return nil
}

func (a AgentConfig) validate(name string) error {
	if a.TickSeconds <= 0 {
		return fmt.Errorf("%s.tick_seconds must be positive, got %f", name, a.TickSeconds)
	}
	if a.EatingRadius < 0 || a.MatingRadius < 0 || a.DestinationRadius < 0 {
		return fmt.Errorf("%s radii must be non-negative", name)
	}
	if a.StarvationDelaySeconds < 0 {
		return fmt.Errorf("%s.starvation_delay_seconds must be non-negative, got %f", name, a.StarvationDelaySeconds)
	}
	return nil
}
