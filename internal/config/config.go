package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Simulation  SimulationConfig  `mapstructure:"simulation"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Development DevelopmentConfig `mapstructure:"development"`
}

// SimulationConfig holds simulation mechanics configuration
type SimulationConfig struct {
	MaxTurns  int             `mapstructure:"max_turns"`
	Seed      int64           `mapstructure:"seed"`
	Influence InfluenceConfig `mapstructure:"influence"`
	Movement  MovementConfig  `mapstructure:"movement"`
	Map       MapConfig       `mapstructure:"map"`
}

// InfluenceConfig holds propagation constants
type InfluenceConfig struct {
	FlagPressure      int `mapstructure:"flag_pressure"`
	SmoothingDivisor  int `mapstructure:"smoothing_divisor"`
	AdvancementFactor int `mapstructure:"advancement_factor"`
	UpkeepDivisor     int `mapstructure:"upkeep_divisor"`
}

// MovementConfig holds path planning and execution settings
type MovementConfig struct {
	OccupiedCostMultiplier int  `mapstructure:"occupied_cost_multiplier"`
	MoveCostPerTurn        int  `mapstructure:"move_cost_per_turn"`
	ArmiesInvadeAtWar      bool `mapstructure:"armies_invade_at_war"`
}

// MapConfig holds demo map generation settings
type MapConfig struct {
	Width             int     `mapstructure:"width"`
	Height            int     `mapstructure:"height"`
	Empires           int     `mapstructure:"empires"`
	CitiesPerEmpire   int     `mapstructure:"cities_per_empire"`
	CapitalPower      int     `mapstructure:"capital_power"`
	CityPower         int     `mapstructure:"city_power"`
	MinCapitalSpacing int     `mapstructure:"min_capital_spacing"`
	SeaLevel          float64 `mapstructure:"sea_level"`
	MountainLevel     float64 `mapstructure:"mountain_level"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DevelopmentConfig holds development/debug settings
type DevelopmentConfig struct {
	VerboseLogging bool `mapstructure:"verbose_logging"`
	RenderEvery    int  `mapstructure:"render_every"`
	Color          bool `mapstructure:"color"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("simulation.max_turns", 200)
	v.SetDefault("simulation.seed", 0)

	// Influence defaults
	v.SetDefault("simulation.influence.flag_pressure", 10)
	v.SetDefault("simulation.influence.smoothing_divisor", 10)
	v.SetDefault("simulation.influence.advancement_factor", 10)
	v.SetDefault("simulation.influence.upkeep_divisor", 10)

	// Movement defaults
	v.SetDefault("simulation.movement.occupied_cost_multiplier", 2)
	v.SetDefault("simulation.movement.move_cost_per_turn", 10)
	v.SetDefault("simulation.movement.armies_invade_at_war", false)

	// Map defaults
	v.SetDefault("simulation.map.width", 24)
	v.SetDefault("simulation.map.height", 16)
	v.SetDefault("simulation.map.empires", 2)
	v.SetDefault("simulation.map.cities_per_empire", 1)
	v.SetDefault("simulation.map.capital_power", 20)
	v.SetDefault("simulation.map.city_power", 8)
	v.SetDefault("simulation.map.min_capital_spacing", 8)
	v.SetDefault("simulation.map.sea_level", 0.30)
	v.SetDefault("simulation.map.mountain_level", 0.78)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Development defaults
	v.SetDefault("development.verbose_logging", false)
	v.SetDefault("development.render_every", 0)
	v.SetDefault("development.color", true)
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/shape-of-things")
	}

	// Set environment variable prefix
	v.SetEnvPrefix("SOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath == "" && !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// A missing file falls back to defaults
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		// Initialize with defaults if not already initialized
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig loads environment-specific config overlay
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)

	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode merged config into struct: %w", err)
	}

	return Validate(cfg)
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	v.Set(key, value)
	// Re-unmarshal to update struct
	_ = v.Unmarshal(cfg)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. A reloaded config
// that fails validation is reported through onError and not applied.
func WatchConfig(onChange func(*Config), onError func(error)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		err := v.Unmarshal(next)
		if err == nil {
			err = Validate(next)
		}
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("reload %s: %w", e.Name, err))
			}
			return
		}
		cfg = next
		if onChange != nil {
			onChange(next)
		}
	})
	v.WatchConfig()
}

// Validate validates the configuration values
func Validate(c *Config) error {
	s := c.Simulation
	if s.MaxTurns < 0 {
		return fmt.Errorf("simulation.max_turns must be non-negative")
	}

	inf := s.Influence
	if inf.FlagPressure < 0 {
		return fmt.Errorf("simulation.influence.flag_pressure must be non-negative")
	}
	if inf.SmoothingDivisor <= 0 {
		return fmt.Errorf("simulation.influence.smoothing_divisor must be positive")
	}
	if inf.AdvancementFactor <= 0 {
		return fmt.Errorf("simulation.influence.advancement_factor must be positive")
	}
	if inf.UpkeepDivisor <= 0 {
		return fmt.Errorf("simulation.influence.upkeep_divisor must be positive")
	}

	if s.Movement.OccupiedCostMultiplier < 1 {
		return fmt.Errorf("simulation.movement.occupied_cost_multiplier must be at least 1")
	}
	if s.Movement.MoveCostPerTurn <= 0 {
		return fmt.Errorf("simulation.movement.move_cost_per_turn must be positive")
	}

	m := s.Map
	if m.Width < 3 || m.Height < 3 {
		return fmt.Errorf("simulation.map dimensions must be at least 3")
	}
	if m.Empires < 1 {
		return fmt.Errorf("simulation.map.empires must be at least 1")
	}
	if m.CitiesPerEmpire < 0 || m.CapitalPower < 0 || m.CityPower < 0 {
		return fmt.Errorf("simulation.map city counts and powers must be non-negative")
	}
	if m.MinCapitalSpacing < 1 {
		return fmt.Errorf("simulation.map.min_capital_spacing must be at least 1")
	}
	if m.SeaLevel < 0 || m.MountainLevel > 1 || m.SeaLevel >= m.MountainLevel {
		return fmt.Errorf("simulation.map levels must satisfy 0 <= sea_level < mountain_level <= 1")
	}

	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not a known level", c.Logging.Level)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be console or json")
	}

	if c.Development.RenderEvery < 0 {
		return fmt.Errorf("development.render_every must be non-negative")
	}

	return nil
}
