package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Game     GameConfig     `mapstructure:"game"`
	Agent    AgentConfig    `mapstructure:"agent"`
	Training TrainingConfig `mapstructure:"training"`
	Play     PlayConfig     `mapstructure:"play"`
	Server   ServerConfig   `mapstructure:"server"`
	UI       UIConfig       `mapstructure:"ui"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// GameConfig holds the starting position
type GameConfig struct {
	InitialPiles []int `mapstructure:"initial_piles"`
}

// AgentConfig holds the learning parameters
type AgentConfig struct {
	Alpha   float64 `mapstructure:"alpha"`
	Epsilon float64 `mapstructure:"epsilon"`
	// Seed of the exploration source; 0 seeds from the clock
	Seed int64 `mapstructure:"seed"`
}

// TrainingConfig holds self-play settings
type TrainingConfig struct {
	Episodes           int           `mapstructure:"episodes"`
	LogEvery           int           `mapstructure:"log_every"`
	ExperienceCapacity int           `mapstructure:"experience_capacity"`
	Rewards            RewardsConfig `mapstructure:"rewards"`
}

// RewardsConfig holds the rewards credited during self-play
type RewardsConfig struct {
	Win  float64 `mapstructure:"win"`
	Lose float64 `mapstructure:"lose"`
	Step float64 `mapstructure:"step"`
}

// PlayConfig holds console play settings
type PlayConfig struct {
	// HumanPlayer is the human's seat, -1 picks one at random
	HumanPlayer int `mapstructure:"human_player"`
	MoveDelayMs int `mapstructure:"move_delay_ms"`
}

// ServerConfig holds gRPC policy server configuration
type ServerConfig struct {
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	EnableReflection      bool   `mapstructure:"enable_reflection"`
	GracefulShutdownDelay int    `mapstructure:"graceful_shutdown_delay"`
	MaxGames              int    `mapstructure:"max_games"`
	MaxPileObjects        int    `mapstructure:"max_pile_objects"`
}

// UIConfig holds UI/client configuration
type UIConfig struct {
	Window        WindowConfig `mapstructure:"window"`
	PileSpacing   int          `mapstructure:"pile_spacing"`
	ObjectSize    int          `mapstructure:"object_size"`
	AIDelayFrames int          `mapstructure:"ai_delay_frames"`
}

// WindowConfig holds window settings
type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("game.initial_piles", []int{1, 3, 5, 7})

	// Agent defaults
	v.SetDefault("agent.alpha", 0.5)
	v.SetDefault("agent.epsilon", 0.1)
	v.SetDefault("agent.seed", 0)

	// Training defaults
	v.SetDefault("training.episodes", 10000)
	v.SetDefault("training.log_every", 1000)
	v.SetDefault("training.experience_capacity", 0)
	v.SetDefault("training.rewards.win", 1.0)
	v.SetDefault("training.rewards.lose", -1.0)
	v.SetDefault("training.rewards.step", 0.0)

	// Console play defaults
	v.SetDefault("play.human_player", -1)
	v.SetDefault("play.move_delay_ms", 1000)

	// gRPC server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 50051)
	v.SetDefault("server.enable_reflection", true)
	v.SetDefault("server.graceful_shutdown_delay", 5)
	v.SetDefault("server.max_games", 100)
	v.SetDefault("server.max_pile_objects", 1000)

	// UI defaults
	v.SetDefault("ui.window.width", 800)
	v.SetDefault("ui.window.height", 600)
	v.SetDefault("ui.window.title", "Nim RL")
	v.SetDefault("ui.pile_spacing", 90)
	v.SetDefault("ui.object_size", 24)
	v.SetDefault("ui.ai_delay_frames", 45)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/nim-rl")
	}

	v.SetEnvPrefix("NIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing file at an explicit path falls back to defaults
		if configPath == "" {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return fmt.Errorf("error reading config file: %w", err)
			}
		}
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
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// LoadEnvironmentConfig merges config.<env>.yaml over the loaded config
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)

	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode merged config into struct: %w", err)
	}

	return Validate(cfg)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. onChange receives
// the active config and the reload error, if any; a file that fails to
// decode or validate leaves the previous values in place.
func WatchConfig(onChange func(c *Config, err error)) {
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		c, err := reload()
		if err != nil {
			err = fmt.Errorf("reload %s: %w", e.Name, err)
		}
		if onChange != nil {
			onChange(c, err)
		}
	})
}

// reload decodes the current viper state into the active config
func reload() (*Config, error) {
	next := &Config{}
	if err := v.Unmarshal(next); err != nil {
		return cfg, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := Validate(next); err != nil {
		return cfg, err
	}
	*cfg = *next
	return cfg, nil
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if len(c.Game.InitialPiles) == 0 {
		return fmt.Errorf("game.initial_piles must not be empty")
	}
	total := 0
	for i, n := range c.Game.InitialPiles {
		if n < 0 {
			return fmt.Errorf("game.initial_piles[%d] must be non-negative", i)
		}
		total += n
	}
	if total == 0 {
		return fmt.Errorf("game.initial_piles must contain at least one object")
	}

	if c.Agent.Alpha <= 0 || c.Agent.Alpha > 1 {
		return fmt.Errorf("agent.alpha must be in (0, 1]")
	}
	if c.Agent.Epsilon < 0 || c.Agent.Epsilon > 1 {
		return fmt.Errorf("agent.epsilon must be between 0 and 1")
	}

	if c.Training.Episodes <= 0 {
		return fmt.Errorf("training.episodes must be positive")
	}
	if c.Training.LogEvery < 0 {
		return fmt.Errorf("training.log_every must be non-negative")
	}
	if c.Training.ExperienceCapacity < 0 {
		return fmt.Errorf("training.experience_capacity must be non-negative")
	}
	if c.Training.Rewards.Win <= c.Training.Rewards.Lose {
		return fmt.Errorf("training.rewards.win must exceed training.rewards.lose")
	}

	if c.Play.HumanPlayer < -1 || c.Play.HumanPlayer > 1 {
		return fmt.Errorf("play.human_player must be -1, 0 or 1")
	}
	if c.Play.MoveDelayMs < 0 {
		return fmt.Errorf("play.move_delay_ms must be non-negative")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Server.GracefulShutdownDelay < 0 {
		return fmt.Errorf("server.graceful_shutdown_delay must be non-negative")
	}
	if c.Server.MaxGames <= 0 {
		return fmt.Errorf("server.max_games must be positive")
	}
	if c.Server.MaxPileObjects <= 0 {
		return fmt.Errorf("server.max_pile_objects must be positive")
	}

	if c.UI.Window.Width <= 0 || c.UI.Window.Height <= 0 {
		return fmt.Errorf("ui.window dimensions must be positive")
	}
	if c.UI.PileSpacing <= 0 || c.UI.ObjectSize <= 0 {
		return fmt.Errorf("ui.pile_spacing and ui.object_size must be positive")
	}
	if c.UI.AIDelayFrames < 0 {
		return fmt.Errorf("ui.ai_delay_frames must be non-negative")
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json")
	}

	return nil
}
