// Package config loads server configuration from file and environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full server configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Game    GameConfig    `mapstructure:"game"`
	Decks   DecksConfig   `mapstructure:"decks"`
}

// ServerConfig holds the websocket gateway settings.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GameConfig holds the rules-engine defaults for new games.
type GameConfig struct {
	StartingLife  int           `mapstructure:"starting_life"`
	HandSize      int           `mapstructure:"hand_size"`
	MaxDrain      int           `mapstructure:"max_drain"`
	ChoiceTimeout time.Duration `mapstructure:"choice_timeout"`
}

// DecksConfig points at the deck-list file.
type DecksConfig struct {
	Path string `mapstructure:"path"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("game.starting_life", 20)
	v.SetDefault("game.hand_size", 7)
	v.SetDefault("game.max_drain", 1000)
	v.SetDefault("game.choice_timeout", 60*time.Second)
	v.SetDefault("decks.path", "config/decks.yaml")
}

// Load reads configuration from the given file, with HYPERDRAFT_*
// environment variables overriding file values. A missing file is not
// an error; defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("HYPERDRAFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Game.StartingLife <= 0 {
		return fmt.Errorf("game.starting_life must be positive, got %d", c.Game.StartingLife)
	}
	if c.Game.HandSize < 0 {
		return fmt.Errorf("game.hand_size cannot be negative, got %d", c.Game.HandSize)
	}
	if c.Game.MaxDrain <= 0 {
		return fmt.Errorf("game.max_drain must be positive, got %d", c.Game.MaxDrain)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}
