package config

import (
	"strings"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Addr      string `mapstructure:"addr"`
	StaticDir string `mapstructure:"static_dir"`
}

// GameConfig holds the defaults applied to room:create when the host sends
// no overrides.
type GameConfig struct {
	Width       int    `mapstructure:"width"`
	Height      int    `mapstructure:"height"`
	Mines       int    `mapstructure:"mines"`
	Mode        string `mapstructure:"mode"`
	StunSmall   int    `mapstructure:"stun_small"`
	StunBig     int    `mapstructure:"stun_big"`
	TurnSeconds int    `mapstructure:"turn_seconds"`
	MaxPlayers  int    `mapstructure:"max_players"`
}

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Game   GameConfig   `mapstructure:"game"`
}

// Load reads configs/config.yaml when present and lets SWEEPER_* environment
// variables override any key (e.g. SWEEPER_SERVER_ADDR).
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("configs")
	v.AddConfigPath(".")

	v.SetDefault("server.addr", ":3000")
	v.SetDefault("server.static_dir", "public")
	v.SetDefault("game.width", 16)
	v.SetDefault("game.height", 16)
	v.SetDefault("game.mines", 41)
	v.SetDefault("game.mode", "TURN")
	v.SetDefault("game.stun_small", 3)
	v.SetDefault("game.stun_big", 10)
	v.SetDefault("game.turn_seconds", 10)
	v.SetDefault("game.max_players", 8)

	v.SetEnvPrefix("SWEEPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
