package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings holds runtime preferences for the CLI and HTTP server. They are
// separate from the simulation input files.
type Settings struct {
	Log        LogSettings       `mapstructure:"log"`
	Output     OutputSettings    `mapstructure:"output"`
	Server     ServerSettings    `mapstructure:"server"`
	Milestones MilestoneSettings `mapstructure:"milestones"`
}

// LogSettings controls the CLI logger
type LogSettings struct {
	Level string `mapstructure:"level"`
}

// OutputSettings picks the default report format
type OutputSettings struct {
	Format string `mapstructure:"format"`
}

// ServerSettings configures `horizon serve`
type ServerSettings struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MaxBodyBytes int           `mapstructure:"max_body_bytes"`
}

// MilestoneSettings tunes milestone detection
type MilestoneSettings struct {
	MinimumImpact float64       `mapstructure:"minimum_impact"`
	DisableFilter bool          `mapstructure:"disable_filter"`
	CacheSize     int           `mapstructure:"cache_size"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
}

// LoadSettings reads settings from path when given, otherwise from
// $HOME/.config/horizon/settings.yaml if it exists. HORIZON_ environment
// variables override both, e.g. HORIZON_SERVER_ADDR.
func LoadSettings(path string) (Settings, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("output.format", "console")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("milestones.minimum_impact", 1000.0)
	v.SetDefault("milestones.disable_filter", false)
	v.SetDefault("milestones.cache_size", 50)
	v.SetDefault("milestones.cache_ttl", 5*time.Minute)

	v.SetConfigType("yaml")
	if path == "" {
		path = os.Getenv("HORIZON_SETTINGS")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "horizon"))
		v.SetConfigName("settings")
	}

	v.SetEnvPrefix("HORIZON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit path must exist; the default location is optional
		if path != "" || !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("read settings: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	return s, nil
}
