package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Results ResultsConfig `mapstructure:"results"`
	Plot    PlotConfig    `mapstructure:"plot"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

type ResultsConfig struct {
	Dir      string `mapstructure:"dir"`
	ViewsDir string `mapstructure:"views_dir"`
}

type PlotConfig struct {
	Width      int     `mapstructure:"width"`
	Height     int     `mapstructure:"height"`
	ColorScale string  `mapstructure:"color_scale"`
	Azimuth    float64 `mapstructure:"azimuth"`
	Elevation  float64 `mapstructure:"elevation"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// New returns a viper instance carrying every default and reading
// LOCVIZ_* environment overrides (LOCVIZ_SERVER_ADDRESS, LOCVIZ_RESULTS_DIR, ...)
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("results.dir", "results")
	v.SetDefault("results.views_dir", "views")

	v.SetDefault("plot.width", 900)
	v.SetDefault("plot.height", 700)
	v.SetDefault("plot.color_scale", "amp")
	v.SetDefault("plot.azimuth", -35.0)
	v.SetDefault("plot.elevation", 25.0)

	v.SetDefault("logging.level", "info")

	v.SetEnvPrefix("LOCVIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the optional config file at path and decodes the result
func Load(path string) (*Config, error) {
	v := New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	hook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := v.Unmarshal(&cfg, viper.DecodeHook(hook)); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Results.Dir == "" {
		return fmt.Errorf("results.dir must not be empty")
	}
	if c.Plot.Width <= 0 || c.Plot.Height <= 0 {
		return fmt.Errorf("plot size must be positive, got %dx%d", c.Plot.Width, c.Plot.Height)
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level %q: %w", c.Logging.Level, err)
	}
	return nil
}

// CreateLogger creates a console zerolog logger at the configured level
func (c *Config) CreateLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).Level(level).With().Timestamp().Str("service", "localization-viewer").Logger()
}
