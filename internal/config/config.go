package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Source         SourceConfig         `yaml:"source" mapstructure:"source"`
	SerialInterval SerialIntervalConfig `yaml:"serial_interval" mapstructure:"serial_interval"`
	Store          StoreConfig          `yaml:"store" mapstructure:"store"`
	Fetch          FetchConfig          `yaml:"fetch" mapstructure:"fetch"`
	Plot           PlotConfig           `yaml:"plot" mapstructure:"plot"`
	Log            LogConfig            `yaml:"log" mapstructure:"log"`
}

// SourceConfig configures the default remote case-series source.
type SourceConfig struct {
	URL    string `yaml:"url" mapstructure:"url"`
	Format string `yaml:"format" mapstructure:"format"`
}

// SerialIntervalConfig configures the serial-interval distribution.
type SerialIntervalConfig struct {
	Mean          float64 `yaml:"mean" mapstructure:"mean"`
	SD            float64 `yaml:"sd" mapstructure:"sd"`
	MaxLag        int     `yaml:"max_lag" mapstructure:"max_lag"`
	TailTolerance float64 `yaml:"tail_tolerance" mapstructure:"tail_tolerance"`
}

// StoreConfig configures the SQLite database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// FetchConfig configures the HTTP fetcher.
type FetchConfig struct {
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
}

// PlotConfig configures chart rendering.
type PlotConfig struct {
	Dir      string `yaml:"dir" mapstructure:"dir"`
	Terminal string `yaml:"terminal" mapstructure:"terminal"`
	Binary   string `yaml:"binary" mapstructure:"binary"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("RT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("source.format", "csv")
	v.SetDefault("serial_interval.mean", 3.96)
	v.SetDefault("serial_interval.sd", 4.75)
	v.SetDefault("serial_interval.max_lag", 18)
	v.SetDefault("serial_interval.tail_tolerance", 0.01)
	v.SetDefault("store.path", "rt.db")
	v.SetDefault("fetch.user_agent", "rt-cli/1.0")
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("plot.dir", "plots")
	v.SetDefault("plot.terminal", "pngcairo size 1200,600")
	v.SetDefault("plot.binary", "gnuplot")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
