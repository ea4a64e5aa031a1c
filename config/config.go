// Package config loads exporter settings from flags, TRACKEXPORT_* variables and an optional file.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/lucasjlepore/trackexport"
	"github.com/lucasjlepore/trackexport/pipeline"
	"github.com/lucasjlepore/trackexport/store"
)

// EnvPrefix is prepended to every environment variable, e.g. TRACKEXPORT_DEST.
const EnvPrefix = "TRACKEXPORT"

// Config is the resolved exporter configuration.
type Config struct {
	DB            string `mapstructure:"db"`
	Dest          string `mapstructure:"dest"`
	Source        string `mapstructure:"source"`
	SamplesFormat string `mapstructure:"samples_format"`
	MetricsFile   string `mapstructure:"metrics_file"`
	WatermarkFile string `mapstructure:"watermark_file"`
	Resync        bool   `mapstructure:"resync"`
	BeginTime     *int64 `mapstructure:"begin_time"`
	LogLevel      string `mapstructure:"log_level"`
	Window        int    `mapstructure:"window"`
}

// New returns a viper instance with defaults and environment binding applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("source", pipeline.SourceSQLite)
	v.SetDefault("samples_format", pipeline.SamplesParquet)
	v.SetDefault("log_level", "info")
	v.SetDefault("window", trackexport.DefaultCadenceWindow)
	v.SetDefault("resync", false)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"db", "dest", "metrics_file", "watermark_file", "begin_time"} {
		_ = v.BindEnv(key)
	}
	return v
}

// ReadFile merges a YAML/TOML/JSON config file into v. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// Load resolves v into a validated Config.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if !v.IsSet("begin_time") {
		cfg.BeginTime = nil
	}
	cfg.Source = strings.ToLower(strings.TrimSpace(cfg.Source))
	cfg.SamplesFormat = strings.ToLower(strings.TrimSpace(cfg.SamplesFormat))

	if cfg.DB == "" {
		return nil, fmt.Errorf("db is required")
	}
	if cfg.Dest == "" {
		return nil, fmt.Errorf("dest is required")
	}
	if cfg.WatermarkFile == "" {
		cfg.WatermarkFile = filepath.Join(cfg.Dest, store.WatermarkFileName)
	}
	if cfg.Window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %d", cfg.Window)
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Level returns the configured log level.
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// Options maps the configuration onto a pipeline run.
func (c *Config) Options(log logrus.FieldLogger) pipeline.Options {
	return pipeline.Options{
		StorePath:     c.DB,
		Source:        c.Source,
		OutDir:        c.Dest,
		WatermarkPath: c.WatermarkFile,
		Resync:        c.Resync,
		BeginTime:     c.BeginTime,
		SamplesFormat: c.SamplesFormat,
		MetricsPath:   c.MetricsFile,
		CadenceWindow: c.Window,
		Logger:        log,
	}
}
