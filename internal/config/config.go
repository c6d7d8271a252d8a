package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	OutputDir  string `mapstructure:"output_dir" yaml:"output_dir"`
	PagePrefix string `mapstructure:"page_prefix" yaml:"page_prefix"`
	DPI        int    `mapstructure:"dpi" yaml:"dpi"`

	// Aggregation
	TopN          int     `mapstructure:"top_n" yaml:"top_n"`
	RatingBuckets int     `mapstructure:"rating_buckets" yaml:"rating_buckets"`
	HistogramBins int     `mapstructure:"histogram_bins" yaml:"histogram_bins"`
	OutlierLow    float64 `mapstructure:"outlier_low" yaml:"outlier_low"`
	OutlierHigh   float64 `mapstructure:"outlier_high" yaml:"outlier_high"`

	// Input
	MaxRows int `mapstructure:"max_rows" yaml:"max_rows"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Keys lists the configuration keys in display order.
var Keys = []string{
	"output_dir", "page_prefix", "dpi", "top_n", "rating_buckets", "histogram_bins",
	"outlier_low", "outlier_high", "max_rows", "log_level", "log_format",
}

// DefaultDir returns ~/.chessreport.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".chessreport"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.chessreport/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := DefaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CHESSREPORT")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("page_prefix", d.PagePrefix)
	v.SetDefault("dpi", d.DPI)
	v.SetDefault("top_n", d.TopN)
	v.SetDefault("rating_buckets", d.RatingBuckets)
	v.SetDefault("histogram_bins", d.HistogramBins)
	v.SetDefault("outlier_low", d.OutlierLow)
	v.SetDefault("outlier_high", d.OutlierHigh)
	v.SetDefault("max_rows", d.MaxRows)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Defaults returns the built-in configuration.
func Defaults() Global {
	return Global{
		OutputDir:     ".",
		PagePrefix:    "report_page",
		DPI:           150,
		TopN:          10,
		RatingBuckets: 5,
		HistogramBins: 30,
		OutlierLow:    0.05,
		OutlierHigh:   0.95,
		MaxRows:       0,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// Validate reports the first invalid setting.
func (c *Global) Validate() error {
	switch {
	case c.PagePrefix == "":
		return errors.New("page_prefix must not be empty")
	case c.DPI < 50 || c.DPI > 600:
		return fmt.Errorf("dpi must be between 50 and 600, got %d", c.DPI)
	case c.TopN <= 0:
		return fmt.Errorf("top_n must be positive, got %d", c.TopN)
	case c.RatingBuckets <= 0:
		return fmt.Errorf("rating_buckets must be positive, got %d", c.RatingBuckets)
	case c.HistogramBins <= 0:
		return fmt.Errorf("histogram_bins must be positive, got %d", c.HistogramBins)
	case c.OutlierLow < 0 || c.OutlierHigh > 1 || c.OutlierLow >= c.OutlierHigh:
		return fmt.Errorf("outlier percentiles must satisfy 0 <= low < high <= 1, got %g and %g", c.OutlierLow, c.OutlierHigh)
	case c.MaxRows < 0:
		return fmt.Errorf("max_rows must not be negative, got %d", c.MaxRows)
	}
	return nil
}
