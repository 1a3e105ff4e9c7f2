package config

// Configuration for the dtimelog CLI
// Sources, lowest to highest priority: defaults, config.yaml (. or ./etc), .env, environment, command flags
// DTIMELOG_CONFIG points at an explicit config file

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Greeter GreeterConfig `mapstructure:"greeter"`
	Store   StoreConfig   `mapstructure:"store"`
	Chart   ChartConfig   `mapstructure:"chart"`
}

type AppConfig struct {
	LogDir   string `mapstructure:"log_dir"`
	LogLevel string `mapstructure:"log_level"`
	Console  bool   `mapstructure:"console"`
}

type GreeterConfig struct {
	Greeting string `mapstructure:"greeting"`
	Thing    string `mapstructure:"thing"`
}

// StoreConfig - record store (sqlite file)
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // "sqlite" (modernc) or "sqlite3" (mattn, cgo)
	Path   string `mapstructure:"path"`
}

// ChartConfig - candlestick rendering parameters
type ChartConfig struct {
	BarsFile    string  `mapstructure:"bars_file"` // empty = built-in sample
	Output      string  `mapstructure:"output"`
	Format      string  `mapstructure:"format"` // svg, png or empty (from extension)
	Title       string  `mapstructure:"title"`
	Width       int     `mapstructure:"width"`
	Height      int     `mapstructure:"height"`
	LabelArea   int     `mapstructure:"label_area"`
	CandleWidth int     `mapstructure:"candle_width"`
	MinPrice    float64 `mapstructure:"min_price"`
	MaxPrice    float64 `mapstructure:"max_price"`
	Timezone    string  `mapstructure:"timezone"`
}

// flagKeys maps command line flag names to config keys.
var flagKeys = map[string]string{
	"config":       "config",
	"log-level":    "app.log_level",
	"greeting":     "greeter.greeting",
	"driver":       "store.driver",
	"db":           "store.path",
	"bars":         "chart.bars_file",
	"out":          "chart.output",
	"format":       "chart.format",
	"title":        "chart.title",
	"width":        "chart.width",
	"height":       "chart.height",
	"candle-width": "chart.candle_width",
	"min":          "chart.min_price",
	"max":          "chart.max_price",
	"tz":           "chart.timezone",
}

// LoadConfig reads every source and validates the result. flags may be nil.
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	// .env is optional
	_ = godotenv.Load(".env")

	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("DTIMELOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setupEnvAliases(v)

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func readConfigFile(v *viper.Viper) error {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("etc")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config.yaml: %w", err)
	}
	return nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

func setupEnvAliases(v *viper.Viper) {
	// DTIMELOG_<SECTION>_<KEY> comes from AutomaticEnv; these are the extra short names.
	v.BindEnv("config", "DTIMELOG_CONFIG")
	v.BindEnv("store.path", "DTIMELOG_STORE_PATH", "SQLITE_PATH")
	v.BindEnv("chart.output", "DTIMELOG_CHART_OUTPUT", "CHART_OUTPUT")
	v.BindEnv("chart.timezone", "DTIMELOG_CHART_TIMEZONE", "CHART_TZ")
	v.BindEnv("app.log_level", "DTIMELOG_APP_LOG_LEVEL", "LOG_LEVEL")
}

func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.log_dir", "logs")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.console", true)

	// Greeter
	v.SetDefault("greeter.greeting", "Hello")
	v.SetDefault("greeter.thing", "David")

	// Store
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "dtimelog.db")

	// Chart
	v.SetDefault("chart.bars_file", "")
	v.SetDefault("chart.output", "stock.svg")
	v.SetDefault("chart.format", "")
	v.SetDefault("chart.title", "MSFT Stock Price")
	v.SetDefault("chart.width", 1024)
	v.SetDefault("chart.height", 768)
	v.SetDefault("chart.label_area", 40)
	v.SetDefault("chart.candle_width", 15)
	v.SetDefault("chart.min_price", 110.0)
	v.SetDefault("chart.max_price", 135.0)
	v.SetDefault("chart.timezone", "Local")
}

// Validate checks values that would otherwise fail deep inside a command.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite", "sqlite3":
	default:
		return fmt.Errorf("store.driver must be sqlite or sqlite3, got %q", c.Store.Driver)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}

	switch strings.ToLower(c.Chart.Format) {
	case "", "svg", "png":
	default:
		return fmt.Errorf("chart.format must be svg or png, got %q", c.Chart.Format)
	}
	if c.Chart.Output == "" {
		return fmt.Errorf("chart.output is required")
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("chart.width and chart.height must be positive")
	}
	if c.Chart.CandleWidth <= 0 || c.Chart.LabelArea <= 0 {
		return fmt.Errorf("chart.candle_width and chart.label_area must be positive")
	}
	for _, p := range []struct {
		key string
		v   float64
	}{{"chart.min_price", c.Chart.MinPrice}, {"chart.max_price", c.Chart.MaxPrice}, {"chart price span", c.Chart.MaxPrice - c.Chart.MinPrice}} {
		if math.IsNaN(p.v) || math.IsInf(p.v, 0) {
			return fmt.Errorf("%s must be finite, got %v", p.key, p.v)
		}
	}
	if c.Chart.MinPrice >= c.Chart.MaxPrice {
		return fmt.Errorf("chart.min_price (%v) must be below chart.max_price (%v)", c.Chart.MinPrice, c.Chart.MaxPrice)
	}
	if _, err := c.Chart.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves chart.timezone; "" and "Local" mean the host zone.
func (c ChartConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("chart.timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
