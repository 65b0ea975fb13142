package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080" validate:"gte=0,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Logger struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=json console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logger"`
	Bot struct {
		Symbol       string        `yaml:"symbol" default:"XRPUSDT" validate:"required,alphanum"`
		Interval     time.Duration `yaml:"interval" default:"15m" validate:"gt=0"`
		BarsLimit    int           `yaml:"bars_limit" default:"200" validate:"gte=1"`
		CycleTimeout time.Duration `yaml:"cycle_timeout" default:"30s" validate:"gt=0"`
	} `yaml:"bot"`
	Bars struct {
		Source string `yaml:"source" default:"file" validate:"oneof=file clickhouse"`
		Dir    string `yaml:"dir" default:"data"`
		Table  string `yaml:"table" default:"candles"`
	} `yaml:"bars"`
	SignalThreshold float64                    `yaml:"signal_threshold" default:"10" validate:"gte=0"`
	Timeframes      map[string]TimeframeConfig `yaml:"timeframes" validate:"required,min=1,dive,keys,oneof=15m 1H 4H 1D,endkeys"`
	Indicators      map[string]IndicatorConfig `yaml:"indicators" validate:"required,min=1,dive"`
	ClickHouse      struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"signalforge"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"30s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"60s"`
		SignalsTable     string        `yaml:"signals_table" default:"signals"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"trading-signals"`
		RequiredAcks int      `yaml:"required_acks" default:"1" validate:"oneof=-1 0 1"`
		Compression  string   `yaml:"compression" default:"snappy" validate:"oneof=none gzip snappy lz4 zstd"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			BatchTimeout time.Duration `yaml:"batch_timeout" default:"50ms"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	Cache struct {
		Backend string        `yaml:"backend" default:"memory" validate:"oneof=memory redis"`
		TTL     time.Duration `yaml:"ttl" default:"1h" validate:"gt=0"`
		Redis   struct {
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

// TimeframeConfig is one timeframe descriptor: lower priority is processed first.
type TimeframeConfig struct {
	Priority int     `yaml:"priority" validate:"gte=1"`
	Weight   float64 `yaml:"weight" validate:"gt=0"`
}

// IndicatorConfig enables an indicator on a set of timeframes. Any other numeric
// key (period, overbought, ...) lands in Params.
type IndicatorConfig struct {
	Enabled    bool               `yaml:"enabled"`
	Timeframes []string           `yaml:"timeframes" validate:"dive,oneof=15m 1H 4H 1D"`
	Params     map[string]float64 `yaml:",inline"`
}

// NamedTimeframe pairs a timeframe name with its descriptor.
type NamedTimeframe struct {
	Name string
	TimeframeConfig
}

// ConfigurationError is a fatal startup error in the strategy or infrastructure settings.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
}

// IsConfigurationError reports whether err wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	c, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := c.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Parse decodes YAML on top of the defaults without validating.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, &ConfigurationError{Field: "yaml", Reason: err.Error()}
	}
	return &c, nil
}

func read(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("SYMBOL"); v != "" {
		c.Bot.Symbol = v
	}
	if v := getenv("SIGNAL_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return &ConfigurationError{Field: "SIGNAL_THRESHOLD", Reason: err.Error()}
		}
		c.SignalThreshold = f
	}
	if v := getenv("BARS_SOURCE"); v != "" {
		c.Bars.Source = v
	}
	if v := getenv("BARS_DIR"); v != "" {
		c.Bars.Dir = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Logger.Level = v
	}
	if v := getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	return nil
}

var validate = validator.New()

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &ConfigurationError{Field: fe.Namespace(), Reason: fmt.Sprintf("failed %q (value %v)", fe.Tag(), fe.Value())}
		}
		return &ConfigurationError{Field: "config", Reason: err.Error()}
	}

	enabled := 0
	for name, ic := range c.Indicators {
		if !ic.Enabled {
			continue
		}
		enabled++
		if len(ic.Timeframes) == 0 {
			return &ConfigurationError{Field: "indicators." + name, Reason: "enabled without timeframes"}
		}
	}
	if enabled == 0 {
		return &ConfigurationError{Field: "indicators", Reason: "no indicator enabled"}
	}

	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return &ConfigurationError{Field: "clickhouse.host", Reason: "required when clickhouse is enabled"}
	}
	if c.Bars.Source == "clickhouse" && !c.ClickHouse.Enabled {
		return &ConfigurationError{Field: "bars.source", Reason: "clickhouse source requires clickhouse.enabled"}
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return &ConfigurationError{Field: "kafka.brokers", Reason: "required when kafka is enabled"}
	}
	return nil
}

// SortedTimeframes returns the configured timeframes by ascending priority.
func (c *Config) SortedTimeframes() []NamedTimeframe {
	out := make([]NamedTimeframe, 0, len(c.Timeframes))
	for name, tf := range c.Timeframes {
		out = append(out, NamedTimeframe{Name: name, TimeframeConfig: tf})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// IndicatorNames returns the configured indicator names, sorted.
func (c *Config) IndicatorNames() []string {
	out := make([]string, 0, len(c.Indicators))
	for name := range c.Indicators {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
