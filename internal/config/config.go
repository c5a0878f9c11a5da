package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v3"

	"github.com/vadimtrunov/MovieMate/internal/httpclient"
)

// DefaultEnvFile is read next to the working directory when present.
const DefaultEnvFile = ".env"

const defaultOMDbBaseURL = "https://www.omdbapi.com/"

// Config represents the main application configuration
type Config struct {
	// Catalog
	OMDb OMDbConfig `yaml:"omdb"`

	// Outgoing HTTP behaviour shared by catalog calls
	HTTP HTTPConfig `yaml:"http"`

	// Recommendation engine
	Recommend RecommendConfig `yaml:"recommend"`

	// Frontends
	Telegram *TelegramConfig `yaml:"telegram,omitempty"`

	// Application settings
	App AppConfig `yaml:"app"`
}

// OMDbConfig holds OMDb API configuration. An empty APIKey is allowed
// here; commands that need the catalog report it when they start.
type OMDbConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
	Plot    string        `yaml:"plot,omitempty"` // "short" or "full", used by details views

	// CacheTTL opts in to an in-memory response cache; zero disables it.
	CacheTTL time.Duration `yaml:"cache_ttl,omitempty"`
}

// HTTPConfig holds retry and upstream protection settings
type HTTPConfig struct {
	MaxRetries      int     `yaml:"max_retries"`
	RatePerSecond   float64 `yaml:"rate_per_second"`
	Burst           int     `yaml:"burst"`
	BreakerFailures int     `yaml:"breaker_failures"`
}

// RecommendConfig holds recommendation engine settings
type RecommendConfig struct {
	DefaultResults int `yaml:"default_results"`
	MaxResults     int `yaml:"max_results"`
	Concurrency    int `yaml:"concurrency"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken       string  `yaml:"bot_token"`
	AllowedUserIDs []int64 `yaml:"allowed_user_ids,omitempty"`
}

// AppConfig holds application-level settings
type AppConfig struct {
	LogLevel string `yaml:"log_level"` // "debug", "info", "warn", "error"
}

// Load loads configuration from a YAML file and DefaultEnvFile, then
// applies environment variable overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	return LoadWithEnvFile(path, DefaultEnvFile)
}

// LoadWithEnvFile is Load with an explicit dotenv file. A missing dotenv
// file is ignored; process environment wins over its values.
func LoadWithEnvFile(path, envFile string) (*Config, error) {
	var cfg Config
	if path != "" {
		if err := validateConfigPath(path); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	env, err := readEnvFile(envFile)
	if err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides(env)
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func validateConfigPath(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config file not found: %s", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("config path is a directory: %s", path)
	}
	return nil
}

// envSource resolves variables from the process environment first and
// the dotenv file second.
type envSource map[string]string

func readEnvFile(path string) (envSource, error) {
	if path == "" {
		return envSource{}, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return envSource{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return envSource(values), nil
}

func (e envSource) get(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return e[key]
}

// applyEnvOverrides overrides config values with environment variables
func (c *Config) applyEnvOverrides(env envSource) {
	// OMDb
	if v := env.get("MOVIEMATE_OMDB_API_KEY"); v != "" {
		c.OMDb.APIKey = v
	} else if v := env.get("OMDB_API_KEY"); v != "" && c.OMDb.APIKey == "" {
		c.OMDb.APIKey = v
	}
	if v := env.get("MOVIEMATE_OMDB_BASE_URL"); v != "" {
		c.OMDb.BaseURL = v
	}

	// Recommend
	if v := env.get("MOVIEMATE_RECOMMEND_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			n = -1 // rejected by Validate
		}
		c.Recommend.Concurrency = n
	}

	// Telegram
	if v := env.get("MOVIEMATE_TELEGRAM_BOT_TOKEN"); v != "" {
		if c.Telegram == nil {
			c.Telegram = &TelegramConfig{}
		}
		c.Telegram.BotToken = v
	}

	// App
	if v := env.get("MOVIEMATE_LOG_LEVEL"); v != "" {
		c.App.LogLevel = v
	}
}

// setDefaults fills zero values with defaults.
func (c *Config) setDefaults() {
	if c.OMDb.BaseURL == "" {
		c.OMDb.BaseURL = defaultOMDbBaseURL
	}
	if c.OMDb.Plot == "" {
		c.OMDb.Plot = "full"
	}

	def := httpclient.DefaultConfig()
	if c.OMDb.Timeout == 0 {
		c.OMDb.Timeout = def.Timeout
	}
	if c.HTTP.MaxRetries == 0 {
		c.HTTP.MaxRetries = def.MaxRetries
	}
	if c.HTTP.RatePerSecond == 0 {
		c.HTTP.RatePerSecond = def.RatePerSecond
	}
	if c.HTTP.Burst == 0 {
		c.HTTP.Burst = def.Burst
	}
	if c.HTTP.BreakerFailures == 0 {
		c.HTTP.BreakerFailures = int(def.BreakerFailures)
	}

	if c.Recommend.MaxResults == 0 {
		c.Recommend.MaxResults = 20
	}
	if c.Recommend.DefaultResults == 0 {
		c.Recommend.DefaultResults = min(10, c.Recommend.MaxResults)
	}
	if c.Recommend.Concurrency == 0 {
		c.Recommend.Concurrency = 4
	}

	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.OMDb.BaseURL != "" {
		if err := validateURL(c.OMDb.BaseURL, "omdb.base_url"); err != nil {
			return err
		}
	}
	switch c.OMDb.Plot {
	case "", "short", "full":
	default:
		return fmt.Errorf("omdb.plot must be 'short' or 'full'")
	}
	if c.OMDb.Timeout < 0 {
		return fmt.Errorf("omdb.timeout must not be negative")
	}
	if c.OMDb.CacheTTL < 0 {
		return fmt.Errorf("omdb.cache_ttl must not be negative")
	}

	if c.HTTP.MaxRetries < 0 || c.HTTP.MaxRetries > 10 {
		return fmt.Errorf("http.max_retries must be between 0 and 10")
	}
	if c.HTTP.RatePerSecond < 0 {
		return fmt.Errorf("http.rate_per_second must not be negative")
	}
	if c.HTTP.Burst < 0 {
		return fmt.Errorf("http.burst must not be negative")
	}
	if c.HTTP.BreakerFailures < 0 {
		return fmt.Errorf("http.breaker_failures must not be negative")
	}

	if c.Recommend.MaxResults < 1 {
		return fmt.Errorf("recommend.max_results must be positive")
	}
	if c.Recommend.DefaultResults < 1 || c.Recommend.DefaultResults > c.Recommend.MaxResults {
		return fmt.Errorf("recommend.default_results must be between 1 and recommend.max_results (%d)", c.Recommend.MaxResults)
	}
	if c.Recommend.Concurrency < 1 || c.Recommend.Concurrency > 32 {
		return fmt.Errorf("recommend.concurrency must be between 1 and 32")
	}

	if c.Telegram != nil && c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}

	switch strings.ToLower(c.App.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("app.log_level must be one of debug, info, warn, error")
	}
	return nil
}

// HTTPClientConfig converts the http and omdb sections into an
// httpclient.Config.
func (c *Config) HTTPClientConfig() httpclient.Config {
	cfg := httpclient.DefaultConfig()
	cfg.Timeout = c.OMDb.Timeout
	cfg.MaxRetries = c.HTTP.MaxRetries
	cfg.RatePerSecond = c.HTTP.RatePerSecond
	cfg.Burst = c.HTTP.Burst
	cfg.BreakerFailures = uint32(max(c.HTTP.BreakerFailures, 0)) // #nosec G115
	return cfg
}

func validateURL(raw, field string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https", field)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing host", field)
	}
	return nil
}
