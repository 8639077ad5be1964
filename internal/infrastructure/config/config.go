package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding config keys,
// e.g. PRINTER_PRINTING_KEYWORDS overrides printing.keywords
const EnvPrefix = "PRINTER"

// DefaultSearchPaths are the directories searched for config.toml and .env
var DefaultSearchPaths = []string{".", "/etc/cloud-printer"}

// Config holds all application configuration
type Config struct {
	App         AppConfig
	Log         LogConfig
	HTTP        HTTPConfig
	Renderer    RendererConfig
	Printing    PrintingConfig
	Idempotency IdempotencyConfig
	Telemetry   TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name    string
	Env     string
	Port    string
	Version string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	ShutdownTimeout  time.Duration
	MaxBodySize      int64
	CORSAllowOrigins []string
}

// RendererConfig holds headless browser settings
type RendererConfig struct {
	// RemoteURL points at a running browser's DevTools endpoint. Empty
	// launches a local browser per render.
	RemoteURL string
	// ExecPath overrides the browser binary launched for local renders
	ExecPath  string
	NoSandbox bool
	Timeout   time.Duration
}

// PrintingConfig holds device discovery and delivery settings
type PrintingConfig struct {
	// Enabled is false on hosts without print hardware (cloud mode)
	Enabled       bool
	Keywords      []string
	HelperPaths   []string
	DeviceQuery   string
	DeviceTimeout time.Duration
	ScratchDir    string
	CleanupDelay  time.Duration
	StaleFileAge  time.Duration
	// SweepInterval is how often the server removes abandoned job files
	SweepInterval time.Duration
}

// IdempotencyConfig holds settings for Idempotency-Key handling on POST /print.
// An empty RedisAddr keeps keys in process memory.
type IdempotencyConfig struct {
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
	MetricsInterval   time.Duration
	LogsEnabled       bool
}

// Load reads configuration from DefaultSearchPaths and the environment
func Load() (*Config, error) {
	return LoadFrom(DefaultSearchPaths...)
}

// LoadFrom reads an optional .env and config.toml from the given directories,
// overlays PRINTER_* environment variables, applies defaults and validates.
// Variables already present in the environment win over .env entries.
func LoadFrom(dirs ...string) (*Config, error) {
	if err := loadEnvFile(dirs); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Zero is a meaningful value for these, so they are defaulted in viper
	// rather than in applyDefaults.
	v.SetDefault("printing.enabled", true)
	v.SetDefault("telemetry.sampling_ratio", 1.0)
	v.SetDefault("telemetry.insecure", true)

	cfg := &Config{
		App: AppConfig{
			Name:    v.GetString("app.name"),
			Env:     v.GetString("app.env"),
			Port:    v.GetString("app.port"),
			Version: v.GetString("app.version"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:  v.GetDuration("http.shutdown_timeout"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: stringList(v, "http.cors_allow_origins"),
		},
		Renderer: RendererConfig{
			RemoteURL: v.GetString("renderer.remote_url"),
			ExecPath:  v.GetString("renderer.exec_path"),
			NoSandbox: v.GetBool("renderer.no_sandbox"),
			Timeout:   v.GetDuration("renderer.timeout"),
		},
		Printing: PrintingConfig{
			Enabled:       v.GetBool("printing.enabled"),
			Keywords:      stringList(v, "printing.keywords"),
			HelperPaths:   stringList(v, "printing.helper_paths"),
			DeviceQuery:   v.GetString("printing.device_query"),
			DeviceTimeout: v.GetDuration("printing.device_timeout"),
			ScratchDir:    v.GetString("printing.scratch_dir"),
			CleanupDelay:  v.GetDuration("printing.cleanup_delay"),
			StaleFileAge:  v.GetDuration("printing.stale_file_age"),
			SweepInterval: v.GetDuration("printing.sweep_interval"),
		},
		Idempotency: IdempotencyConfig{
			TTL:           v.GetDuration("idempotency.ttl"),
			RedisAddr:     v.GetString("idempotency.redis_addr"),
			RedisPassword: v.GetString("idempotency.redis_password"),
			RedisDB:       v.GetInt("idempotency.redis_db"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFile loads the first .env found in dirs
func loadEnvFile(dirs []string) error {
	for _, dir := range dirs {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("error loading %s: %w", path, err)
		}
		return nil
	}
	return nil
}

// stringList reads a list from a TOML array or a comma separated env value
func stringList(v *viper.Viper, key string) []string {
	var raw []string
	if s, ok := v.Get(key).(string); ok {
		raw = strings.Split(s, ",")
	} else {
		raw = v.GetStringSlice(key)
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "cloud-printer"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "3000"
	}
	if cfg.App.Version == "" {
		cfg.App.Version = "1.0.0"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		if cfg.IsProduction() {
			cfg.Log.Format = "json"
		} else {
			cfg.Log.Format = "console"
		}
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	// printing can take a full delivery chain plus settle delays
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 3 * time.Minute
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 30 * time.Second
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20 // 10MB
	}
	if len(cfg.HTTP.CORSAllowOrigins) == 0 {
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
	}
	if cfg.Renderer.Timeout == 0 {
		cfg.Renderer.Timeout = 60 * time.Second
	}
	if len(cfg.Printing.Keywords) == 0 {
		cfg.Printing.Keywords = []string{"epson", "kasa"}
	}
	if cfg.Printing.DeviceTimeout == 0 {
		cfg.Printing.DeviceTimeout = 15 * time.Second
	}
	if cfg.Printing.CleanupDelay == 0 {
		cfg.Printing.CleanupDelay = 30 * time.Second
	}
	if cfg.Printing.StaleFileAge == 0 {
		cfg.Printing.StaleFileAge = time.Hour
	}
	if cfg.Printing.SweepInterval == 0 {
		cfg.Printing.SweepInterval = 15 * time.Minute
	}
	if cfg.Idempotency.TTL == 0 {
		cfg.Idempotency.TTL = 10 * time.Minute
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
}

func (c *Config) validate() error {
	switch c.App.Env {
	case "development", "test", "production":
	default:
		return fmt.Errorf("app.env must be one of development, test, production, got %q", c.App.Env)
	}
	if port, err := strconv.Atoi(c.App.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("app.port must be a valid TCP port, got %q", c.App.Port)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	if c.HTTP.MaxBodySize < 0 {
		return fmt.Errorf("http.max_body_size must not be negative")
	}
	if c.Renderer.Timeout < 0 {
		return fmt.Errorf("renderer.timeout must not be negative")
	}
	if c.Printing.CleanupDelay < 0 {
		return fmt.Errorf("printing.cleanup_delay must not be negative")
	}
	if c.Printing.StaleFileAge < 0 {
		return fmt.Errorf("printing.stale_file_age must not be negative")
	}
	if c.Printing.SweepInterval < 0 {
		return fmt.Errorf("printing.sweep_interval must not be negative")
	}
	if c.Idempotency.TTL < 0 {
		return fmt.Errorf("idempotency.ttl must not be negative")
	}
	if c.Idempotency.RedisDB < 0 {
		return fmt.Errorf("idempotency.redis_db must not be negative")
	}
	if c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	return nil
}

// IsProduction reports whether the app runs in the production environment
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Addr returns the HTTP listen address
func (c *Config) Addr() string {
	return ":" + c.App.Port
}
