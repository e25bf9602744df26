/*
Package config loads VesselFlow configuration.

PRECEDENCE (lowest to highest):
  1. Defaults()
  2. YAML file (optional, --config)
  3. Environment variables (VESSELFLOW_*, API_KEY / GEMINI_API_KEY)
  4. Command-line flags (applied by the cli package)

ENVIRONMENT:
  VESSELFLOW_ADDR            server listen address
  VESSELFLOW_STORAGE_DRIVER  sqlite|fs|memory|s3|redis|postgres
  VESSELFLOW_SQLITE_PATH     sqlite database path
  VESSELFLOW_FS_ROOT         fs driver root directory
  VESSELFLOW_S3_BUCKET       s3 bucket (region/endpoint/path style below)
  VESSELFLOW_S3_REGION, VESSELFLOW_S3_ENDPOINT, VESSELFLOW_S3_PATH_STYLE
  VESSELFLOW_REDIS_ADDR      redis host:port
  VESSELFLOW_POSTGRES_DSN    postgres connection string
  VESSELFLOW_KAFKA_BROKERS   comma-separated broker list
  VESSELFLOW_LOG_LEVEL       debug|info|warn|error
  API_KEY / GEMINI_API_KEY   GenAI API key
*/
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all VesselFlow configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Advisor AdvisorConfig `yaml:"advisor"`
	Events  EventsConfig  `yaml:"events"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	ReadTimeout    Duration `yaml:"read_timeout"`
	WriteTimeout   Duration `yaml:"write_timeout"`
	IdleTimeout    Duration `yaml:"idle_timeout"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// StorageConfig selects and configures the blob driver.
type StorageConfig struct {
	Driver     string         `yaml:"driver"`
	Key        string         `yaml:"key"`
	SQLitePath string         `yaml:"sqlite_path"`
	FSRoot     string         `yaml:"fs_root"`
	S3         S3Config       `yaml:"s3"`
	Redis      RedisConfig    `yaml:"redis"`
	Postgres   PostgresConfig `yaml:"postgres"`
}

// S3Config configures the s3 driver.
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Prefix    string `yaml:"prefix"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"path_style"`
}

// RedisConfig configures the redis driver.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// PostgresConfig configures the postgres driver.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// AdvisorConfig configures the text generation backend.
type AdvisorConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// EventsConfig configures issuance event publishing. No brokers means
// events are dropped.
type EventsConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// LogConfig configures zap.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // json|console
}

// Duration is a time.Duration that unmarshals from "15s" style strings.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8080",
			ReadTimeout:    Duration(15 * time.Second),
			WriteTimeout:   Duration(90 * time.Second),
			IdleTimeout:    Duration(60 * time.Second),
			AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		},
		Storage: StorageConfig{
			Driver:     "sqlite",
			Key:        "vessel_ppe_records",
			SQLitePath: "vesselflow.db",
			FSRoot:     "./blobdata",
		},
		Advisor: AdvisorConfig{
			Model: "gemini-3-flash-preview",
		},
		Events: EventsConfig{
			Topic: "ppe.issued",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load returns Defaults overlaid with the YAML file at path (if path is
// not empty) and then with the environment.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}

	str("VESSELFLOW_ADDR", &c.Server.Addr)
	str("VESSELFLOW_STORAGE_DRIVER", &c.Storage.Driver)
	str("VESSELFLOW_STORAGE_KEY", &c.Storage.Key)
	str("VESSELFLOW_SQLITE_PATH", &c.Storage.SQLitePath)
	str("VESSELFLOW_FS_ROOT", &c.Storage.FSRoot)
	str("VESSELFLOW_S3_BUCKET", &c.Storage.S3.Bucket)
	str("VESSELFLOW_S3_REGION", &c.Storage.S3.Region)
	str("VESSELFLOW_S3_ENDPOINT", &c.Storage.S3.Endpoint)
	str("VESSELFLOW_REDIS_ADDR", &c.Storage.Redis.Addr)
	str("VESSELFLOW_POSTGRES_DSN", &c.Storage.Postgres.DSN)
	str("VESSELFLOW_ADVISOR_MODEL", &c.Advisor.Model)
	str("VESSELFLOW_LOG_LEVEL", &c.Log.Level)
	str("VESSELFLOW_LOG_FORMAT", &c.Log.Format)
	str("GEMINI_API_KEY", &c.Advisor.APIKey)
	str("API_KEY", &c.Advisor.APIKey)

	if v, ok := lookup("VESSELFLOW_S3_PATH_STYLE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("VESSELFLOW_S3_PATH_STYLE: %w", err)
		}
		c.Storage.S3.PathStyle = b
	}
	if v, ok := lookup("VESSELFLOW_KAFKA_BROKERS"); ok && v != "" {
		c.Events.Brokers = splitList(v)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the settings that would otherwise fail late.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case "sqlite", "fs", "memory", "s3", "redis", "postgres":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("storage key must not be empty")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}
