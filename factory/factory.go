/*
Package factory builds runtime components from configuration.

PURPOSE:
  Turns a config.Config into concrete collaborators so cmd/ and cli/ never
  switch on driver names themselves:
  - OpenBlob:      store.Blob for the configured storage driver
  - NewGenerator:  advisory.Generator (Gemini, or an always-failing stub)
  - NewPublisher:  events.Publisher (Kafka, or Noop)
  - NewLogger:     zap.Logger from the log section

CLEANUP:
  OpenBlob returns a close function. It is never nil, so callers can
  always defer it.

USAGE:
  blob, closeBlob, err := factory.OpenBlob(ctx, cfg.Storage)
  if err != nil {
      return err
  }
  defer closeBlob()

  records := ppe.NewStore(blob, ppe.WithBlobKey(cfg.Storage.Key))

SEE ALSO:
  - config/config.go: Settings consumed here
  - store/: Blob drivers
*/
package factory

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vesselflow/ppe-engine/advisory"
	"github.com/vesselflow/ppe-engine/config"
	"github.com/vesselflow/ppe-engine/events"
	"github.com/vesselflow/ppe-engine/store"
	"github.com/vesselflow/ppe-engine/store/fs"
	"github.com/vesselflow/ppe-engine/store/memory"
	"github.com/vesselflow/ppe-engine/store/postgres"
	"github.com/vesselflow/ppe-engine/store/redis"
	"github.com/vesselflow/ppe-engine/store/s3"
	"github.com/vesselflow/ppe-engine/store/sqlite"
)

// ErrNoAPIKey is what the stub generator fails with when no key is set.
var ErrNoAPIKey = errors.New("advisor api key not configured")

func noClose() error { return nil }

// =============================================================================
// STORAGE
// =============================================================================

// OpenBlob opens the configured blob driver.
func OpenBlob(ctx context.Context, cfg config.StorageConfig) (store.Blob, func() error, error) {
	switch store.Driver(cfg.Driver) {
	case store.DriverSQLite, "":
		s, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, noClose, err
		}
		return s, s.Close, nil
	case store.DriverFS:
		s, err := fs.New(cfg.FSRoot)
		if err != nil {
			return nil, noClose, err
		}
		return s, noClose, nil
	case store.DriverMemory:
		return memory.New(), noClose, nil
	case store.DriverS3:
		s, err := s3.New(ctx, s3.Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Prefix:    cfg.S3.Prefix,
			Endpoint:  cfg.S3.Endpoint,
			PathStyle: cfg.S3.PathStyle,
		})
		if err != nil {
			return nil, noClose, err
		}
		return s, noClose, nil
	case store.DriverRedis:
		s, err := redis.New(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, noClose, err
		}
		return s, s.Close, nil
	case store.DriverPostgres:
		s, err := postgres.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, noClose, err
		}
		return s, s.Close, nil
	default:
		return nil, noClose, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// =============================================================================
// ADVISOR
// =============================================================================

// NewGenerator returns a Gemini generator, or a stub that always fails with
// ErrNoAPIKey when no key is configured. The advisory client turns those
// failures into fallback text, so the service still starts without a key.
func NewGenerator(ctx context.Context, cfg config.AdvisorConfig, logger *zap.Logger) (advisory.Generator, error) {
	if cfg.APIKey == "" {
		logger.Warn("no advisor API key configured; advisory answers will use fallback text")
		return advisory.GeneratorFunc(func(context.Context, string) (string, error) {
			return "", ErrNoAPIKey
		}), nil
	}
	gen, err := advisory.NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		return nil, err
	}
	logger.Info("advisor ready", zap.String("model", gen.Model()))
	return gen, nil
}

// =============================================================================
// EVENTS
// =============================================================================

// NewPublisher returns a Kafka publisher, or Noop when no brokers are set.
func NewPublisher(cfg config.EventsConfig) (events.Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return events.Noop{}, nil
	}
	return events.NewKafka(cfg.Brokers)
}

// =============================================================================
// LOGGING
// =============================================================================

// NewLogger builds a zap logger: production JSON by default, development
// console output when format is "console".
func NewLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
