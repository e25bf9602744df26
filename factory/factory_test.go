package factory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vesselflow/ppe-engine/config"
	"github.com/vesselflow/ppe-engine/events"
	"github.com/vesselflow/ppe-engine/factory"
	"github.com/vesselflow/ppe-engine/store"
)

func TestOpenBlob_Drivers(t *testing.T) {
	ctx := context.Background()
	base := config.Defaults().Storage
	base.SQLitePath = ":memory:"
	base.FSRoot = t.TempDir()

	for _, driver := range []store.Driver{store.DriverSQLite, store.DriverFS, store.DriverMemory} {
		t.Run(string(driver), func(t *testing.T) {
			cfg := base
			cfg.Driver = string(driver)

			blob, closeBlob, err := factory.OpenBlob(ctx, cfg)
			require.NoError(t, err)
			defer closeBlob()

			assert.Equal(t, driver, blob.Driver())
			_, err = blob.Get(ctx, cfg.Key)
			assert.ErrorIs(t, err, store.ErrNotFound)
		})
	}
}

func TestOpenBlob_Errors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		driver string
		want   string
	}{
		{"s3", "s3 bucket required"},
		{"redis", "redis addr required"},
		{"postgres", "postgres dsn required"},
		{"floppy", `unknown storage driver "floppy"`},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			cfg := config.Defaults().Storage
			cfg.Driver = tt.driver

			_, closeBlob, err := factory.OpenBlob(ctx, cfg)

			assert.EqualError(t, err, tt.want)
			assert.NoError(t, closeBlob())
		})
	}
}

func TestNewGenerator_WithoutKey(t *testing.T) {
	gen, err := factory.NewGenerator(context.Background(), config.AdvisorConfig{}, zap.NewNop())
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), "prompt")

	assert.ErrorIs(t, err, factory.ErrNoAPIKey)
}

func TestNewPublisher(t *testing.T) {
	p, err := factory.NewPublisher(config.EventsConfig{})
	require.NoError(t, err)
	assert.IsType(t, events.Noop{}, p)

	p, err = factory.NewPublisher(config.EventsConfig{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)
	assert.IsType(t, &events.Kafka{}, p)
	assert.NoError(t, p.Close())
}

func TestNewLogger(t *testing.T) {
	logger, err := factory.NewLogger(config.LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = factory.NewLogger(config.LogConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))

	_, err = factory.NewLogger(config.LogConfig{Level: "loud"})
	assert.Error(t, err)
}
