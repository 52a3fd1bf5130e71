package config

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/evaluation-service/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("REPORT_CACHE_TTL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.ReportCacheTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DB_MAX_OPEN_CONNS", "40")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("REPORT_CACHE_TTL", "90s")
	t.Setenv("REPORT_MAX_SUBMISSIONS", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("CASDOOR_CERTIFICATE", `line1\nline2`)
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 40, cfg.DBMaxOpenConns)
	assert.False(t, cfg.CacheEnabled)
	assert.Equal(t, 90*time.Second, cfg.ReportCacheTTL)
	assert.Equal(t, 50000, cfg.ReportMaxSubmissions)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "line1\nline2", cfg.Auth.Certificate)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.GetKafkaBrokers())
}

func TestCreateEventBus(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("disabled uses mock", func(t *testing.T) {
		cfg := EventConfig{Enabled: false}
		bus, err := cfg.CreateEventBus(logger)
		require.NoError(t, err)
		assert.IsType(t, &events.MockEventPublisher{}, bus.Publisher)
		assert.Nil(t, bus.Subscriber)
		assert.NoError(t, bus.Close())
	})

	t.Run("gochannel shares one pubsub", func(t *testing.T) {
		cfg := EventConfig{Enabled: true, Publisher: "gochannel", Topic: "evaluations"}
		bus, err := cfg.CreateEventBus(logger)
		require.NoError(t, err)
		assert.IsType(t, &events.WatermillEventPublisher{}, bus.Publisher)
		assert.NotNil(t, bus.Subscriber)
		assert.NoError(t, bus.Close())
	})

	t.Run("unknown falls back to mock", func(t *testing.T) {
		cfg := EventConfig{Enabled: true, Publisher: "carrier-pigeon"}
		bus, err := cfg.CreateEventBus(logger)
		require.NoError(t, err)
		assert.IsType(t, &events.MockEventPublisher{}, bus.Publisher)
	})
}
