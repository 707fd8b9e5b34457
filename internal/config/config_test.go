package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "LOG_LEVEL", "HTTP_ADDR", "KAFKA_BROKERS", "KAFKA_TOPIC", "KAFKA_GROUP", "DATABASE_URL", "EVENT_STORE", "JWT_SECRET", "JWT_ISSUER", "ACCESS_TOKEN_TTL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "marketplace-cart-events", cfg.KafkaTopic)
	assert.Equal(t, "cart-activity", cfg.KafkaGroup)
	assert.Equal(t, "postgres", cfg.EventStore)
	assert.Empty(t, cfg.JWTSecret)
	assert.Equal(t, "unasp-marketplace", cfg.JWTIssuer)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,,")
	t.Setenv("ACCESS_TOKEN_TTL", "1h")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("EVENT_STORE", "Memory")
	t.Setenv("JWT_ISSUER", "https://id.unasp.edu.br")

	cfg := Load()

	assert.Equal(t, "prod", cfg.AppEnv)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "memory", cfg.EventStore)
	assert.Equal(t, "https://id.unasp.edu.br", cfg.JWTIssuer)
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "soon")

	assert.Equal(t, 15*time.Minute, Load().AccessTokenTTL)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{JWTSecret: strings.Repeat("x", 32), KafkaBrokers: []string{"localhost:9092"}, EventStore: "postgres"}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET environment variable is required"},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }, "at least 32 characters"},
		{"unknown event store", func(c *Config) { c.EventStore = "redis" }, "EVENT_STORE"},
		{"no brokers", func(c *Config) { c.KafkaBrokers = nil }, "KAFKA_BROKERS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
