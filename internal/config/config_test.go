package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestBuild_AppliesDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg := build()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "burns.db", cfg.LocalStore.Path)
	assert.Equal(t, 10*time.Minute, cfg.Cache.WeatherCacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.Cache.GeocodeCacheTTL)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.Groq.Model)
	assert.Equal(t, 15*time.Second, cfg.Connectivity.ProbeInterval)
	assert.Equal(t, "burn-sync-workers", cfg.Worker.ConsumerGroup)
}

func TestBuild_ReadsEnvironment(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("API_PORT", "9090")
	t.Setenv("LOCAL_DB_PATH", "/data/field.db")
	t.Setenv("WEATHER_CACHE_TTL", "60")
	t.Setenv("GROQ_API_KEY", "gsk_test")
	viper.AutomaticEnv()

	cfg := build()

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/data/field.db", cfg.LocalStore.Path)
	assert.Equal(t, time.Minute, cfg.Cache.WeatherCacheTTL)
	assert.Equal(t, "gsk_test", cfg.Groq.APIKey)
	assert.Equal(t, ":9090", cfg.GetServerAddr())
}
