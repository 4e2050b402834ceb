package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"HTTP_PORT", "DISPATCH_RADIUS_KM", "SURGE_GEOFENCE_ENABLED", "PROVIDER_TIMEOUT", "CORS_ALLOW_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := ConfigFromEnv()

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.InDelta(t, 30.0, cfg.DispatchRadiusKm, 1e-9)
	assert.False(t, cfg.SurgeGeofenceEnabled)
	assert.Equal(t, 10*time.Second, cfg.ProviderTimeout)
	assert.Empty(t, cfg.CORSAllowOrigins)
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("APP_ENV", "development")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("DISPATCH_RADIUS_KM", "12.5")
	t.Setenv("SURGE_GEOFENCE_ENABLED", "true")
	t.Setenv("LOCATION_PING_INTERVAL", "30s")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example,")

	cfg := ConfigFromEnv()

	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 3, cfg.RedisDB)
	assert.InDelta(t, 12.5, cfg.DispatchRadiusKm, 1e-9)
	assert.True(t, cfg.SurgeGeofenceEnabled)
	assert.Equal(t, 30*time.Second, cfg.LocationPingInterval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
}

func TestConfigFromEnv_MalformedFallsBack(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "lots")
	t.Setenv("PROVIDER_TIMEOUT", "10")

	cfg := ConfigFromEnv()

	assert.Equal(t, 40, cfg.RateLimitBurst)
	assert.Equal(t, 10*time.Second, cfg.ProviderTimeout)
}
