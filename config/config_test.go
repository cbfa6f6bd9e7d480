package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Database.Type)
	assert.Equal(t, "INR", cfg.Booking.Currency)
	assert.Equal(t, "X-User-ID", cfg.Auth.UserHeader)
	assert.Equal(t, 12*time.Hour, cfg.CORS.MaxAge)
	assert.Equal(t, 3, cfg.Database.Retry.MaxAttempts)
	assert.Equal(t, "bookings", cfg.Mongo.Collection)

	loc, err := cfg.Booking.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("booking:\n  timezone: Asia/Kolkata\nredis:\n  enabled: true\n  listing_ttl: 30s\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	t.Setenv("RESORT_SERVER_PORT", "9090")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Redis.ListingTTL)
	loc, err := cfg.Booking.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())
}

func TestLoad_RejectsUnknownDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  type: oracle\n"), 0o600))

	_, err := Load(path)

	assert.ErrorContains(t, err, "unsupported database type")
}
