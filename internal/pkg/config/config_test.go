package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riopardo/rides/internal/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestInitConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	cfg := InitConfig("does-not-exist.env")

	assert.Equal(t, "rides-service", cfg.App.Name)
	assert.Equal(t, 9992, cfg.Server.Port)
	assert.Equal(t, 30, cfg.Server.RateLimit)
	assert.Equal(t, time.Minute, cfg.Server.RateLimitWindow)
	assert.Equal(t, models.RejectPolicyKeepDriver, cfg.Rides.RejectPolicy)
	assert.Equal(t, time.Duration(0), cfg.Rides.PriceTimeout)
	assert.Equal(t, 30*time.Second, cfg.Rides.ExpiryInterval)
	assert.Equal(t, uint(models.DefaultGeohashPrecision), cfg.Rides.GeohashPrecision)
	assert.Equal(t, "nats", cfg.Rides.Broker)
	assert.Equal(t, "postgres", cfg.Rides.Store)
	assert.Equal(t, 10, cfg.Server.WriteTimeout)
}

func TestInitConfig_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("RIDES_REJECT_POLICY", "clear_driver")
	t.Setenv("RIDES_PRICE_TIMEOUT", "2m")
	t.Setenv("RIDES_BROKER", "NSQ")
	t.Setenv("RIDES_STORE", "Memory")
	t.Setenv("SERVER_WRITE_TIMEOUT", "3")
	t.Setenv("NSQ_LOOKUPD_ADDRESSES", "a:4161, b:4161,")

	cfg := InitConfig("")

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, models.RejectPolicyClearDriver, cfg.Rides.RejectPolicy)
	assert.Equal(t, 2*time.Minute, cfg.Rides.PriceTimeout)
	assert.Equal(t, "nsq", cfg.Rides.Broker)
	assert.Equal(t, "memory", cfg.Rides.Store)
	assert.Equal(t, 3, cfg.Server.WriteTimeout)
	assert.Equal(t, []string{"a:4161", "b:4161"}, cfg.NSQ.LookupAddresses)
}

func TestInitConfig_LoadsEnvFileLocally(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rides.env")
	err := os.WriteFile(path, []byte("DB_DATABASE=rides_test\nJWT_SECRET=file-secret\n"), 0o600)
	assert.NoError(t, err)

	t.Setenv("APP_ENV", "local")
	// godotenv never overrides variables already present, so make sure they are unset
	t.Setenv("DB_DATABASE", "")
	os.Unsetenv("DB_DATABASE")
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	cfg := InitConfig(path)

	assert.Equal(t, "rides_test", cfg.Database.Database)
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
}

func TestParseRejectPolicy_Invalid(t *testing.T) {
	assert.Equal(t, models.RejectPolicyKeepDriver, parseRejectPolicy("sometimes"))
}
