package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/riopardo/rides/internal/pkg/models"
	"github.com/spf13/viper"
)

// InitConfig loads configPath into the environment when running locally and
// builds the service configuration from environment variables.
func InitConfig(configPath string) *models.Config {
	v := newViper()
	if v.GetString("APP_ENV") == "local" {
		// Load config from file
		if err := godotenv.Load(configPath); err != nil {
			log.Println("error loading config from file", err)
		}
	}
	return loadConfig(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "rides-service")
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("APP_VERSION", "development")

	v.SetDefault("SERVER_PORT", 9992)
	v.SetDefault("SERVER_READ_TIMEOUT", 10)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 10)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 30)
	v.SetDefault("SERVER_RATE_LIMIT", 30)
	v.SetDefault("SERVER_RATE_LIMIT_WINDOW", "1m")

	v.SetDefault("DB_DRIVER", "pgx")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_IDLE_CONNS", 2)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_POOL_SIZE", 10)

	v.SetDefault("NATS_URL", "nats://localhost:4222")
	v.SetDefault("NSQ_NSQD_ADDRESS", "localhost:4150")

	v.SetDefault("JWT_EXPIRATION", 60)
	v.SetDefault("JWT_ISSUER", "riopardo")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_TYPE", "stdout")

	v.SetDefault("RIDES_REJECT_POLICY", string(models.RejectPolicyKeepDriver))
	v.SetDefault("RIDES_PRICE_TIMEOUT", "0s")
	v.SetDefault("RIDES_EXPIRY_INTERVAL", "30s")
	v.SetDefault("RIDES_GEOHASH_PRECISION", models.DefaultGeohashPrecision)
	v.SetDefault("RIDES_CACHE_TTL", "10m")
	v.SetDefault("RIDES_BROKER", "nats")
	v.SetDefault("RIDES_STORE", "postgres")
	v.SetDefault("RIDES_MAX_WRITE_RETRIES", 3)
}

func loadConfig(v *viper.Viper) *models.Config {
	configs := &models.Config{}

	// App config
	configs.App.Name = v.GetString("APP_NAME")
	configs.App.Environment = v.GetString("APP_ENV")
	configs.App.Debug = v.GetBool("APP_DEBUG")
	configs.App.Version = v.GetString("APP_VERSION")

	// Server config
	configs.Server.Host = v.GetString("SERVER_HOST")
	configs.Server.Port = v.GetInt("SERVER_PORT")
	configs.Server.ReadTimeout = v.GetInt("SERVER_READ_TIMEOUT")
	configs.Server.WriteTimeout = v.GetInt("SERVER_WRITE_TIMEOUT")
	configs.Server.ShutdownTimeout = v.GetInt("SERVER_SHUTDOWN_TIMEOUT")
	configs.Server.RateLimit = v.GetInt("SERVER_RATE_LIMIT")
	configs.Server.RateLimitWindow = v.GetDuration("SERVER_RATE_LIMIT_WINDOW")

	// Database config
	configs.Database.Driver = v.GetString("DB_DRIVER")
	configs.Database.Host = v.GetString("DB_HOST")
	configs.Database.Port = v.GetInt("DB_PORT")
	configs.Database.Username = v.GetString("DB_USERNAME")
	configs.Database.Password = v.GetString("DB_PASSWORD")
	configs.Database.Database = v.GetString("DB_DATABASE")
	configs.Database.SSLMode = v.GetString("DB_SSL_MODE")
	configs.Database.MaxConns = v.GetInt("DB_MAX_CONNS")
	configs.Database.IdleConns = v.GetInt("DB_IDLE_CONNS")

	// Redis config
	configs.Redis.Host = v.GetString("REDIS_HOST")
	configs.Redis.Port = v.GetInt("REDIS_PORT")
	configs.Redis.Password = v.GetString("REDIS_PASSWORD")
	configs.Redis.DB = v.GetInt("REDIS_DB")
	configs.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")

	// Broker config
	configs.NATS.URL = v.GetString("NATS_URL")
	configs.NSQ.NSQDAddress = v.GetString("NSQ_NSQD_ADDRESS")
	configs.NSQ.LookupAddresses = splitList(v.GetString("NSQ_LOOKUPD_ADDRESSES"))

	// JWT config
	configs.JWT.Secret = v.GetString("JWT_SECRET")
	configs.JWT.Expiration = v.GetInt("JWT_EXPIRATION")
	configs.JWT.Issuer = v.GetString("JWT_ISSUER")

	// Logger config
	configs.Logger.Level = v.GetString("LOG_LEVEL")
	configs.Logger.FilePath = v.GetString("LOG_FILE_PATH")
	configs.Logger.Type = v.GetString("LOG_TYPE")

	// Rides config
	configs.Rides.RejectPolicy = parseRejectPolicy(v.GetString("RIDES_REJECT_POLICY"))
	configs.Rides.PriceTimeout = v.GetDuration("RIDES_PRICE_TIMEOUT")
	configs.Rides.ExpiryInterval = v.GetDuration("RIDES_EXPIRY_INTERVAL")
	configs.Rides.GeohashPrecision = v.GetUint("RIDES_GEOHASH_PRECISION")
	configs.Rides.CacheTTL = v.GetDuration("RIDES_CACHE_TTL")
	configs.Rides.Broker = strings.ToLower(v.GetString("RIDES_BROKER"))
	configs.Rides.Store = strings.ToLower(v.GetString("RIDES_STORE"))
	configs.Rides.MaxWriteRetries = v.GetInt("RIDES_MAX_WRITE_RETRIES")

	if configs.Rides.ExpiryInterval <= 0 {
		configs.Rides.ExpiryInterval = 30 * time.Second
	}

	return configs
}

func parseRejectPolicy(s string) models.RejectPolicy {
	switch models.RejectPolicy(strings.ToLower(s)) {
	case models.RejectPolicyClearDriver:
		return models.RejectPolicyClearDriver
	case models.RejectPolicyKeepDriver:
		return models.RejectPolicyKeepDriver
	}
	log.Printf("Warning: Invalid reject policy %q, using default: %s", s, models.RejectPolicyKeepDriver)
	return models.RejectPolicyKeepDriver
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
