package models

import "time"

// Config represents application configuration
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	NSQ      NSQConfig
	JWT      JWTConfig
	Logger   LoggerConfig
	Rides    RidesConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int // seconds, bounds every request except the event streams
	ShutdownTimeout int
	RateLimit       int // requests per window and caller on ride creation, zero disables
	RateLimitWindow time.Duration
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	SSLMode   string
	MaxConns  int
	IdleConns int
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NATSConfig contains NATS connection configuration
type NATSConfig struct {
	URL string
}

// NSQConfig contains NSQ daemon addresses
type NSQConfig struct {
	NSQDAddress     string
	LookupAddresses []string
}

// JWTConfig contains JWT authentication configuration
type JWTConfig struct {
	Secret     string
	Expiration int // in minutes
	Issuer     string
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level    string
	FilePath string
	Type     string
}

// RejectPolicy decides what happens to the driver when a passenger rejects a price
type RejectPolicy string

const (
	// RejectPolicyKeepDriver returns to waitingPrice with the same driver attached
	RejectPolicyKeepDriver RejectPolicy = "keep_driver"
	// RejectPolicyClearDriver returns to waitingPrice without a driver; the passenger must assign one
	RejectPolicyClearDriver RejectPolicy = "clear_driver"
)

// RidesConfig contains ride lifecycle configuration
type RidesConfig struct {
	RejectPolicy     RejectPolicy
	PriceTimeout     time.Duration // zero disables expiry
	ExpiryInterval   time.Duration
	GeohashPrecision uint
	CacheTTL         time.Duration
	Broker           string // nats, nsq or local
	Store            string // postgres or memory
	MaxWriteRetries  int
}
