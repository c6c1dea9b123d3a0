package models

// Config represents application configuration
type Config struct {
	App       AppConfig
	Server    ServerConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	NATS      NATSConfig
	Logger    LoggerConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains the public and control listener configuration.
// ControlPort defaults to Port+1 and is always bound to loopback: the
// control plane is reachable by co-located trusted processes only.
type ServerConfig struct {
	Host            string
	Port            int
	ControlPort     int
	ControlAPIKey   string
	ShutdownTimeout int // seconds
}

// JWTConfig contains JWT authentication configuration.
// An empty Secret switches the gateway into insecure development mode:
// every connection is accepted anonymously.
type JWTConfig struct {
	Secret string
	Issuer string
}

// RateLimitConfig contains the per-connection message rate limit.
type RateLimitConfig struct {
	MessagesPerMinute int
}

// RedisConfig contains Redis connection configuration.
// Presence tracking is disabled when Host is empty.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NATSConfig contains NATS connection configuration.
// The broadcast subscription is disabled when URL is empty.
type NATSConfig struct {
	URL string
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level    string
	FilePath string
}
