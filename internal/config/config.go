// Package config provides configuration structures and validation for the WebGold services.
// It handles environment-based configuration for the HTTP API and the ledger processor,
// including storage, messaging, rate sources, the Ethereum node and payment constants.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Config holds the complete application configuration with settings for all components.
// Both binaries load the same structure; each uses the sections it needs.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Kafka       KafkaConfig
	Postgres    PostgresConfig
	MongoDB     MongoDBConfig
	Redis       RedisConfig
	Outbox      OutboxConfig
	WorkerPool  WorkerPoolConfig
	Auth        AuthConfig
	Payment     PaymentConfig
	Rates       RatesConfig
	Ethereum    EthereumConfig
	Feeder      FeederConfig
	RateLimit   RateLimitConfig
	Metrics     MetricsConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
	AllowedOrigins  []string      // CORS origins allowed to call the API (admin dashboard)
}

// KafkaConfig contains Kafka configuration
type KafkaConfig struct {
	Brokers           string
	MutationTopic     string
	NumPartitions     int // Number of partitions for topics
	ReplicationFactor int // Replication factor for topics
	ConsumerGroup     string
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	StartOffset       int64
	DLQTopic          string // Topic for Dead Letter Queue
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string        // Database connection string
	MaxConns        int32         // Maximum number of open connections
	MinConns        int32         // Minimum number of idle connections
	ConnMaxLifetime time.Duration // Maximum lifetime of a connection
	ConnMaxIdleTime time.Duration // Maximum idle time of a connection
	MigrationsPath  string        // Path to migration files
}

// MongoDBConfig contains MongoDB configuration
type MongoDBConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// RedisConfig contains Redis configuration used for idempotency keys
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	IdempotencyTTL time.Duration
}

// OutboxConfig contains outbox pattern configuration
type OutboxConfig struct {
	PollingInterval  time.Duration
	BatchSize        int
	MaxRetryAttempts int // Maximum number of retry attempts for outbox messages
}

// WorkerPoolConfig contains worker pool configuration
type WorkerPoolConfig struct {
	Size int // Maximum number of workers in the pool
}

// AuthConfig describes how session identities issued by the login service are verified
type AuthConfig struct {
	JWTSecret    string
	CookieName   string
	WorkDomain   string
	LoginURL     string
	AdminWrioIDs []string
}

// PaymentConfig holds the fixed monetary constants of the platform
type PaymentConfig struct {
	GramPriceUSD        decimal.Decimal // USD price of one gram of gold backing one WRG
	StaticExchangeRate  decimal.Decimal // Served by the funds endpoint when live data is unavailable
	EtherDisplayDivisor int64           // ETH minor units per displayed unit
}

// RatesConfig configures the external BTC rate source and its cache
type RatesConfig struct {
	Provider     string // "blockchain" or "coingecko"
	BaseURL      string
	APIKey       string
	CacheTTL     time.Duration
	MaxStaleness time.Duration
	FetchTimeout time.Duration
}

// EthereumConfig configures access to the Ethereum node and the WRG token contract
type EthereumConfig struct {
	RPCURL        string
	TokenAddress  string
	MasterAddress string
	GasLimit      uint64
}

// FeederConfig configures the periodic ether feeding of user wallets
type FeederConfig struct {
	Interval  time.Duration
	Threshold int64 // Accounts below this ETH balance (minor units) get fed
	Amount    int64 // ETH minor units per feed
	BatchSize int
}

// RateLimitConfig configures per-client throttling of user endpoints
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// MetricsConfig configures the metrics listener of background services
type MetricsConfig struct {
	Port int
}

// validate performs comprehensive validation of all configuration values,
// ensuring they meet minimum requirements and logical constraints
func (c *Config) validate() error {
	var validationErrors []string

	// Validate Server config
	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	// Validate Kafka config
	if len(c.Kafka.Brokers) == 0 {
		validationErrors = append(validationErrors, "KAFKA_BROKERS is required")
	}
	if c.Kafka.MutationTopic == "" {
		validationErrors = append(validationErrors, "KAFKA_MUTATION_TOPIC is required")
	}
	if c.Kafka.ConsumerGroup == "" {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_GROUP is required")
	}
	if c.Kafka.MinBytes <= 0 {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MIN_BYTES must be greater than 0")
	}
	if c.Kafka.MaxBytes <= 0 {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MAX_BYTES must be greater than 0")
	}
	if c.Kafka.MaxWait <= 0 {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MAX_WAIT must be greater than 0")
	}

	// Validate PostgreSQL config
	if c.Postgres.URL == "" {
		validationErrors = append(validationErrors, "POSTGRES_URL is required")
	}
	if c.Postgres.MaxConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONNS must be greater than 0")
	}
	if c.Postgres.MinConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MIN_CONNS must be greater than 0")
	}
	if c.Postgres.ConnMaxLifetime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
	}
	if c.Postgres.ConnMaxIdleTime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	// Validate MongoDB config
	if c.MongoDB.URI == "" {
		validationErrors = append(validationErrors, "MONGO_URI is required")
	}
	if c.MongoDB.Database == "" {
		validationErrors = append(validationErrors, "MONGO_DATABASE is required")
	}
	if c.MongoDB.Timeout <= 0 {
		validationErrors = append(validationErrors, "MONGO_TIMEOUT must be greater than 0")
	}
	if c.MongoDB.MaxPoolSize <= 0 {
		validationErrors = append(validationErrors, "MONGO_MAX_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.MinPoolSize <= 0 {
		validationErrors = append(validationErrors, "MONGO_MIN_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.MaxConnIdleTime <= 0 {
		validationErrors = append(validationErrors, "MONGO_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	// Validate Redis config
	if c.Redis.Addr == "" {
		validationErrors = append(validationErrors, "REDIS_ADDR is required")
	}
	if c.Redis.IdempotencyTTL <= 0 {
		validationErrors = append(validationErrors, "REDIS_IDEMPOTENCY_TTL must be greater than 0")
	}

	// Validate Outbox config
	if c.Outbox.PollingInterval <= 0 {
		validationErrors = append(validationErrors, "OUTBOX_POLLING_INTERVAL must be greater than 0")
	}
	if c.Outbox.BatchSize <= 0 {
		validationErrors = append(validationErrors, "OUTBOX_BATCH_SIZE must be greater than 0")
	}
	if c.Outbox.MaxRetryAttempts <= 0 {
		validationErrors = append(validationErrors, "OUTBOX_MAX_RETRY_ATTEMPTS must be greater than 0")
	}

	// Validate WorkerPool config
	if c.WorkerPool.Size <= 0 {
		validationErrors = append(validationErrors, "WORKER_POOL_SIZE must be greater than 0")
	}

	// Validate Auth config
	if c.Auth.JWTSecret == "" {
		validationErrors = append(validationErrors, "AUTH_JWT_SECRET is required")
	}
	if c.Auth.CookieName == "" {
		validationErrors = append(validationErrors, "AUTH_COOKIE_NAME is required")
	}

	// Validate Payment config
	if !c.Payment.GramPriceUSD.IsPositive() {
		validationErrors = append(validationErrors, "PAYMENT_GRAM_PRICE_USD must be a positive decimal")
	}
	if !c.Payment.StaticExchangeRate.IsPositive() {
		validationErrors = append(validationErrors, "PAYMENT_WRG_EXCHANGE_RATE must be a positive decimal")
	}
	if c.Payment.EtherDisplayDivisor <= 0 {
		validationErrors = append(validationErrors, "PAYMENT_ETHER_DISPLAY_DIVISOR must be greater than 0")
	}

	// Validate Rates config
	if c.Rates.Provider != "blockchain" && c.Rates.Provider != "coingecko" {
		validationErrors = append(validationErrors, "RATES_PROVIDER must be one of: blockchain, coingecko")
	}
	if c.Rates.BaseURL == "" {
		validationErrors = append(validationErrors, "RATES_BASE_URL is required")
	}
	if c.Rates.CacheTTL <= 0 {
		validationErrors = append(validationErrors, "RATES_CACHE_TTL must be greater than 0")
	}
	if c.Rates.MaxStaleness < c.Rates.CacheTTL {
		validationErrors = append(validationErrors, "RATES_MAX_STALENESS must not be shorter than RATES_CACHE_TTL")
	}
	if c.Rates.FetchTimeout <= 0 {
		validationErrors = append(validationErrors, "RATES_FETCH_TIMEOUT must be greater than 0")
	}

	// Validate Ethereum config
	if c.Ethereum.RPCURL == "" {
		validationErrors = append(validationErrors, "ETH_RPC_URL is required")
	}
	if !common.IsHexAddress(c.Ethereum.TokenAddress) {
		validationErrors = append(validationErrors, "ETH_TOKEN_ADDRESS must be a hex address")
	}
	if !common.IsHexAddress(c.Ethereum.MasterAddress) {
		validationErrors = append(validationErrors, "ETH_MASTER_ADDRESS must be a hex address")
	}
	if c.Ethereum.GasLimit == 0 {
		validationErrors = append(validationErrors, "ETH_GAS_LIMIT must be greater than 0")
	}

	// Validate Feeder config
	if c.Feeder.Interval <= 0 {
		validationErrors = append(validationErrors, "FEEDER_INTERVAL must be greater than 0")
	}
	if c.Feeder.Amount <= 0 {
		validationErrors = append(validationErrors, "FEEDER_AMOUNT must be greater than 0")
	}
	if c.Feeder.Threshold <= 0 {
		validationErrors = append(validationErrors, "FEEDER_THRESHOLD must be greater than 0")
	}
	if c.Feeder.BatchSize <= 0 {
		validationErrors = append(validationErrors, "FEEDER_BATCH_SIZE must be greater than 0")
	}

	// Validate RateLimit config
	if c.RateLimit.RPS <= 0 {
		validationErrors = append(validationErrors, "RATE_LIMIT_RPS must be greater than 0")
	}
	if c.RateLimit.Burst <= 0 {
		validationErrors = append(validationErrors, "RATE_LIMIT_BURST must be greater than 0")
	}

	if c.Metrics.Port <= 0 {
		validationErrors = append(validationErrors, "METRICS_PORT must be greater than 0")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}

// IsAdmin reports whether the WRIO ID is listed as a coin administrator
func (a AuthConfig) IsAdmin(wrioID string) bool {
	for _, id := range a.AdminWrioIDs {
		if id == wrioID {
			return true
		}
	}
	return false
}
