package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Codec    CodecConfig    `yaml:"codec"`
	Cache    CacheConfig    `yaml:"cache"`
	GraphQL  GraphQLConfig  `yaml:"graphql"`
	Realtime RealtimeConfig `yaml:"realtime"`
	Audit    AuditConfig    `yaml:"audit"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	// StatementTimeout is applied per connection; zero leaves the server default.
	StatementTimeout time.Duration `yaml:"statement_timeout" env:"DATABASE_STATEMENT_TIMEOUT" env-default:"15s"`
}

// RedisConfig holds Redis connection settings. An empty URL disables the
// document cache and the cross-instance change bus.
type RedisConfig struct {
	URL      string `yaml:"url"       env:"REDIS_URL"`
	PoolSize int    `yaml:"pool_size" env:"REDIS_POOL_SIZE" env-default:"10"`
}

// Enabled reports whether a Redis URL is configured.
func (c RedisConfig) Enabled() bool {
	return strings.TrimSpace(c.URL) != ""
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	JWTSecret           string        `yaml:"jwt_secret"           env:"AUTH_JWT_SECRET"           env-required:"true"`
	JWTIssuer           string        `yaml:"jwt_issuer"           env:"AUTH_JWT_ISSUER"           env-default:"contracthub"`
	AccessTokenTTL      time.Duration `yaml:"access_token_ttl"     env:"AUTH_ACCESS_TOKEN_TTL"     env-default:"24h"`
	BcryptCost          int           `yaml:"bcrypt_cost"          env:"AUTH_BCRYPT_COST"          env-default:"12"`
	LoginRatePerMinute  int           `yaml:"login_rate_per_minute" env:"AUTH_LOGIN_RATE_PER_MINUTE" env-default:"10"`
	RegistrationEnabled bool          `yaml:"registration_enabled" env:"AUTH_REGISTRATION_ENABLED" env-default:"true"`
}

// CodecConfig holds public code settings. Changing Secret changes every
// public code, so it must stay fixed for the life of a deployment.
type CodecConfig struct {
	Secret    string `yaml:"secret"     env:"CODEC_SECRET"`
	MinLength int    `yaml:"min_length" env:"CODEC_MIN_LENGTH" env-default:"6"`
}

// CacheConfig holds document cache settings. The cache only runs when Redis
// is configured.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" env:"CACHE_ENABLED" env-default:"true"`
	TTL     time.Duration `yaml:"ttl"     env:"CACHE_TTL"     env-default:"5m"`
}

// GraphQLConfig holds GraphQL server settings.
type GraphQLConfig struct {
	PlaygroundEnabled bool `yaml:"playground_enabled" env:"GRAPHQL_PLAYGROUND_ENABLED" env-default:"false"`
	MaxDepth          int  `yaml:"max_depth"          env:"GRAPHQL_MAX_DEPTH"          env-default:"8"`
	MaxComplexity     int  `yaml:"max_complexity"     env:"GRAPHQL_MAX_COMPLEXITY"     env-default:"1000"`
}

// RealtimeConfig holds WebSocket change feed settings.
type RealtimeConfig struct {
	OriginPatterns string        `yaml:"origin_patterns" env:"REALTIME_ORIGIN_PATTERNS"`
	PingInterval   time.Duration `yaml:"ping_interval"   env:"REALTIME_PING_INTERVAL"   env-default:"30s"`
	SendBuffer     int           `yaml:"send_buffer"     env:"REALTIME_SEND_BUFFER"     env-default:"64"`
}

// Origins returns the configured origin patterns as a slice.
func (c RealtimeConfig) Origins() []string {
	var out []string
	for _, p := range strings.Split(c.OriginPatterns, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// AuditConfig controls the change history table. Retention is applied by
// cmd/cleanup, not by the server.
type AuditConfig struct {
	Enabled   bool          `yaml:"enabled"   env:"AUDIT_ENABLED"   env-default:"true"`
	Retention time.Duration `yaml:"retention" env:"AUDIT_RETENTION" env-default:"2160h"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
