package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_token_ttl must be > 0 (got %v)", c.Auth.AccessTokenTTL)
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("auth.bcrypt_cost must be within 4..31 (got %d)", c.Auth.BcryptCost)
	}
	if c.Auth.LoginRatePerMinute <= 0 {
		return fmt.Errorf("auth.login_rate_per_minute must be > 0 (got %d)", c.Auth.LoginRatePerMinute)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be within 1..65535 (got %d)", c.Server.Port)
	}

	if c.Codec.MinLength < 0 || c.Codec.MinLength > 32 {
		return fmt.Errorf("codec.min_length must be within 0..32 (got %d)", c.Codec.MinLength)
	}

	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be > 0 when the cache is enabled (got %v)", c.Cache.TTL)
	}

	if c.GraphQL.MaxDepth <= 0 {
		return fmt.Errorf("graphql.max_depth must be > 0 (got %d)", c.GraphQL.MaxDepth)
	}
	if c.GraphQL.MaxComplexity <= 0 {
		return fmt.Errorf("graphql.max_complexity must be > 0 (got %d)", c.GraphQL.MaxComplexity)
	}

	if c.Realtime.PingInterval <= 0 {
		return fmt.Errorf("realtime.ping_interval must be > 0 (got %v)", c.Realtime.PingInterval)
	}
	if c.Realtime.SendBuffer <= 0 {
		return fmt.Errorf("realtime.send_buffer must be > 0 (got %d)", c.Realtime.SendBuffer)
	}

	if c.Audit.Retention <= 0 {
		return fmt.Errorf("audit.retention must be > 0 (got %v)", c.Audit.Retention)
	}

	return nil
}
