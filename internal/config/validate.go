package config

import (
	"fmt"
	"net/url"
	"slices"
)

var storageDrivers = []string{StorageFile, StorageSQLite, StorageRedis, StoragePostgres, StorageMemory}

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := validateURL(c.API.BaseURL, "http", "https"); err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be > 0 (got %v)", c.API.Timeout)
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("api.rate_limit must be >= 0 (got %v)", c.API.RateLimit)
	}
	if c.API.RateLimit > 0 && c.API.RateBurst < 1 {
		return fmt.Errorf("api.rate_burst must be >= 1 when rate_limit is set (got %d)", c.API.RateBurst)
	}

	if c.Session.SafetyTimeout <= 0 {
		return fmt.Errorf("session.safety_timeout must be > 0 (got %v)", c.Session.SafetyTimeout)
	}
	if c.Session.StorageKey == "" {
		return fmt.Errorf("session.storage_key is required")
	}

	if err := c.Storage.validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	if c.Events.Capacity < 1 {
		return fmt.Errorf("events.capacity must be >= 1 (got %d)", c.Events.Capacity)
	}

	if c.Channel.Enabled() {
		if err := validateURL(c.Channel.URL, "ws", "wss"); err != nil {
			return fmt.Errorf("channel.url: %w", err)
		}
		if c.Channel.ReconnectMin <= 0 || c.Channel.ReconnectMax < c.Channel.ReconnectMin {
			return fmt.Errorf("channel: reconnect_min must be > 0 and <= reconnect_max (got %v, %v)",
				c.Channel.ReconnectMin, c.Channel.ReconnectMax)
		}
	}

	return nil
}

func (s *StorageConfig) validate() error {
	if !slices.Contains(storageDrivers, s.Driver) {
		return fmt.Errorf("unknown driver %q", s.Driver)
	}

	switch s.Driver {
	case StorageFile:
		if s.FilePath == "" {
			return fmt.Errorf("file_path is required for driver %q", s.Driver)
		}
	case StorageSQLite:
		if s.SQLitePath == "" {
			return fmt.Errorf("sqlite_path is required for driver %q", s.Driver)
		}
	case StorageRedis:
		if s.RedisURL == "" {
			return fmt.Errorf("redis_url is required for driver %q", s.Driver)
		}
	case StoragePostgres:
		if s.PostgresDSN == "" {
			return fmt.Errorf("postgres_dsn is required for driver %q", s.Driver)
		}
	}
	return nil
}

func validateURL(raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if !slices.Contains(schemes, u.Scheme) {
		return fmt.Errorf("scheme must be one of %v (got %q)", schemes, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}
