package config

import "time"

// Config is the root client configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
	Storage StorageConfig `yaml:"storage"`
	Events  EventsConfig  `yaml:"events"`
	Channel ChannelConfig `yaml:"channel"`
	Log     LogConfig     `yaml:"log"`
}

// APIConfig holds settings for the RTCC HTTP API.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url"   env:"RTCC_API_BASE_URL"   env-required:"true"`
	Timeout   time.Duration `yaml:"timeout"    env:"RTCC_API_TIMEOUT"    env-default:"10s"`
	RateLimit float64       `yaml:"rate_limit" env:"RTCC_API_RATE_LIMIT" env-default:"20"`
	RateBurst int           `yaml:"rate_burst" env:"RTCC_API_RATE_BURST" env-default:"40"`
	UserAgent string        `yaml:"user_agent" env:"RTCC_API_USER_AGENT" env-default:"rtcc-console"`
}

// SessionConfig holds credential lifecycle settings.
type SessionConfig struct {
	SafetyTimeout time.Duration `yaml:"safety_timeout" env:"SESSION_SAFETY_TIMEOUT" env-default:"5s"`
	StorageKey    string        `yaml:"storage_key"    env:"SESSION_STORAGE_KEY"    env-default:"rtcc-auth-storage"`
}

// Storage drivers for the persisted session record.
const (
	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// StorageConfig selects where the persisted session record lives.
type StorageConfig struct {
	Driver      string `yaml:"driver"       env:"STORAGE_DRIVER"       env-default:"file"`
	FilePath    string `yaml:"file_path"    env:"STORAGE_FILE_PATH"    env-default:"./rtcc-session.json"`
	SQLitePath  string `yaml:"sqlite_path"  env:"STORAGE_SQLITE_PATH"  env-default:"./rtcc-session.db"`
	RedisURL    string `yaml:"redis_url"    env:"STORAGE_REDIS_URL"`
	PostgresDSN string `yaml:"postgres_dsn" env:"STORAGE_POSTGRES_DSN"`
}

// EventsConfig holds real-time event cache settings.
type EventsConfig struct {
	Capacity int `yaml:"capacity" env:"EVENTS_CAPACITY" env-default:"500"`
}

// ChannelConfig holds push channel settings. An empty URL disables the channel.
type ChannelConfig struct {
	URL          string        `yaml:"url"           env:"CHANNEL_URL"`
	ReconnectMin time.Duration `yaml:"reconnect_min" env:"CHANNEL_RECONNECT_MIN" env-default:"1s"`
	ReconnectMax time.Duration `yaml:"reconnect_max" env:"CHANNEL_RECONNECT_MAX" env-default:"30s"`
	ReadLimit    int64         `yaml:"read_limit"    env:"CHANNEL_READ_LIMIT"    env-default:"1048576"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Enabled reports whether a push channel endpoint is configured.
func (c ChannelConfig) Enabled() bool {
	return c.URL != ""
}
