package config

import (
	"time"
)

// Config is the root configuration for the service.
type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Log       LogConfig       `koanf:"log"`
	Messaging MessagingConfig `koanf:"messaging"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name    string     `koanf:"name"`
	Version string     `koanf:"version"`
	Env     string     `koanf:"env"`
	Debug   bool       `koanf:"debug"`
	Rate    RateConfig `koanf:"rate"`
}

// RateConfig holds request rate limiting settings.
type RateConfig struct {
	Limit int `koanf:"limit"` // requests per second per client IP
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout TimeoutConfig `koanf:"timeout"`
	Path    PathConfig    `koanf:"path"`
}

// TimeoutConfig holds server timeout settings.
type TimeoutConfig struct {
	Read     time.Duration `koanf:"read"`
	Write    time.Duration `koanf:"write"`
	Shutdown time.Duration `koanf:"shutdown"`
}

// PathConfig holds server path settings.
type PathConfig struct {
	Base string `koanf:"base"` // base path for all routes, should start with "/"
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string    `koanf:"host"`
	Port     int       `koanf:"port"`
	Database string    `koanf:"database"`
	Username string    `koanf:"username"`
	Password string    `koanf:"password"`
	SSL      SSLConfig `koanf:"ssl"`

	// ConnectionString overrides the individual fields when set.
	ConnectionString string `koanf:"connectionstring"`

	Pool  PoolConfig  `koanf:"pool"`
	Query QueryConfig `koanf:"query"`
}

// SSLConfig holds TLS settings for the database connection.
type SSLConfig struct {
	Mode string `koanf:"mode"`
}

// PoolConfig holds connection pool sizing settings.
type PoolConfig struct {
	Max      PoolSizeConfig     `koanf:"max"`
	Min      PoolSizeConfig     `koanf:"min"`
	Lifetime PoolLifetimeConfig `koanf:"lifetime"`
	Idle     PoolIdleConfig     `koanf:"idle"`
}

// PoolSizeConfig holds a connection count bound.
type PoolSizeConfig struct {
	Connections int32 `koanf:"connections"`
}

// PoolLifetimeConfig holds the maximum lifetime of a pooled connection.
type PoolLifetimeConfig struct {
	Max time.Duration `koanf:"max"`
}

// PoolIdleConfig holds the maximum idle time of a pooled connection.
type PoolIdleConfig struct {
	Time time.Duration `koanf:"time"`
}

// QueryConfig controls query tracking and logging behavior.
type QueryConfig struct {
	Slow SlowQueryConfig `koanf:"slow"`
	Log  QueryLogConfig  `koanf:"log"`
}

// SlowQueryConfig holds the slow query detection threshold.
type SlowQueryConfig struct {
	Threshold time.Duration `koanf:"threshold"`
}

// QueryLogConfig controls how executed queries are logged.
type QueryLogConfig struct {
	MaxLength  int  `koanf:"maxlength"`
	Parameters bool `koanf:"parameters"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Pretty bool   `koanf:"pretty"`
}

// MessagingConfig holds AMQP broker settings. An empty broker URL disables
// event publishing entirely.
type MessagingConfig struct {
	Broker   BrokerConfig `koanf:"broker"`
	Exchange string       `koanf:"exchange"`
}

// BrokerConfig holds the AMQP broker endpoint.
type BrokerConfig struct {
	URL string `koanf:"url"`
}
