package cache

import "time"

// RedisConfig holds connection settings for the Redis cache backend.
type RedisConfig struct {
	ConnectionURL  string        `env:"IDENTITY_CACHE_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RetryAttempts  int           `env:"IDENTITY_CACHE_REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"IDENTITY_CACHE_REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"IDENTITY_CACHE_REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}
