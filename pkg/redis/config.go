package redis

import "time"

// Config describes how the session service reaches Redis.
type Config struct {
	// ConnectionURL, e.g. redis://:password@localhost:6379/0
	ConnectionURL string `env:"REDIS_URL,required"`
	// PoolSize overrides the go-redis default of 10 connections per CPU when positive
	PoolSize int `env:"REDIS_POOL_SIZE" envDefault:"0"`

	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}
