package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	cache      sync.Map // reflect.Type -> any
	dotenvOnce sync.Once
)

// Load parses environment variables into a new T using its env tags. The
// first call also loads a .env file from the working directory when present.
// Successful results are cached per type for the lifetime of the process.
//
//	type DatabaseConfig struct {
//		URL string `env:"PG_CONN_URL,required"`
//	}
//
//	cfg, err := config.Load[DatabaseConfig]()
func Load[T any]() (T, error) {
	dotenvOnce.Do(func() {
		// A missing .env file is fine; the environment may be set directly
		_ = godotenv.Load()
	})

	key := reflect.TypeFor[T]()
	if cached, ok := cache.Load(key); ok {
		return cached.(T), nil
	}

	var v T
	if err := env.Parse(&v); err != nil {
		var zero T
		return zero, errors.Join(ErrParsingConfig, err)
	}

	// A concurrent loader may have won; both parsed the same environment
	actual, _ := cache.LoadOrStore(key, v)
	return actual.(T), nil
}

// MustLoad works like Load but panics when the configuration cannot be
// parsed. Use it for settings the process cannot start without.
func MustLoad[T any]() T {
	v, err := Load[T]()
	if err != nil {
		panic(fmt.Sprintf("failed to load %s configuration: %v", reflect.TypeFor[T](), err))
	}
	return v
}

// Reset drops every cached configuration so the next Load parses again.
func Reset() {
	cache.Range(func(key, _ any) bool {
		cache.Delete(key)
		return true
	})
}
