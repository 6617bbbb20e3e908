// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11: the
// first Load reads an optional .env file, then each struct type is parsed
// once from its `env` and `envDefault` tags and cached.
//
//	sessionCfg := config.MustLoad[session.Config]()
//	logCfg := config.MustLoad[logger.Config]()
//
// Every package in this module owns its Config type, so the binary composes
// configuration by loading the types it needs. Reset clears the cache and is
// meant for tests.
package config
