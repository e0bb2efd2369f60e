// Package config loads application configuration from environment variables
// into structs, using github.com/caarlos0/env/v11 field tags.
//
// Values from .env files (read with github.com/joho/godotenv) fill the gaps
// the process environment leaves. By default only ./.env is read and only if
// it exists; WithEnvFiles names required files instead. Load never writes to
// the process environment and keeps no cache, so every call sees the current
// environment.
//
//	var cfg struct {
//		Addr      string `env:"HTTP_ADDR" envDefault:":8080"`
//		ViewPaths []string `env:"VIEW_PATHS" envDefault:"views"`
//	}
//	if err := config.Load(&cfg, config.WithEnvFiles(".env", ".env.local")); err != nil {
//		log.Fatal(err)
//	}
//
// Errors wrap ErrParsingConfig or ErrLoadingEnvFile and can be checked with
// errors.Is.
package config
