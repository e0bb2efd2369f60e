package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is read when present; a missing one is not an error.
const DefaultEnvFile = ".env"

// Option configures Load.
type Option func(*loader)

type loader struct {
	files       []string
	filesSet    bool
	environment map[string]string
	prefix      string
}

// WithEnvFiles reads the given .env files instead of DefaultEnvFile. Later
// files override earlier ones; the process environment overrides them all.
// Every file must exist. With no paths no file is read.
func WithEnvFiles(paths ...string) Option {
	return func(l *loader) {
		l.files = paths
		l.filesSet = true
	}
}

// WithEnvironment replaces the process environment, mostly for tests.
func WithEnvironment(environment map[string]string) Option {
	return func(l *loader) { l.environment = environment }
}

// WithPrefix only reads variables starting with prefix, e.g. "APP_".
func WithPrefix(prefix string) Option {
	return func(l *loader) { l.prefix = prefix }
}

// Load parses the environment, merged over the .env files, into v using its
// env struct tags. It never modifies the process environment.
//
//	type ServerConfig struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg ServerConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	l := &loader{}
	for _, opt := range opts {
		opt(l)
	}

	environment, err := l.environ()
	if err != nil {
		return err
	}

	if err := env.ParseWithOptions(v, env.Options{
		Environment: environment,
		Prefix:      l.prefix,
	}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics on failure.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

func (l *loader) environ() (map[string]string, error) {
	merged := make(map[string]string)

	files, optional := l.files, false
	if !l.filesSet {
		files, optional = []string{DefaultEnvFile}, true
	}
	for _, path := range files {
		values, err := godotenv.Read(path)
		if err != nil {
			if optional && errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, errors.Join(ErrLoadingEnvFile, err)
		}
		maps.Copy(merged, values)
	}

	environment := l.environment
	if environment == nil {
		environment = processEnv()
	}
	maps.Copy(merged, environment)
	return merged, nil
}

func processEnv() map[string]string {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			out[k] = v
		}
	}
	return out
}
