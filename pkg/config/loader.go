package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Option configures Load.
type Option func(*options)

type options struct {
	files   []string
	prefix  string
	environ map[string]string
}

// WithEnvFiles reads additional variables from dotenv files. Missing files
// are skipped; variables already set in the environment win.
func WithEnvFiles(paths ...string) Option {
	return func(o *options) { o.files = append(o.files, paths...) }
}

// WithPrefix prepends prefix to every env tag.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithEnvironment replaces the process environment as the variable source.
func WithEnvironment(environ map[string]string) Option {
	return func(o *options) { o.environ = environ }
}

// Load parses the environment into a new T using its env struct tags.
//
// Example:
//
//	type DatabaseConfig struct {
//		Host string `env:"DB_HOST" envDefault:"localhost"`
//		Port int    `env:"DB_PORT" envDefault:"5432"`
//	}
//
//	cfg, err := config.Load[DatabaseConfig](config.WithEnvFiles(".env"))
func Load[T any](opts ...Option) (T, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var cfg T
	environ, err := o.environment()
	if err != nil {
		return cfg, err
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ, Prefix: o.prefix}); err != nil {
		return cfg, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](opts ...Option) T {
	cfg, err := Load[T](opts...)
	if err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
	return cfg
}

func (o options) environment() (map[string]string, error) {
	environ := make(map[string]string)
	if o.environ != nil {
		for k, v := range o.environ {
			environ[k] = v
		}
	} else {
		for k, v := range env.ToMap(os.Environ()) {
			environ[k] = v
		}
	}

	for _, path := range o.files {
		values, err := godotenv.Read(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("%w %q: %w", ErrReadingEnvFile, path, err)
		}
		for k, v := range values {
			if _, ok := environ[k]; !ok {
				environ[k] = v
			}
		}
	}
	return environ, nil
}
