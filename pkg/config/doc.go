// Package config loads typed configuration from environment variables and
// optional dotenv files.
//
// It wraps `github.com/caarlos0/env/v11` for struct tag parsing and
// `github.com/joho/godotenv` for dotenv files. Files never override
// variables that are already set, and missing files are skipped, so the
// same call works locally and in containers.
//
// # Usage
//
//	cfg, err := config.Load[form.EnvConfig](config.WithEnvFiles(".env"))
//	if err != nil {
//		return err
//	}
//
// Tests can pass WithEnvironment to avoid touching the process
// environment:
//
//	cfg, err := config.Load[httpserver.Config](config.WithEnvironment(map[string]string{
//		"HTTP_ADDR": ":9000",
//	}))
//
// # Error Handling
//
// Parse failures are joined with ErrParsingConfig; unreadable files are
// wrapped with ErrReadingEnvFile. Use errors.Is to check them.
package config
