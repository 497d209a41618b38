/* config.go
 * Contains the process configuration read from the environment
 * Authors: knockout-pool contributors
 */

package main

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Config holds everything main needs to wire the pool together
type Config struct {
	MongoURI           string
	Database           string
	JWTSecret          string
	TokenTTL           time.Duration
	Port               string
	AdminEmails        []string
	FailOpen           bool
	LoginRatePerMinute int
	TrustedProxies     []string
	LogLevel           zerolog.Level
}

// loadConfig reads the configuration from the environment
// Postconditions: Returns the config, or an error naming every missing or malformed variable
func loadConfig() (Config, error) {
	cfg := Config{
		MongoURI:       getEnv("MONGODB_URI", ""),
		Database:       getEnv("MONGODB_DATABASE", "march-madness-pool"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		Port:           getEnv("PORT", "8080"),
		AdminEmails:    splitList(getEnv("ADMIN_EMAILS", "")),
		TrustedProxies: splitList(getEnv("TRUSTED_PROXIES", "")),
	}

	var errs []error
	if cfg.MongoURI == "" {
		errs = append(errs, errors.New("MONGODB_URI is required"))
	}
	if cfg.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}

	var err error
	if cfg.TokenTTL, err = getEnvAsDuration("TOKEN_TTL", 24*time.Hour); err != nil {
		errs = append(errs, err)
	}
	if cfg.FailOpen, err = getEnvAsBool("ELIGIBILITY_FAIL_OPEN", true); err != nil {
		errs = append(errs, err)
	}
	if cfg.LoginRatePerMinute, err = getEnvAsInt("LOGIN_RATE_PER_MINUTE", 20); err != nil {
		errs = append(errs, err)
	}
	if cfg.LogLevel, err = zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		errs = append(errs, err)
	}

	return cfg, errors.Join(errs...)
}
