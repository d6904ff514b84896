package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/ringkeeper/internal/flagx"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. RINGS_SECRET_KEY.
const EnvPrefix = "RINGS"

// parseFile overlays values from the JSON file named by -c/-config and from
// RINGS_* environment variables. Keys that are absent from both leave the
// current value untouched. Durations are strings such as "90m" or "5s".
//
//	{
//	  "http_address": ":8080",
//	  "database_dsn": "postgres://...",
//	  "secret_key": "...",
//	  "token_validity_duration": "1h",
//	  "request_timeout": "5s"
//	}
func parseFile(config *Config, args []string) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)

	stringKeys := map[string]*string{
		"http_address":     &config.HTTPAddress,
		"database_dsn":     &config.DatabaseDSN,
		"secret_key":       &config.SecretKey,
		"log_level":        &config.LogLevel,
		"s3_root_user":     &config.S3RootUser,
		"s3_root_password": &config.S3RootPassword,
		"s3_bucket":        &config.S3Bucket,
		"s3_region":        &config.S3Region,
		"s3_base_endpoint": &config.S3BaseEndpoint,
	}
	durationKeys := map[string]*time.Duration{
		"token_validity_duration": &config.TokenValidityDuration,
		"request_timeout":         &config.RequestTimeout,
	}

	for key := range stringKeys {
		if err := v.BindEnv(key); err != nil {
			return err
		}
	}
	for key := range durationKeys {
		if err := v.BindEnv(key); err != nil {
			return err
		}
	}

	if path := flagx.ConfigFileFlag(args); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file: %w", err)
		}
	}

	for key, dst := range stringKeys {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	for key, dst := range durationKeys {
		if v.IsSet(key) {
			*dst = v.GetDuration(key)
		}
	}
	return nil
}
