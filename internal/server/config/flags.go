package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/ringkeeper/internal/flagx"
)

var serverFlags = []string{"-a", "-d", "-s", "-t", "-w", "-l", "-u", "-p", "-b", "-g", "-e"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g. ":8080")
//	-d string   PostgreSQL DSN
//	-s string   token signing secret
//	-t int      token validity, minutes
//	-w int      request timeout, seconds
//	-l string   log level
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket
//	-g string   S3 region
//	-e string   S3 base endpoint
//
// Only these flags are taken from args; everything else is left to the
// other flag consumers (config file lookup, admin subcommands).
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddress, "a", config.HTTPAddress, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing secret")

	tokenMinutes := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity (in minutes)")
	timeoutSeconds := fs.Int("w", int(config.RequestTimeout.Seconds()), "request timeout (in seconds)")

	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(flagx.FilterArgs(args, serverFlags)); err != nil {
		return err
	}

	// Only flags actually given replace durations; the file and env layers
	// may hold values finer than whole minutes or seconds.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.TokenValidityDuration = time.Duration(*tokenMinutes) * time.Minute
		case "w":
			config.RequestTimeout = time.Duration(*timeoutSeconds) * time.Second
		}
	})
	return nil
}
