package config

import (
	"flag"
	"os"
	"time"

	"github.com/EMNTV/excellencemedianumerique/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP listen address
//	-l string   log level (debug, info, warn, error)
//	-b string   cache backend (sqlite, redis, memory)
//	-t int      remote timeout in seconds
//
// Only flags handled here are parsed; everything else in os.Args is
// filtered out first so the config file flag and test flags pass
// through untouched.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-l", "-b", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.HTTPAddr, "a", cfg.HTTPAddr, "http listen address")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.CacheBackend, "b", cfg.CacheBackend, "cache backend")
	remoteTimeout := fs.Int("t", int(cfg.RemoteTimeout.Seconds()), "remote timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RemoteTimeout = time.Duration(*remoteTimeout) * time.Second
}
