package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/rerange/internal/flagx"
)

// parseFlags populates Config fields from command-line flags. Only the flags
// listed here are picked out of args; see the package doc for the list.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-s", "-d", "-r", "-k", "-m", "-l", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.StorageBackend, "s", cfg.StorageBackend, "storage backend (sqlite, postgres, redis, s3, memory)")
	fs.StringVar(&cfg.StorageDSN, "d", cfg.StorageDSN, "storage DSN")
	fs.StringVar(&cfg.RedisURL, "r", cfg.RedisURL, "redis URL")
	fs.StringVar(&cfg.StorageKey, "k", cfg.StorageKey, "snapshot sealing passphrase")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics listen address")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	aiTimeout := fs.Int("t", int(cfg.AITimeout.Seconds()), "AI request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.AITimeout = time.Duration(*aiTimeout) * time.Second
}
