package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/comparehub/internal/flagx"
)

var knownFlags = []string{"-a", "-k", "-g", "-i", "-t", "-d", "-e", "-m", "-l"}

// parseFlags populates selected Config fields from command-line flags.
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, so -c / -config and unknown flags pass through.
func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.AuthURL, "a", cfg.AuthURL, "auth API base URL")
	fs.StringVar(&cfg.CatalogURL, "k", cfg.CatalogURL, "catalog URL")
	fs.StringVar(&cfg.Category, "g", cfg.Category, "catalog category")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "HTTP request timeout")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "local database path")
	fs.StringVar(&cfg.ExportsDir, "e", cfg.ExportsDir, "exports directory")
	fs.StringVar(&cfg.Challenge.Mode, "m", cfg.Challenge.Mode, "challenge mode")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		}
	})
	return nil
}
