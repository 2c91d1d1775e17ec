package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/docsmith/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   backend API base address
//	-d string   local state database path
//	-l string   log level
//	-m string   metrics listen address
//
// Args are filtered with flagx.FilterArgs first so that -c and unknown
// arguments do not break parsing. Invalid values panic.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-l", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "backend API base address")
	fs.StringVar(&cfg.StatePath, "d", cfg.StatePath, "local state database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics listen address")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
