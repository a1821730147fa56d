package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ExitError carries the process exit code for a failed run.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

type config struct {
	files     []string
	verbose   bool
	listKinds bool
	logFormat string
	logLevel  slog.Level
}

// parseArgs returns the run configuration, or shouldExit when help or usage
// was printed.
func parseArgs(args []string, output io.Writer) (*config, bool, error) {
	flagSet := flag.NewFlagSet("bindcheck", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
bindcheck - validate data-binding manifests.

Usage:
  bindcheck [options] FILE...

Arguments:
  FILE
    A YAML manifest, or an HCL manifest when the name ends in .hcl.

Options:
`)
		flagSet.PrintDefaults()
	}

	verbose := flagSet.Bool("v", false, "Dump each parsed manifest.")
	listKinds := flagSet.Bool("kinds", false, "List the registered value kinds and exit.")
	logFormat := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevel := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}

		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	cfg := &config{
		files:     flagSet.Args(),
		verbose:   *verbose,
		listKinds: *listKinds,
		logFormat: strings.ToLower(*logFormat),
	}

	if cfg.logFormat != "text" && cfg.logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	if err := cfg.logLevel.UnmarshalText([]byte(*logLevel)); err != nil {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if len(cfg.files) == 0 && !cfg.listKinds {
		flagSet.Usage()
		return nil, true, nil
	}

	return cfg, false, nil
}

func (c *config) logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.logLevel}
	if c.logFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}
