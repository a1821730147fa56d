// Command bindcheck validates binding manifests and prints their
// diagnostics. It exits with status 1 when any manifest has errors.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"databinding/convert"
	"databinding/internal/diagnostic"
	"databinding/manifest"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintln(os.Stderr, exitErr.Message)
			}

			os.Exit(exitErr.Code)
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(out, errOut io.Writer, args []string) error {
	cfg, shouldExit, err := parseArgs(args, out)
	if err != nil || shouldExit {
		return err
	}

	logger := cfg.logger(errOut)

	if cfg.listKinds {
		fmt.Fprintln(out, strings.Join(convert.Default.Kinds(), "\n"))
		return nil
	}

	failed := 0

	for _, path := range cfg.files {
		logger.Debug("Checking manifest", "file", path)

		mf, err := manifest.LoadFile(path)
		if err != nil {
			logger.Error("Failed to load manifest", "file", path, "error", err)
			fmt.Fprintf(out, "%s: error: %v\n", path, err)
			failed++

			continue
		}

		if cfg.verbose {
			spew.Fdump(out, mf)
		}

		diags := manifest.Validate(mf, convert.Default)
		report(out, path, diags)

		if diags.HasErrors() {
			failed++
		}

		logger.Info("Manifest checked", "file", path, "bindings", len(mf.Bindings), "errors", len(diags.Errors))
	}

	if failed > 0 {
		return &ExitError{Code: 1, Message: fmt.Sprintf("%d of %d manifests failed validation", failed, len(cfg.files))}
	}

	return nil
}

func report(w io.Writer, path string, diags *diagnostic.Diagnostics) {
	for _, d := range diags.All() {
		fmt.Fprintf(w, "%s: %s: %s\n", path, d.Severity, d)
	}

	if diags.IsValid() {
		fmt.Fprintf(w, "%s: ok\n", path)
	}
}
