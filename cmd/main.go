package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	corrozy "go.corrozy.dev/pkg"
)

func main() {
	var configPath string
	var verbose bool

	flags := pflag.NewFlagSet("corrozy", pflag.ExitOnError)
	flags.StringVarP(&configPath, "config", "c", "", "path to the configuration file (default <path>/corrozy.toml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "print debug output")
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: corrozy [path] [flags]")
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])

	root := "."
	if flags.NArg() > 0 {
		root = flags.Arg(0)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	config, err := loadConfig(root, configPath, logger)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	n, err := corrozy.NewTranspiler(config, logger).TranspileProject(context.Background(), root)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	fmt.Printf("Transpiled %d files into %s\n", n, filepath.Join(root, config.Transpiler.OutputDir))
}

func loadConfig(root, path string, logger *slog.Logger) (*corrozy.Config, error) {
	if path != "" {
		return corrozy.LoadConfig(path)
	}

	path = filepath.Join(root, corrozy.DefaultConfigFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logger.Debug("no config file found, using defaults", "path", path)
		return corrozy.DefaultConfig(), nil
	}

	return corrozy.LoadConfig(path)
}

func printError(err error) {
	switch e := errors.Cause(err).(type) {
	case *corrozy.SyntaxError:
		fmt.Fprintln(os.Stderr, "Syntax error:", e.Msg, "at", e.Loc)
	case *corrozy.StructuralError:
		fmt.Fprintln(os.Stderr, "Malformed program:", e.Msg, "at", e.Loc)
	case *corrozy.ScopeError:
		fmt.Fprintln(os.Stderr, "Scope error:", err)
	case *corrozy.UnsupportedError:
		fmt.Fprintln(os.Stderr, "Unsupported:", e.Kind)
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
}
