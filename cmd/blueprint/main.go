package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/blueprintgo/codec"
	"github.com/vk/blueprintgo/hclspec"
	"github.com/vk/blueprintgo/internal/ctxlog"
)

// main is the entrypoint for the blueprint tool.
func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the tool's logic for easier testing and error handling.
func run(outW io.Writer, args []string) error {
	flagSet := flag.NewFlagSet("blueprint", flag.ContinueOnError)
	flagSet.SetOutput(outW)
	flagSet.Usage = func() {
		fmt.Fprint(outW, `
blueprint - render and serialize declarative component blueprints.

Usage:
  blueprint [options] BLUEPRINT.hcl

Options:
`)
		flagSet.PrintDefaults()
	}

	outFlag := flagSet.String("out", "", "Write the serialized blueprint to this file.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	path := flagSet.Arg(0)
	if path == "" {
		flagSet.Usage()
		return fmt.Errorf("no blueprint file given")
	}

	logger := newLogger(*logLevelFlag, *logFormatFlag, os.Stderr)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	cfg, err := hclspec.NewLoader().Load(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprint(outW, cfg)

	if *outFlag != "" {
		f, err := os.Create(*outFlag)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := codec.Save(f, cfg); err != nil {
			return fmt.Errorf("serialize blueprint: %w", err)
		}
		logger.Info("Blueprint serialized.", "path", *outFlag)
	}
	return nil
}

// newLogger creates and configures a new slog.Logger instance. It does not
// set the global logger, allowing for isolated logger instances.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler

	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}

	return slog.New(handler)
}
