// Package main is the entry point for chunkdump, which cuts a text file into
// gap-buffered rope leaves and prints each leaf with its gap and summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kntng/crop/internal/config"
	"github.com/kntng/crop/internal/logging"
	"github.com/kntng/crop/internal/watch"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// options holds the parsed command line.
type options struct {
	configPath string
	logLevel   string
	capacity   int
	targetFill int
	split      string
	watch      bool
	file       string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.NewLoader().Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return 1
	}
	if err := applyFlags(cfg, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Log.LogLevel()
	logger := logging.New(logCfg)

	d := &dumper{
		chunk:  cfg.Chunk,
		out:    os.Stdout,
		logger: logger.WithComponent("dump"),
	}
	if opts.split != "" {
		at, err := parseSplit(opts.split)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		d.split = &at
	}

	if err := d.dumpFile(opts.file); err != nil {
		logger.Error("%v", err)
		if !opts.watch {
			return 1
		}
	}
	if !opts.watch {
		return 0
	}

	// Handle signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := watchFile(ctx, d, opts.file, cfg.Watch.Debounce.Std(), logger.WithComponent("watch")); err != nil {
		logger.Error("%v", err)
		return 1
	}
	return 0
}

// applyFlags lets explicit flags override the loaded configuration.
func applyFlags(cfg *config.Config, opts options) error {
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.capacity > 0 {
		cfg.Chunk.Capacity = opts.capacity
	}
	if opts.targetFill > 0 {
		cfg.Chunk.TargetFill = opts.targetFill
	}
	return cfg.Validate()
}

// watchFile re-renders the file after every burst of changes until ctx is
// done.
func watchFile(ctx context.Context, d *dumper, path string, debounce time.Duration, logger *logging.Logger) error {
	w, err := watch.New(path, debounce)
	if err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	defer w.Close()

	logger.Info("watching %s", w.Path())

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			logger.WithField("op", ev.Op).Debug("%d changes", ev.Count)
			if !ev.Exists() {
				logger.Warn("%s was removed", path)
				continue
			}
			fmt.Fprintln(d.out)
			if err := d.dumpFile(path); err != nil {
				logger.Error("%v", err)
			}

		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.configPath, "config", os.Getenv(config.EnvPrefix+"CONFIG"), "Path to configuration file (.toml, .yaml)")
	flag.StringVar(&opts.configPath, "c", os.Getenv(config.EnvPrefix+"CONFIG"), "Path to configuration file (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.IntVar(&opts.capacity, "capacity", 0, "Leaf capacity in bytes (overrides config)")
	flag.IntVar(&opts.targetFill, "fill", 0, "Bytes per freshly built leaf (overrides config)")
	flag.StringVar(&opts.split, "split", "", "Split the leaves at metric:offset (byte, char, utf16, line)")
	flag.BoolVar(&opts.watch, "watch", false, "Re-render the file whenever it changes")
	flag.BoolVar(&opts.watch, "w", false, "Re-render the file whenever it changes (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "chunkdump - render a file as gap-buffered rope leaves\n\n")
		fmt.Fprintf(os.Stderr, "Usage: chunkdump [options] file\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  chunkdump notes.txt                   Print every leaf\n")
		fmt.Fprintf(os.Stderr, "  chunkdump -capacity 64 notes.txt      Use small leaves\n")
		fmt.Fprintf(os.Stderr, "  chunkdump -split line:10 notes.txt    Split after the tenth line break\n")
		fmt.Fprintf(os.Stderr, "  chunkdump -w notes.txt                Re-render on every save\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("chunkdump %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	opts.file = flag.Arg(0)

	return opts
}
