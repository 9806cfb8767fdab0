// Command datamine reads legacy-encoded CSV exports, merges them and loads
// the result into SQL databases.
//
// Usage:
//
//	datamine read [-json] FILE
//	datamine merge [-dir DIR] [-suffix SUFFIX] [-out FILE]
//	datamine sheet [-sheet NAME|INDEX] [-out FILE] WORKBOOK
//	datamine fetch [-param k=v]... [-header k=v]... URL
//	datamine export -in FILE -table NAME [-sink sqlite|postgres]
//	datamine serve
//
// Configuration comes from the environment (and .env); see internal/config.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/datamine/internal/config"
	"github.com/JonMunkholm/datamine/internal/core"
	"github.com/JonMunkholm/datamine/internal/logging"
)

// app carries what every subcommand needs.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	service *core.Service
}

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = []command{
	{name: "read", usage: "read [-json] FILE", run: runRead},
	{name: "merge", usage: "merge [-dir DIR] [-suffix SUFFIX] [-out FILE]", run: runMerge},
	{name: "sheet", usage: "sheet [-sheet NAME|INDEX] [-out FILE] WORKBOOK", run: runSheet},
	{name: "fetch", usage: "fetch [-param k=v]... [-header k=v]... URL", run: runFetch},
	{name: "export", usage: "export -in FILE -table NAME [-sink sqlite|postgres]", run: runExport},
	{name: "serve", usage: "serve", run: runServe},
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage()
		return 1
	}
	cmd, ok := lookup(args[0])
	if !ok {
		fmt.Fprintf(os.Stderr, "datamine: unknown command %q\n", args[0])
		usage()
		return 1
	}

	// Load .env file if it exists (Overload overwrites existing env vars)
	envLoaded := godotenv.Overload() == nil

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "datamine: %v\n", err)
		return 1
	}

	logger, flush := logging.Setup(cfg.Logging, os.Stderr)
	defer flush()
	logger.Debug("configuration loaded", "env_file", envLoaded, "config", cfg.String())

	service, err := core.NewService(cfg, logger)
	if err != nil {
		report(logger, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{cfg: cfg, logger: logger, service: service}
	if err := cmd.run(ctx, a, args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "usage: datamine %s\n", cmd.usage)
			return 1
		}
		report(logger, err)
		return 1
	}
	return 0
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage:")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  datamine %s\n", c.usage)
	}
}

// report prints the user-facing message and logs the technical error.
func report(logger *slog.Logger, err error) {
	msg := core.MapError(err)
	logger.Error("command failed", "error", err, "code", msg.Code)
	fmt.Fprintln(os.Stderr, core.FormatUserError(err))
}
