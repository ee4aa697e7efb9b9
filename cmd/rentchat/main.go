package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"rentchat/internal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the shell or calling script.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "rentchat: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component, dispatches the command and centralizes error reporting.
// Returning instead of exiting lets the deferred database close run.
func run(args []string) (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, err
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	if len(args) == 0 {
		usage(os.Stderr)
		return exitConfig, nil
	}
	command, ok := commands[args[0]]
	if !ok {
		usage(os.Stderr)
		return exitConfig, fmt.Errorf("unknown command %q", args[0])
	}

	// 2. Local store (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		// Releases the directory lock before the process exits.
		logger.Debug("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Wire and run
	a, err := newApp(config, db, logger, os.Stdin, os.Stdout)
	if err != nil {
		return exitRuntime, err
	}
	if err := command.run(ctx, a, args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) || errors.Is(err, errUsage) {
			return exitConfig, err
		}
		return exitRuntime, err
	}
	return exitOK, nil
}
