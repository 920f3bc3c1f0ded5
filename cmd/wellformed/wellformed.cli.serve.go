package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/itsatony/go-wellformed"
)

// serveConfig holds parsed serve command configuration
type serveConfig struct {
	configPath string
	address    string
}

// runServe runs the HTTP API until ctx is canceled or the process receives
// SIGINT or SIGTERM.
func runServe(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := parseServeFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	appConfig, err := loadConfig(cfg.configPath)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgConfigFailed, err)
		return ExitCodeError
	}
	if cfg.address != "" {
		appConfig.Server.Address = cfg.address
	}

	logger, err := appConfig.Log.NewLogger()
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgLoggerFailed, err)
		return ExitCodeError
	}
	defer func() { _ = logger.Sync() }()

	checker, err := newReportChecker(appConfig, logger)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgCheckerFailed, err)
		return ExitCodeError
	}

	storage, err := appConfig.Storage.Open(logger)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgStorageFailed, err)
		return ExitCodeError
	}
	defer func() { _ = storage.Close() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := wellformed.NewServer(checker, storage, appConfig.Server, logger)
	if err := server.Run(ctx); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgServeFailed, err)
		return ExitCodeError
	}
	return ExitCodeSuccess
}

func parseServeFlags(args []string) (*serveConfig, error) {
	fs := flag.NewFlagSet(CmdNameServe, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &serveConfig{}

	fs.StringVar(&cfg.configPath, FlagConfig, "", "")
	fs.StringVar(&cfg.configPath, FlagConfigShort, "", "")
	fs.StringVar(&cfg.address, FlagAddress, "", "")
	fs.StringVar(&cfg.address, FlagAddressShort, "", "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return cfg, nil
}
