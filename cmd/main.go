package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"heic2jpg/contracts"
	"heic2jpg/converter"
	"heic2jpg/decoder"
	"heic2jpg/files_manager"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags, err := loadFlags(args)
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR]: %v\n", err)
		return exitUsage
	}

	logger, err := newLogger(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR]: %v\n", err)
		return exitUsage
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	files, err := files_manager.ListCandidates(flags.InputRoot)
	for _, e := range multierr.Errors(err) {
		logger.Warn("skipped during discovery", zap.Error(e))
	}

	fmt.Printf("Found %d heic files\n", len(files))
	if len(files) == 0 {
		return exitOK
	}

	dec, closeDecoder, err := decoder.New(flags.Decoder, logger)
	if err != nil {
		logger.Error("failed to start decoder", zap.String("decoder", flags.Decoder), zap.Error(err))
		return exitFailed
	}
	defer closeDecoder()

	logger.Info("starting conversion",
		zap.String("root", flags.InputRoot),
		zap.Int("files", len(files)),
		zap.Int("workers", flags.Workers),
		zap.String("decoder", flags.Decoder),
	)
	startTime := time.Now()

	reporter := newConsoleReporter(os.Stdout, os.Stderr, len(files), flags.Progress)
	batch := converter.NewBatch(converter.NewFileConverter(dec, logger), flags.Workers, reporter, logger)
	results := batch.Run(ctx, files)
	reporter.Finish()

	failed := contracts.CountFailed(results)
	fmt.Printf("Converted %d of %d files, %d failed\n", len(results)-failed, len(results), failed)
	logger.Info("conversion finished",
		zap.Int("succeeded", len(results)-failed),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(startTime)),
	)

	if failed > 0 {
		return exitFailed
	}
	return exitOK
}
