package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/packer/internal/application"
	"github.com/eugenenazirov/packer/internal/config"
	"github.com/eugenenazirov/packer/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("packer", "Packer - selects the most valuable set of items that fits a weight limit")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	logLevel := kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").String()
	cacheSize := kingpinApp.Flag("cache-size", "Number of solved lines kept in memory (0 disables caching)").Default("-1").Int()
	workers := kingpinApp.Flag("workers", "Number of lines solved concurrently").Default("0").Int()

	packCmd := kingpinApp.Command("pack", "Solve every line of an input file and print one answer per line")
	inputFile := packCmd.Arg("file", "Input file").Required().ExistingFile()

	serveCmd := kingpinApp.Command("serve", "Run the HTTP API")
	port := serveCmd.Flag("port", "HTTP port exposed by the service").String()
	rateLimitRPSFlag := serveCmd.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := serveCmd.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	command := kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
		LogLevel:   logLevel,
		CacheSize:  cacheSize,
		Workers:    workers,
	}
	if command == serveCmd.FullCommand() {
		overrides.Port = port
		overrides.RateLimitRPS = rateLimitRPSFlag
		overrides.RateLimitBurst = rateLimitBurstFlag
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	switch command {
	case packCmd.FullCommand():
		if err := runPack(context.Background(), cfg, logger, *inputFile, os.Stdout); err != nil {
			logger.Fatal("failed to pack file", zap.String("file", *inputFile), zap.Error(err))
		}
	case serveCmd.FullCommand():
		runServe(cfg, logger)
	}
}

func runPack(ctx context.Context, cfg config.Config, logger *zap.Logger, path string, out io.Writer) error {
	_, processor, _ := application.NewProcessor(cfg, logger)

	output, err := processor.PackFile(ctx, path)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, output)
	return err
}

func runServe(cfg config.Config, logger *zap.Logger) {
	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	logger.Info("shutting down server", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
