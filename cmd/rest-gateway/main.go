package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lorawan-server/chirpstack-rest-gateway/internal/api"
	"github.com/lorawan-server/chirpstack-rest-gateway/internal/chirpstack"
	"github.com/lorawan-server/chirpstack-rest-gateway/internal/config"
)

func main() {
	// Command line flags
	var configFile string
	flag.StringVar(&configFile, "config", "", "Configuration file path (optional, env vars override)")
	flag.Parse()

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	// Load configuration. Missing required settings are fatal: the
	// listener must not bind without a complete backend config.
	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogging(cfg)

	// Connect to the ChirpStack gRPC API
	client, err := chirpstack.Dial(&cfg.ChirpStack)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to ChirpStack")
	}
	defer client.Close()

	// Start REST API server
	apiServer := api.NewRESTServer(cfg, client)

	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		log.Info().Str("addr", addr).Msg("Starting REST API server")
		errChan <- apiServer.ListenAndServe(addr)
	}()

	// Wait for signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		log.Fatal().Err(err).Msg("REST API server failed")
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Received signal, shutting down")
	}

	// Shutdown API server
	if err := apiServer.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown API server gracefully")
	}

	log.Info().Msg("REST gateway stopped")
}

// setupLogging applies the configured log level and optional rotating
// file output
func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}
	if cfg.Log.File != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAgeDays,
		}
	}
	log.Logger = log.Output(out)
}
