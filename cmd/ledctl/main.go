// Command ledctl discovers GVM BT_LED light fixtures over Bluetooth LE and
// keeps each one converged to its desired settings.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/chaz8081/ledctl/internal/ble"
	"github.com/chaz8081/ledctl/internal/config"
	"github.com/chaz8081/ledctl/internal/fleet"
	"github.com/chaz8081/ledctl/internal/light"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: ~/.config/ledctl/config.yaml)")
	demo := flag.Bool("demo", false, "fake the bluetooth stack; fixtures are synthesized and commands logged")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	setupLogging(cfg.LogLevel, cfg.LogJSON)

	registry := fleet.NewRegistry()
	opts := fleet.Options{
		DeviceName:     cfg.BLE.DeviceName,
		ServiceUUID:    cfg.BLE.ServiceUUID,
		PollInterval:   cfg.BLE.PollInterval,
		HealthInterval: cfg.BLE.HealthInterval,
		ReconnectDelay: cfg.BLE.ReconnectDelay,
		DebounceWindow: cfg.Light.DebounceWindow,
		QueueSize:      cfg.Light.QueueSize,
		SendHandshake:  cfg.BLE.SendHandshake,
		InitialState:   light.Default(cfg.Light.DefaultIntensity),
	}

	ctx := signalContext()
	g, ctx := errgroup.WithContext(ctx)

	if *demo {
		log.Warn().Msg("--demo found on CLI, not running with a real bluetooth stack")
		g.Go(func() error {
			return fleet.RunDemo(ctx, registry, opts)
		})
	} else {
		manager := fleet.NewManager(ble.NewAdapter(), registry, opts)
		g.Go(func() error {
			return manager.Run(ctx)
		})
	}

	log.Info().Str("device_name", cfg.BLE.DeviceName).Msg("ledctl started")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("ledctl exited")
	}
	log.Info().Msg("ledctl stopped")
}

// loadConfig loads the config from the specified path, or falls back to the
// default config path, or uses built-in defaults with env overrides.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	defaultPath := config.DefaultConfigPath()
	if _, err := os.Stat(defaultPath); err == nil {
		return config.Load(defaultPath)
	}

	return config.FromEnv()
}

func setupLogging(level string, useJSON bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	if useJSON {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05.000",
		})
	}

	switch level {
	case "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Warn().Str("signal", sig.String()).Msg("shutting down")
		cancel()
	}()

	return ctx
}
