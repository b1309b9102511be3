package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/desdemona/bot"
	"github.com/domino14/desdemona/config"
)

const (
	GracefulShutdownTimeout = 20 * time.Second
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "bad configuration:", err)
		os.Exit(2)
	}
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Info().Interface("config", cfg.SanitizedSettings()).Msg("loaded-config")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() {
		done <- bot.Main(ctx, bot.NewBot(cfg))
	}()

	select {
	case err := <-done:
		// Main only returns early if it could not start listening.
		if err != nil {
			log.Fatal().Err(err).Msg("bot-failed")
		}
		return
	case <-ctx.Done():
		log.Info().Msg("got quit signal...")
	}

	select {
	case err := <-done:
		if err != nil {
			log.Err(err).Msg("bot-shutdown-error")
		}
	case <-time.After(GracefulShutdownTimeout):
		log.Warn().Msg("timed-out-waiting-for-bot")
	}
	log.Info().Msg("server gracefully shutting down")
}
