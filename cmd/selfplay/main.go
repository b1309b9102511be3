package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/desdemona/automatic"
	"github.com/domino14/desdemona/config"
)

func run(ctx context.Context, cfg *config.Config) error {
	opts := automatic.OptionsFromConfig(cfg)
	if seedFile := cfg.GetString(config.ConfigSelfplaySeedFile); seedFile != "" {
		if _, err := os.Stat(seedFile); err == nil {
			seeds, err := automatic.LoadSeeds(seedFile)
			if err != nil {
				return err
			}
			opts.Seeds = seeds
			log.Info().Str("file", seedFile).Int("seeds", len(seeds)).Msg("loaded-seeds")
		} else {
			// first run with this file: remember the openings for next time
			if err := automatic.SaveSeeds(opts.Seeds, seedFile); err != nil {
				return err
			}
			log.Info().Str("file", seedFile).Int("seeds", len(opts.Seeds)).Msg("saved-seeds")
		}
	}

	if logPath := cfg.GetString(config.ConfigSelfplayGameLog); logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			return err
		}
		defer f.Close()
		opts.GameLog = f
	}

	records, err := automatic.PlayGames(ctx, opts)
	if err != nil {
		return err
	}
	summary := automatic.Summarize(records)
	fmt.Print(summary.String())
	if err := summary.Histogram(os.Stdout); err != nil {
		return err
	}

	if out := cfg.GetString(config.ConfigSelfplayOutput); out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := summary.WriteYAML(f); err != nil {
			return err
		}
		log.Info().Str("file", out).Msg("wrote-summary")
	}
	return nil
}

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "bad configuration:", err)
		os.Exit(2)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Err(err).Msg("selfplay-failed")
		os.Exit(1)
	}
}
