// cmd/discord/main.go
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/keshon/ainnie/internal/command"
	"github.com/keshon/ainnie/internal/config"
	"github.com/keshon/ainnie/internal/discord"
	"github.com/keshon/ainnie/internal/logging"
	"github.com/keshon/ainnie/internal/storage"
)

const appName = "Ainnie"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		err := runOnce(ctx)
		switch {
		case errors.Is(err, command.ErrRestart):
			log.Info().Msg("Restarting...")
			continue
		case errors.Is(err, command.ErrTerminate), err == nil:
			log.Info().Msg("Discord bot exited cleanly")
			return
		default:
			log.Error().Err(err).Msg("Discord bot error")
			os.Exit(1)
		}
	}
}

// runOnce loads configuration and runs one bot session. The configuration
// is reloaded on every restart.
func runOnce(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.LogLevel, cfg.LogFile)
	log.Info().Msgf("Starting %s bot...", appName)

	st, err := storage.New(cfg.StoragePath)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close storage")
		}
	}()

	bot, err := discord.New(cfg, st)
	if err != nil {
		return err
	}
	return bot.Run(ctx)
}
