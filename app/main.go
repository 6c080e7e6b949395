package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"OrtPrepBot/internal/config"
	"OrtPrepBot/internal/graceful"
	"OrtPrepBot/internal/profiles"
	"OrtPrepBot/internal/repositories"
	"OrtPrepBot/internal/tasks"
	"OrtPrepBot/internal/telegram"
	"OrtPrepBot/internal/utils/logger/handlers/slogpretty"
	"OrtPrepBot/internal/utils/logger/sl"

	"github.com/robfig/cron/v3"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

var Version = "0.1"

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info(
		"starting ort prep bot",
		slog.String("env", cfg.Env),
		slog.String("version", Version),
	)

	repositoryService := repositories.New(log, cfg)
	profilesService := profiles.New(log, repositoryService)
	tgBot := telegram.New(log, cfg, repositoryService, profilesService)

	operations := map[string]graceful.Operation{
		"Repository service": func(ctx context.Context) error {
			return repositoryService.Shutdown(ctx)
		},
		"Telegram bot": func(ctx context.Context) error {
			return tgBot.Shutdown(ctx)
		},
	}

	if cfg.Generator.Enabled {
		generator := tasks.New(log, &cfg.Generator, tgBot.Sender())
		scheduler := cron.New()
		_, err := scheduler.AddFunc("@every "+cfg.Generator.Interval.String(), func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			if err := generator.GenerateAndPost(ctx); err != nil {
				log.Error("scheduled task generation failed", sl.Err(err))
			}
		})
		if err != nil {
			log.Error("failed to schedule task generator", sl.Err(err))
		} else {
			scheduler.Start()
			operations["Task scheduler"] = func(ctx context.Context) error {
				select {
				case <-scheduler.Stop().Done():
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}

	maxSecond := 15 * time.Second
	waitShutdown := graceful.GracefulShutdown(
		context.Background(),
		maxSecond,
		operations,
		log,
	)

	go tgBot.Start(30)

	<-waitShutdown
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog(slog.LevelDebug)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog(level slog.Level) *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: level,
		},
	}
	handler := opts.NewPrettyHandler(os.Stdout)
	return slog.New(handler)
}
