package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/queue"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "worker",
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	if !cfg.Redis.Enabled() {
		log.Fatal().Msg("REDIS_ADDR es obligatorio para el worker")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	handlers := queue.NewHandlers(postgres.NewStockRepository(pool), log.Component("stock_alerts"))
	worker, err := queue.NewWorker(cfg.Redis, cfg.Worker, handlers, log.Component("worker"))
	if err != nil {
		log.Fatal().Err(err).Msg("iniciar worker")
	}

	log.Info().
		Int("concurrency", cfg.Worker.Concurrency).
		Str("digest_cron", cfg.Worker.DigestCron).
		Msg("worker iniciado")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("worker finalizado con error")
	}
	log.Info().Msg("worker detenido")
}
