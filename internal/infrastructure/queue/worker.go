package queue

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Almacen-api/pkg/config"
)

// Worker envuelve el servidor asynq y el scheduler opcional del resumen.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
	log       zerolog.Logger
}

// NewWorker construye el worker. DigestCron vacío desactiva el scheduler.
func NewWorker(redisCfg config.RedisConfig, cfg config.WorkerConfig, handlers *Handlers, log zerolog.Logger) (*Worker, error) {
	if handlers == nil {
		return nil, errors.New("worker: handlers requeridos")
	}
	opts := RedisOpts(redisCfg)
	srv := asynq.NewServer(opts, asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues: map[string]int{
			QueueAlerts: 1,
		},
	})
	mux := asynq.NewServeMux()
	handlers.Register(mux)

	var scheduler *asynq.Scheduler
	if cfg.DigestCron != "" {
		scheduler = asynq.NewScheduler(opts, &asynq.SchedulerOpts{Location: time.UTC})
		if _, err := scheduler.Register(cfg.DigestCron, NewDigestTask(), asynq.Queue(QueueAlerts)); err != nil {
			return nil, err
		}
	}
	return &Worker{server: srv, mux: mux, scheduler: scheduler, log: log}, nil
}

// Run procesa tareas hasta que se cancele ctx.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil {
		return errors.New("worker: no configurado")
	}
	if w.scheduler != nil {
		if err := w.scheduler.Start(); err != nil {
			return err
		}
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.server.Run(w.mux)
	}()
	select {
	case <-ctx.Done():
		w.log.Info().Msg("deteniendo worker")
		if w.scheduler != nil {
			w.scheduler.Shutdown()
		}
		w.server.Shutdown()
		return ctx.Err()
	case err := <-errCh:
		if w.scheduler != nil {
			w.scheduler.Shutdown()
		}
		return err
	}
}
