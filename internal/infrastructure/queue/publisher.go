package queue

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/Almacen-api/internal/application/approval"
	"github.com/jhoicas/Almacen-api/pkg/config"
)

var _ approval.AlertPublisher = (*Publisher)(nil)

// Enqueuer subconjunto de *asynq.Client que usa Publisher.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// Publisher encola avisos de stock bajo en Redis.
type Publisher struct {
	client Enqueuer
}

// RedisOpts traduce la configuración de Redis al formato de asynq.
func RedisOpts(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}
}

// NewPublisher crea un publisher con un cliente asynq propio.
func NewPublisher(cfg config.RedisConfig) *Publisher {
	return &Publisher{client: asynq.NewClient(RedisOpts(cfg))}
}

// NewPublisherWithClient permite inyectar el cliente (tests).
func NewPublisherWithClient(client Enqueuer) *Publisher {
	return &Publisher{client: client}
}

// PublishLowStock encola el aviso. Un Publisher nil no hace nada.
func (p *Publisher) PublishLowStock(ctx context.Context, alert approval.LowStockAlert) error {
	if p == nil || p.client == nil {
		return nil
	}
	task, err := NewLowStockTask(alert)
	if err != nil {
		return fmt.Errorf("construir tarea: %w", err)
	}
	if _, err := p.client.EnqueueContext(ctx, task, asynq.Queue(QueueAlerts), asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("encolar aviso de stock bajo: %w", err)
	}
	return nil
}

// Close libera el cliente.
func (p *Publisher) Close() error {
	if p == nil || p.client == nil {
		return nil
	}
	return p.client.Close()
}
