package queue

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/Almacen-api/internal/application/approval"
)

const (
	// QueueAlerts cola de avisos de stock.
	QueueAlerts = "alerts"
	// TaskStockLow aviso inmediato: un producto quedó bajo su mínimo tras una aprobación.
	TaskStockLow = "stock:low"
	// TaskStockDigest resumen periódico de productos con warning.
	TaskStockDigest = "stock:digest"
)

// NewLowStockTask construye la tarea asynq para un aviso de stock bajo.
func NewLowStockTask(alert approval.LowStockAlert) (*asynq.Task, error) {
	data, err := json.Marshal(alert)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStockLow, data), nil
}

// NewDigestTask tarea sin payload para el resumen programado.
func NewDigestTask() *asynq.Task {
	return asynq.NewTask(TaskStockDigest, nil)
}
