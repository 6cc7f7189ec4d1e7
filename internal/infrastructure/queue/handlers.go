package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Almacen-api/internal/application/approval"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Handlers procesa las tareas de avisos de stock.
type Handlers struct {
	stocks repository.StockRepository
	log    zerolog.Logger
}

// NewHandlers construye los handlers. stocks solo lo usa el resumen.
func NewHandlers(stocks repository.StockRepository, log zerolog.Logger) *Handlers {
	return &Handlers{stocks: stocks, log: log}
}

// HandleLowStock registra el aviso. Un payload inválido no se reintenta.
func (h *Handlers) HandleLowStock(ctx context.Context, t *asynq.Task) error {
	var alert approval.LowStockAlert
	if err := json.Unmarshal(t.Payload(), &alert); err != nil {
		h.log.Error().Err(err).Str("task", t.Type()).Msg("payload de aviso inválido")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	h.log.Warn().
		Str("product_id", alert.ProductID).
		Str("product_name", alert.ProductName).
		Int64("quantity", alert.Quantity).
		Int64("minimum", alert.Minimum).
		Str("receipt_id", alert.ReceiptID).
		Str("kind", alert.Kind).
		Msg("stock bajo el mínimo")
	return nil
}

// HandleDigest lista los productos con warning y los registra en un solo evento.
func (h *Handlers) HandleDigest(ctx context.Context, _ *asynq.Task) error {
	views, err := h.stocks.ListViews(ctx, true)
	if err != nil {
		return fmt.Errorf("listar stock bajo: %w", err)
	}
	if len(views) == 0 {
		h.log.Info().Msg("resumen de stock: sin productos bajo el mínimo")
		return nil
	}
	arr := zerolog.Arr()
	for _, v := range views {
		arr.Dict(zerolog.Dict().
			Str("product_id", v.ProductID).
			Str("product_name", v.ProductName).
			Int64("quantity", v.Quantity).
			Int64("minimum", v.Minimum))
	}
	h.log.Warn().Int("count", len(views)).Array("products", arr).Msg("resumen de stock bajo")
	return nil
}

// Register asocia cada tipo de tarea con su handler.
func (h *Handlers) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TaskStockLow, h.HandleLowStock)
	mux.HandleFunc(TaskStockDigest, h.HandleDigest)
}
