package approval

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Todo lo que fn escribe se confirma junto o se descarta junto (Commit/Rollback).
type TxRunner interface {
	RunApproval(ctx context.Context, fn func(
		receiptRepo repository.ReceiptRepository,
		approvalRepo repository.ApprovalRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// CacheInvalidator invalida los reportes cacheados tras una decisión confirmada.
type CacheInvalidator interface {
	Bump(ctx context.Context) error
}

// LowStockAlert aviso emitido cuando un producto queda por debajo de su mínimo.
type LowStockAlert struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
	Minimum     int64  `json:"minimum"`
	ReceiptID   string `json:"receipt_id"`
	Kind        string `json:"kind"`
}

// AlertPublisher publica avisos de stock bajo fuera de la transacción (best effort).
type AlertPublisher interface {
	PublishLowStock(ctx context.Context, alert LowStockAlert) error
}
