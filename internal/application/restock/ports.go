package restock

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner transacción de solicitudes de reposición. Los repositorios recibidos comparten la tx.
type TxRunner interface {
	RunRestock(ctx context.Context, fn func(
		restockRepo repository.RestockRepository,
		receiptRepo repository.ReceiptRepository,
		productRepo repository.ProductRepository,
		userRepo repository.UserRepository,
	) error) error
}
