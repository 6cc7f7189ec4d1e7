package catalog

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner transacción de producto + fila de stock.
type TxRunner interface {
	RunCatalog(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		stockRepo repository.StockRepository,
	) error) error
}

// CacheInvalidator invalida reportes cacheados cuando cambia el stock fuera del flujo de aprobación.
type CacheInvalidator interface {
	Bump(ctx context.Context) error
}
