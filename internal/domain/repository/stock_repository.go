package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// StockRepository define el puerto del libro de existencias (una fila por producto).
// No contiene reglas de negocio: la validación de stock negativo y el cálculo de warning
// viven en el motor de aprobación, dentro de la misma transacción que la escritura.
type StockRepository interface {
	// Create inserta la fila de stock de un producto recién creado.
	Create(ctx context.Context, stock *entity.StockEntry) error
	// GetByProduct devuelve *domain.StockNotFoundError si el producto no tiene fila.
	GetByProduct(ctx context.Context, productID string) (*entity.StockEntry, error)
	// GetByProductForUpdate igual que GetByProduct pero bloquea la fila (SELECT FOR UPDATE).
	GetByProductForUpdate(ctx context.Context, productID string) (*entity.StockEntry, error)
	// GetByIDForUpdate bloquea la fila por su propio id (correcciones manuales).
	GetByIDForUpdate(ctx context.Context, stockID string) (*entity.StockEntry, error)
	SetQuantity(ctx context.Context, stockID string, upd entity.StockUpdate) (*entity.StockEntry, error)
	// ListViews lista el stock de productos disponibles junto con nombre, unidad y mínimo.
	ListViews(ctx context.Context, onlyWarning bool) ([]entity.StockView, error)
}
