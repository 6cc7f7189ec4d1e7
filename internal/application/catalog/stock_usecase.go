package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// StockUseCase consulta de existencias y corrección manual (storekeeper).
type StockUseCase struct {
	tx       TxRunner
	stocks   repository.StockRepository
	products repository.ProductRepository
	cache    CacheInvalidator
	log      zerolog.Logger
	now      func() time.Time
}

// NewStockUseCase construye el caso de uso. cache puede ser nil.
func NewStockUseCase(tx TxRunner, stocks repository.StockRepository, products repository.ProductRepository, cache CacheInvalidator, log zerolog.Logger) *StockUseCase {
	return &StockUseCase{tx: tx, stocks: stocks, products: products, cache: cache, log: log, now: time.Now}
}

// List existencias de productos disponibles; onlyWarning filtra las que están bajo el mínimo.
func (uc *StockUseCase) List(ctx context.Context, onlyWarning bool) ([]dto.StockResponse, error) {
	views, err := uc.stocks.ListViews(ctx, onlyWarning)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toStockResponse(v))
	}
	return out, nil
}

// GetByProduct existencia de un producto.
func (uc *StockUseCase) GetByProduct(ctx context.Context, productID string) (*dto.StockResponse, error) {
	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	stock, err := uc.stocks.GetByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	resp := toStockResponse(entity.StockView{
		StockEntry: *stock, ProductName: product.Name, Unit: product.Unit,
		Minimum: product.Minimum, ProductStatus: product.Status,
	})
	return &resp, nil
}

// Correct fija manualmente la cantidad de una fila de stock (inventario físico). Nunca negativa.
func (uc *StockUseCase) Correct(ctx context.Context, stockID string, quantity int64, userID string) (*dto.StockResponse, error) {
	var view entity.StockView
	err := uc.tx.RunCatalog(ctx, func(productRepo repository.ProductRepository, stockRepo repository.StockRepository) error {
		stock, err := stockRepo.GetByIDForUpdate(ctx, stockID)
		if err != nil {
			return err
		}
		product, err := productRepo.GetByID(ctx, stock.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return &domain.StockNotFoundError{ProductID: stock.ProductID}
		}
		warning, ok := inventory.Correct(quantity, product.Minimum)
		if !ok {
			return fmt.Errorf("cantidad %d: %w", quantity, domain.ErrInvalidInput)
		}
		updated, err := stockRepo.SetQuantity(ctx, stock.ID, entity.StockUpdate{
			Quantity: quantity, Warning: warning, UpdatedAt: uc.now(),
		})
		if err != nil {
			return err
		}
		uc.log.Info().
			Str("stock_id", stock.ID).
			Str("product_id", product.ID).
			Str("user_id", userID).
			Int64("before", stock.Quantity).
			Int64("after", quantity).
			Msg("corrección manual de stock")
		view = entity.StockView{
			StockEntry: *updated, ProductName: product.Name, Unit: product.Unit,
			Minimum: product.Minimum, ProductStatus: product.Status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		if err := uc.cache.Bump(ctx); err != nil {
			uc.log.Warn().Err(err).Msg("invalidar caché de reportes")
		}
	}
	resp := toStockResponse(view)
	return &resp, nil
}

func toStockResponse(v entity.StockView) dto.StockResponse {
	return dto.StockResponse{
		ID:            v.ID,
		ProductID:     v.ProductID,
		ProductName:   v.ProductName,
		Unit:          v.Unit,
		Minimum:       v.Minimum,
		ProductStatus: v.ProductStatus,
		Quantity:      v.Quantity,
		Warning:       v.Warning,
		UpdatedAt:     v.UpdatedAt,
	}
}
