package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock solo cambia vía aprobaciones o correcciones.
type ProductUseCase struct {
	tx    TxRunner
	repo  repository.ProductRepository
	cache CacheInvalidator
	now   func() time.Time
}

// NewProductUseCase construye el caso de uso. cache puede ser nil.
func NewProductUseCase(tx TxRunner, repo repository.ProductRepository, cache CacheInvalidator) *ProductUseCase {
	return &ProductUseCase{tx: tx, repo: repo, cache: cache, now: time.Now}
}

// invalidate el inventario de los reportes cambia con altas y cambios de mínimo; el error de caché no se propaga.
func (uc *ProductUseCase) invalidate(ctx context.Context) {
	if uc.cache != nil {
		_ = uc.cache.Bump(ctx)
	}
}

// Create crea el producto y su fila de stock (cantidad 0) en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.CreateProductResponse, error) {
	if in.ImportPrice.IsNegative() || in.ExportPrice.IsNegative() {
		return nil, fmt.Errorf("precios negativos: %w", domain.ErrInvalidInput)
	}
	now := uc.now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Unit:        strings.TrimSpace(in.Unit),
		ImportPrice: in.ImportPrice,
		ExportPrice: in.ExportPrice,
		Minimum:     in.Minimum,
		Status:      entity.ProductAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	stock := &entity.StockEntry{
		ID:        uuid.New().String(),
		ProductID: product.ID,
		Quantity:  0,
		Warning:   inventory.Warning(0, product.Minimum),
		UpdatedAt: now,
	}
	err := uc.tx.RunCatalog(ctx, func(productRepo repository.ProductRepository, stockRepo repository.StockRepository) error {
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		return stockRepo.Create(ctx, stock)
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	return &dto.CreateProductResponse{
		Product: *toProductResponse(product),
		Stock:   toStockResponse(entity.StockView{StockEntry: *stock, ProductName: product.Name, Unit: product.Unit, Minimum: product.Minimum, ProductStatus: product.Status}),
	}, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. Si cambia el mínimo, recalcula el warning de su fila de stock en la misma tx.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var updated *entity.Product
	err := uc.tx.RunCatalog(ctx, func(productRepo repository.ProductRepository, stockRepo repository.StockRepository) error {
		product, err := productRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		minimumChanged := in.Minimum != nil && *in.Minimum != product.Minimum
		if err := applyProductUpdate(product, in); err != nil {
			return err
		}
		product.UpdatedAt = uc.now()
		if err := productRepo.Update(ctx, product); err != nil {
			return err
		}
		if minimumChanged {
			stock, err := stockRepo.GetByProductForUpdate(ctx, product.ID)
			if err != nil {
				return err
			}
			if _, err := stockRepo.SetQuantity(ctx, stock.ID, entity.StockUpdate{
				Quantity:  stock.Quantity,
				Warning:   inventory.Warning(stock.Quantity, product.Minimum),
				UpdatedAt: product.UpdatedAt,
			}); err != nil {
				return err
			}
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	return toProductResponse(updated), nil
}

func applyProductUpdate(p *entity.Product, in dto.UpdateProductRequest) error {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Unit != nil {
		p.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.ImportPrice != nil {
		if in.ImportPrice.IsNegative() {
			return fmt.Errorf("import_price negativo: %w", domain.ErrInvalidInput)
		}
		p.ImportPrice = *in.ImportPrice
	}
	if in.ExportPrice != nil {
		if in.ExportPrice.IsNegative() {
			return fmt.Errorf("export_price negativo: %w", domain.ErrInvalidInput)
		}
		p.ExportPrice = *in.ExportPrice
	}
	if in.Minimum != nil {
		if *in.Minimum < 0 {
			return fmt.Errorf("minimum negativo: %w", domain.ErrInvalidInput)
		}
		p.Minimum = *in.Minimum
	}
	if in.Status != nil {
		if *in.Status != entity.ProductAvailable && *in.Status != entity.ProductUnavailable {
			return fmt.Errorf("product_status %q: %w", *in.Status, domain.ErrInvalidInput)
		}
		p.Status = *in.Status
	}
	return nil
}

// List lista productos con búsqueda por nombre y paginación.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest, status string) (*dto.ProductListResponse, error) {
	page.Normalize()
	list, total, err := uc.repo.List(ctx, repository.ProductFilter{
		Query: page.Query, Status: status, Limit: page.Limit, Offset: page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Unit:        p.Unit,
		ImportPrice: p.ImportPrice.Round(2),
		ExportPrice: p.ExportPrice.Round(2),
		Minimum:     p.Minimum,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
