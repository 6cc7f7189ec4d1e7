package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto (su fila de stock se crea con cantidad 0).
type CreateProductRequest struct {
	Name        string          `json:"product_name" validate:"required,min=1,max=200"`
	Unit        string          `json:"unit" validate:"required,max=50"`
	ImportPrice decimal.Decimal `json:"import_price"`
	ExportPrice decimal.Decimal `json:"export_price"`
	Minimum     int64           `json:"minimum" validate:"min=0"`
}

// UpdateProductRequest entrada para actualizar un producto (el stock no se modifica aquí).
type UpdateProductRequest struct {
	Name        *string          `json:"product_name" validate:"omitempty,min=1,max=200"`
	Unit        *string          `json:"unit" validate:"omitempty,max=50"`
	ImportPrice *decimal.Decimal `json:"import_price"`
	ExportPrice *decimal.Decimal `json:"export_price"`
	Minimum     *int64           `json:"minimum" validate:"omitempty,min=0"`
	Status      *string          `json:"product_status" validate:"omitempty,oneof=available unavailable"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"product_name"`
	Unit        string          `json:"unit"`
	ImportPrice decimal.Decimal `json:"import_price"`
	ExportPrice decimal.Decimal `json:"export_price"`
	Minimum     int64           `json:"minimum"`
	Status      string          `json:"product_status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateProductResponse producto creado junto con su fila de stock.
type CreateProductResponse struct {
	Product ProductResponse `json:"product"`
	Stock   StockResponse   `json:"stock"`
}
