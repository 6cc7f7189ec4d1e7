package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de ciclo de vida del producto.
const (
	ProductAvailable   = "available"
	ProductUnavailable = "unavailable"
)

// Product representa un artículo del catálogo de la bodega.
// Minimum es el umbral de stock mínimo que activa la alerta (warning) de la fila de stock.
type Product struct {
	ID          string
	Name        string
	Unit        string
	ImportPrice decimal.Decimal
	ExportPrice decimal.Decimal
	Minimum     int64
	Status      string // available | unavailable
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsAvailable indica si el producto puede usarse en comprobantes nuevos.
func (p *Product) IsAvailable() bool {
	return p != nil && p.Status == ProductAvailable
}
