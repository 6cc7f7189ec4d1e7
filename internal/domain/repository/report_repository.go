package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// MovementTotal total aprobado de entradas o salidas de un producto en un período.
type MovementTotal struct {
	ProductID   string
	ProductName string
	Unit        string
	Quantity    int64
	Value       decimal.Decimal
}

// ReportRepository consultas de solo lectura para reportes.
type ReportRepository interface {
	// MovementTotals agrega las líneas de comprobantes aprobados de kind creados en [start, end).
	MovementTotals(ctx context.Context, kind entity.ReceiptKind, start, end time.Time) ([]MovementTotal, error)
}
