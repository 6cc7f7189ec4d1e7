package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ReceiptSummary fila de listado: cabecera + nombres de contraparte/creador y, si ya se decidió,
// el aprobador y el motivo de la última decisión.
type ReceiptSummary struct {
	ID               string
	Kind             entity.ReceiptKind
	CounterpartyID   string
	CounterpartyName string
	CreatedBy        string
	CreatorName      string
	TotalAmount      decimal.Decimal
	Status           entity.ReceiptStatus
	CreatedAt        time.Time
	ApprovalID       string
	ApproverID       string
	ApproverName     string
	Reason           string
	DecidedAt        *time.Time
}

// ReceiptLineView línea unida con nombre y unidad del producto.
type ReceiptLineView struct {
	entity.ReceiptLine
	ProductName string
	Unit        string
}

// ReceiptRepository define el puerto de persistencia de comprobantes (entrada y salida).
// Las tablas se eligen según kind; las líneas son inmutables (no hay update ni delete de líneas).
type ReceiptRepository interface {
	// Create inserta cabecera y líneas; debe ejecutarse dentro de una transacción.
	Create(ctx context.Context, receipt *entity.Receipt) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, kind entity.ReceiptKind, id string) (*entity.Receipt, error)
	// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE) y carga sus líneas. (nil, nil) si no existe.
	GetForUpdate(ctx context.Context, kind entity.ReceiptKind, id string) (*entity.Receipt, error)
	// TransitionStatus aplica UPDATE … WHERE status = from; 0 filas afectadas → domain.ErrConflict.
	TransitionStatus(ctx context.Context, kind entity.ReceiptKind, id string, from, to entity.ReceiptStatus) error
	// ListByStatus status vacío o "all" = sin filtro.
	ListByStatus(ctx context.Context, kind entity.ReceiptKind, status string) ([]ReceiptSummary, error)
	// Summary devuelve la fila de listado de un comprobante; (nil, nil) si no existe.
	Summary(ctx context.Context, kind entity.ReceiptKind, id string) (*ReceiptSummary, error)
	Lines(ctx context.Context, kind entity.ReceiptKind, receiptID string) ([]ReceiptLineView, error)
}
