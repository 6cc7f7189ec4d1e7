package receipts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// CreateUseCase alta de comprobantes de entrada y salida en estado pending.
type CreateUseCase struct {
	tx  TxRunner
	log zerolog.Logger
	now func() time.Time
}

// NewCreateUseCase construye el caso de uso.
func NewCreateUseCase(tx TxRunner, log zerolog.Logger) *CreateUseCase {
	return &CreateUseCase{tx: tx, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *CreateUseCase) WithClock(now func() time.Time) *CreateUseCase {
	uc.now = now
	return uc
}

// LineInput línea solicitada. UnitPrice nil = precio del catálogo (import_price o export_price).
type LineInput struct {
	ProductID string
	Quantity  int64
	UnitPrice *decimal.Decimal
}

// CreateInput solicitud de alta.
type CreateInput struct {
	Kind           entity.ReceiptKind
	CounterpartyID string
	CreatedBy      string
	Lines          []LineInput
}

// Create valida contraparte y productos, calcula totales en el servidor y persiste cabecera + líneas.
// El stock no cambia hasta que el comprobante se apruebe.
func (uc *CreateUseCase) Create(ctx context.Context, in CreateInput) (*entity.Receipt, error) {
	if !in.Kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if in.CreatedBy == "" {
		return nil, domain.ErrUnauthorized
	}
	if _, err := uuid.Parse(in.CounterpartyID); err != nil {
		return nil, fmt.Errorf("contraparte %q: %w", in.CounterpartyID, domain.ErrInvalidInput)
	}
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("el comprobante necesita al menos una línea: %w", domain.ErrInvalidInput)
	}
	for _, l := range in.Lines {
		if l.Quantity <= 0 {
			return nil, fmt.Errorf("cantidad %d para %s: %w", l.Quantity, l.ProductID, domain.ErrInvalidInput)
		}
		if l.UnitPrice != nil && l.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("precio negativo para %s: %w", l.ProductID, domain.ErrInvalidInput)
		}
	}

	receipt := &entity.Receipt{
		ID:             uuid.New().String(),
		Kind:           in.Kind,
		CounterpartyID: in.CounterpartyID,
		CreatedBy:      in.CreatedBy,
		Status:         entity.StatusPending,
		CreatedAt:      uc.now(),
		TotalAmount:    decimal.Zero,
	}

	err := uc.tx.RunReceipt(ctx, func(
		receiptRepo repository.ReceiptRepository,
		productRepo repository.ProductRepository,
		customerRepo repository.CustomerRepository,
		supplierRepo repository.SupplierRepository,
	) error {
		if err := checkCounterparty(ctx, in, customerRepo, supplierRepo); err != nil {
			return err
		}
		for _, l := range in.Lines {
			product, err := productRepo.GetByID(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("producto %s: %w", l.ProductID, domain.ErrInvalidInput)
			}
			if !product.IsAvailable() {
				return fmt.Errorf("%s: %w", product.Name, domain.ErrProductUnavailable)
			}
			price := product.ImportPrice
			if in.Kind == entity.ReceiptExport {
				price = product.ExportPrice
			}
			if l.UnitPrice != nil {
				price = *l.UnitPrice
			}
			total := price.Mul(decimal.NewFromInt(l.Quantity)).Round(2)
			receipt.Lines = append(receipt.Lines, entity.ReceiptLine{
				ID:        uuid.New().String(),
				ReceiptID: receipt.ID,
				ProductID: product.ID,
				Quantity:  l.Quantity,
				UnitPrice: price,
				LineTotal: total,
			})
			receipt.TotalAmount = receipt.TotalAmount.Add(total)
		}
		return receiptRepo.Create(ctx, receipt)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("kind", string(receipt.Kind)).
		Str("receipt_id", receipt.ID).
		Str("created_by", receipt.CreatedBy).
		Int("lines", len(receipt.Lines)).
		Str("total", receipt.TotalAmount.StringFixed(2)).
		Msg("comprobante creado")
	return receipt, nil
}

func checkCounterparty(ctx context.Context, in CreateInput, customers repository.CustomerRepository, suppliers repository.SupplierRepository) error {
	if in.Kind == entity.ReceiptImport {
		s, err := suppliers.GetByID(ctx, in.CounterpartyID)
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("proveedor %s: %w", in.CounterpartyID, domain.ErrInvalidInput)
		}
		return nil
	}
	c, err := customers.GetByID(ctx, in.CounterpartyID)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("cliente %s: %w", in.CounterpartyID, domain.ErrInvalidInput)
	}
	return nil
}
