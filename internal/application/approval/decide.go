package approval

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Motivos por defecto cuando la decisión llega sin motivo.
const (
	DefaultExportReason   = "Sin observaciones"
	DefaultImportApproved = "Aprobado"
)

// DecideUseCase motor de aprobación: registra la decisión, cambia el estado del comprobante y,
// si se aprueba, ajusta el stock de cada línea; todo en una sola transacción.
type DecideUseCase struct {
	txRunner TxRunner
	cache    CacheInvalidator
	alerts   AlertPublisher
	log      zerolog.Logger
	now      func() time.Time
}

// NewDecideUseCase construye el caso de uso. cache y alerts pueden ser nil.
func NewDecideUseCase(txRunner TxRunner, cache CacheInvalidator, alerts AlertPublisher, log zerolog.Logger) *DecideUseCase {
	return &DecideUseCase{
		txRunner: txRunner,
		cache:    cache,
		alerts:   alerts,
		log:      log,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *DecideUseCase) WithClock(now func() time.Time) *DecideUseCase {
	uc.now = now
	return uc
}

// DecideInput solicitud de decisión sobre un comprobante.
type DecideInput struct {
	Kind       entity.ReceiptKind
	ReceiptID  string
	ApproverID string
	Verdict    string
	Reason     string
}

// StockAdjustment cambio aplicado a la fila de stock de un producto.
type StockAdjustment struct {
	ProductID   string
	ProductName string
	Before      int64
	After       int64
	Minimum     int64
	Warning     bool
}

// DecisionResult resultado de una decisión confirmada.
type DecisionResult struct {
	Message     string
	Approval    *entity.ApprovalRecord
	Adjustments []StockAdjustment
}

// Decide valida la solicitud (sin abrir transacción) y luego ejecuta el cuerpo transaccional.
// Cualquier error dentro de la transacción (comprobante ya decidido, fila de stock ausente,
// stock insuficiente) descarta también el registro de aprobación y el cambio de estado.
func (uc *DecideUseCase) Decide(ctx context.Context, in DecideInput) (*DecisionResult, error) {
	verdict, reason, err := validate(in)
	if err != nil {
		return nil, err
	}

	var result *DecisionResult
	err = uc.txRunner.RunApproval(ctx, func(
		receiptRepo repository.ReceiptRepository,
		approvalRepo repository.ApprovalRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error {
		// Bloquea la cabecera: dos decisiones concurrentes sobre el mismo comprobante se serializan aquí.
		receipt, err := receiptRepo.GetForUpdate(ctx, in.Kind, in.ReceiptID)
		if err != nil {
			return err
		}
		if receipt == nil {
			return domain.ErrReceiptNotFound
		}
		if !entity.CanTransition(receipt.Status, verdict) {
			return fmt.Errorf("comprobante %s en estado %s: %w", receipt.ID, receipt.Status, domain.ErrConflict)
		}

		now := uc.now()
		record := &entity.ApprovalRecord{
			ID:         uuid.New().String(),
			Kind:       in.Kind,
			ReceiptID:  receipt.ID,
			ApproverID: in.ApproverID,
			Decision:   verdict,
			Reason:     reason,
			DecidedAt:  now,
		}
		if err := approvalRepo.Append(ctx, record); err != nil {
			return err
		}
		if err := receiptRepo.TransitionStatus(ctx, in.Kind, receipt.ID, entity.StatusPending, verdict); err != nil {
			return err
		}

		var adjustments []StockAdjustment
		if verdict == entity.StatusApproved {
			adjustments, err = applyLines(ctx, stockRepo, productRepo, in.Kind, receipt.Lines, now)
			if err != nil {
				return err
			}
		}

		result = &DecisionResult{
			Message:     message(in.Kind, receipt.ID, verdict),
			Approval:    record,
			Adjustments: adjustments,
		}
		return nil
	})
	if err != nil {
		uc.logFailure(in, err)
		return nil, err
	}

	uc.log.Info().
		Str("kind", string(in.Kind)).
		Str("receipt_id", in.ReceiptID).
		Str("approver_id", in.ApproverID).
		Str("verdict", string(verdict)).
		Int("adjusted_products", len(result.Adjustments)).
		Msg("decisión de comprobante confirmada")

	uc.afterCommit(ctx, in, result)
	return result, nil
}

// applyLines ajusta el stock de cada línea en orden ascendente de producto (orden de bloqueo
// determinista entre transacciones concurrentes).
func applyLines(
	ctx context.Context,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	kind entity.ReceiptKind,
	lines []entity.ReceiptLine,
	now time.Time,
) ([]StockAdjustment, error) {
	ordered := make([]entity.ReceiptLine, len(lines))
	copy(ordered, lines)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ProductID < ordered[j].ProductID })

	byProduct := make(map[string]int, len(ordered))
	adjustments := make([]StockAdjustment, 0, len(ordered))
	for _, line := range ordered {
		stock, err := stockRepo.GetByProductForUpdate(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		product, err := productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("producto %s: %w", line.ProductID, domain.ErrProductNotFound)
		}

		next, ok := inventory.NextQuantity(kind, stock.Quantity, line.Quantity)
		if !ok {
			return nil, &domain.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Available:   stock.Quantity,
				Requested:   line.Quantity,
			}
		}
		warning := inventory.Warning(next, product.Minimum)
		if _, err := stockRepo.SetQuantity(ctx, stock.ID, entity.StockUpdate{
			Quantity:  next,
			Warning:   warning,
			UpdatedAt: now,
		}); err != nil {
			return nil, err
		}

		// Varias líneas del mismo producto se reportan como un solo ajuste.
		if i, seen := byProduct[product.ID]; seen {
			adjustments[i].After = next
			adjustments[i].Warning = warning
			continue
		}
		byProduct[product.ID] = len(adjustments)
		adjustments = append(adjustments, StockAdjustment{
			ProductID:   product.ID,
			ProductName: product.Name,
			Before:      stock.Quantity,
			After:       next,
			Minimum:     product.Minimum,
			Warning:     warning,
		})
	}
	return adjustments, nil
}

func validate(in DecideInput) (entity.ReceiptStatus, string, error) {
	if strings.TrimSpace(in.ApproverID) == "" {
		return "", "", domain.ErrUnauthorized
	}
	if !in.Kind.Valid() {
		return "", "", domain.ErrInvalidInput
	}
	if _, err := uuid.Parse(in.ReceiptID); err != nil {
		return "", "", fmt.Errorf("id de comprobante %q: %w", in.ReceiptID, domain.ErrInvalidInput)
	}
	verdict := entity.ReceiptStatus(in.Verdict)
	if verdict != entity.StatusApproved && verdict != entity.StatusRejected {
		return "", "", fmt.Errorf("new_status debe ser 'approved' o 'rejected': %w", domain.ErrInvalidInput)
	}

	reason := strings.TrimSpace(in.Reason)
	if reason != "" {
		return verdict, reason, nil
	}
	switch {
	case in.Kind == entity.ReceiptExport:
		reason = DefaultExportReason
	case verdict == entity.StatusRejected:
		return "", "", domain.ErrReasonRequired
	default:
		reason = DefaultImportApproved
	}
	return verdict, reason, nil
}

func message(kind entity.ReceiptKind, id string, verdict entity.ReceiptStatus) string {
	noun := "Comprobante de salida"
	if kind == entity.ReceiptImport {
		noun = "Comprobante de entrada"
	}
	if verdict == entity.StatusApproved {
		return fmt.Sprintf("%s #%s aprobado (stock actualizado)", noun, id)
	}
	return fmt.Sprintf("%s #%s rechazado", noun, id)
}

// afterCommit efectos secundarios posteriores al commit; sus errores se registran y no se devuelven.
func (uc *DecideUseCase) afterCommit(ctx context.Context, in DecideInput, result *DecisionResult) {
	if uc.cache != nil {
		if err := uc.cache.Bump(ctx); err != nil {
			uc.log.Warn().Err(err).Msg("invalidar caché de reportes")
		}
	}
	if uc.alerts == nil {
		return
	}
	for _, adj := range result.Adjustments {
		if !adj.Warning {
			continue
		}
		alert := LowStockAlert{
			ProductID:   adj.ProductID,
			ProductName: adj.ProductName,
			Quantity:    adj.After,
			Minimum:     adj.Minimum,
			ReceiptID:   in.ReceiptID,
			Kind:        string(in.Kind),
		}
		if err := uc.alerts.PublishLowStock(ctx, alert); err != nil {
			uc.log.Warn().Err(err).Str("product_id", adj.ProductID).Msg("publicar alerta de stock bajo")
		}
	}
}

func (uc *DecideUseCase) logFailure(in DecideInput, err error) {
	level := zerolog.ErrorLevel
	var insufficient *domain.InsufficientStockError
	if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound) || errors.As(err, &insufficient) {
		level = zerolog.WarnLevel
	}
	uc.log.WithLevel(level).Err(err).
		Str("kind", string(in.Kind)).
		Str("receipt_id", in.ReceiptID).
		Str("verdict", in.Verdict).
		Msg("decisión de comprobante descartada")
}
