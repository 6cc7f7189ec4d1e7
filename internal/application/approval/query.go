package approval

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// QueryUseCase lecturas de la bandeja de aprobación (sin transacción).
type QueryUseCase struct {
	receiptRepo  repository.ReceiptRepository
	approvalRepo repository.ApprovalRepository
}

// NewQueryUseCase construye el caso de uso de consulta.
func NewQueryUseCase(receiptRepo repository.ReceiptRepository, approvalRepo repository.ApprovalRepository) *QueryUseCase {
	return &QueryUseCase{receiptRepo: receiptRepo, approvalRepo: approvalRepo}
}

// ReceiptDetail cabecera, líneas y última decisión (si existe) de un comprobante.
type ReceiptDetail struct {
	Summary  repository.ReceiptSummary
	Lines    []repository.ReceiptLineView
	Approval *entity.ApprovalRecord
}

// ListByStatus lista comprobantes de kind filtrando por status (pending|approved|rejected|all).
func (uc *QueryUseCase) ListByStatus(ctx context.Context, kind entity.ReceiptKind, status string) ([]repository.ReceiptSummary, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	switch status {
	case "", entity.StatusAll:
		status = entity.StatusAll
	case string(entity.StatusPending), string(entity.StatusApproved), string(entity.StatusRejected):
	default:
		return nil, fmt.Errorf("estado %q: %w", status, domain.ErrInvalidInput)
	}
	return uc.receiptRepo.ListByStatus(ctx, kind, status)
}

// Detail carga en paralelo cabecera, líneas e historial de decisiones.
// Un id que no es UUID no identifica ningún comprobante: ErrReceiptNotFound sin consultar la base.
func (uc *QueryUseCase) Detail(ctx context.Context, kind entity.ReceiptKind, id string) (*ReceiptDetail, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrReceiptNotFound
	}

	var (
		summary *repository.ReceiptSummary
		lines   []repository.ReceiptLineView
		records []*entity.ApprovalRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = uc.receiptRepo.Summary(gctx, kind, id)
		return err
	})
	g.Go(func() error {
		var err error
		lines, err = uc.receiptRepo.Lines(gctx, kind, id)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = uc.approvalRepo.ListByReceipt(gctx, kind, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, domain.ErrReceiptNotFound
	}

	detail := &ReceiptDetail{Summary: *summary, Lines: lines}
	if len(records) > 0 {
		detail.Approval = records[len(records)-1]
	}
	return detail, nil
}
