package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ApprovalRepository = (*ApprovalRepo)(nil)

// ApprovalRepo registro append-only de decisiones en approval_imports / approval_exports.
type ApprovalRepo struct {
	q Querier
}

// NewApprovalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewApprovalRepository(q Querier) *ApprovalRepo {
	return &ApprovalRepo{q: q}
}

func approvalTable(kind entity.ReceiptKind) (string, error) {
	switch kind {
	case entity.ReceiptImport:
		return "approval_imports", nil
	case entity.ReceiptExport:
		return "approval_exports", nil
	}
	return "", fmt.Errorf("tipo de comprobante %q: %w", kind, domain.ErrInvalidInput)
}

// Append inserta una decisión. No existe update ni delete.
func (r *ApprovalRepo) Append(ctx context.Context, rec *entity.ApprovalRecord) error {
	table, err := approvalTable(rec.Kind)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO `+table+` (id, receipt_id, approved_by, new_status, reason, approved_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.ReceiptID, rec.ApproverID, string(rec.Decision), rec.Reason, rec.DecidedAt,
	)
	if err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// ListByReceipt devuelve las decisiones del comprobante en orden cronológico.
func (r *ApprovalRepo) ListByReceipt(ctx context.Context, kind entity.ReceiptKind, receiptID string) ([]*entity.ApprovalRecord, error) {
	table, err := approvalTable(kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, receipt_id, approved_by, new_status, reason, approved_at
		FROM `+table+` WHERE receipt_id = $1
		ORDER BY approved_at ASC, id ASC`, receiptID)
	if isInvalidTextRepresentation(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	var list []*entity.ApprovalRecord
	for rows.Next() {
		rec := entity.ApprovalRecord{Kind: kind}
		var decision string
		if err := rows.Scan(&rec.ID, &rec.ReceiptID, &rec.ApproverID, &decision, &rec.Reason, &rec.DecidedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		rec.Decision = entity.ReceiptStatus(decision)
		list = append(list, &rec)
	}
	if err := rows.Err(); err != nil && !isInvalidTextRepresentation(err) {
		return nil, err
	}
	return list, nil
}
