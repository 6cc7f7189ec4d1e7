package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ApprovalRepository registro append-only de decisiones (no hay update ni delete).
type ApprovalRepository interface {
	Append(ctx context.Context, record *entity.ApprovalRecord) error
	ListByReceipt(ctx context.Context, kind entity.ReceiptKind, receiptID string) ([]*entity.ApprovalRecord, error)
}
