package http

import (
	"github.com/jhoicas/Almacen-api/internal/application/approval"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

func toSummaryResponse(s repository.ReceiptSummary) dto.ReceiptSummaryResponse {
	return dto.ReceiptSummaryResponse{
		ID:               s.ID,
		Kind:             string(s.Kind),
		CounterpartyID:   s.CounterpartyID,
		CounterpartyName: s.CounterpartyName,
		CreatedBy:        s.CreatedBy,
		CreatorName:      s.CreatorName,
		TotalAmount:      s.TotalAmount,
		Status:           string(s.Status),
		CreatedAt:        s.CreatedAt,
		ApprovalID:       s.ApprovalID,
		ApproverName:     s.ApproverName,
		Reason:           s.Reason,
		DecidedAt:        s.DecidedAt,
	}
}

func toSummaryList(list []repository.ReceiptSummary) []dto.ReceiptSummaryResponse {
	out := make([]dto.ReceiptSummaryResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSummaryResponse(s))
	}
	return out
}

func toApprovalResponse(rec *entity.ApprovalRecord, approverName string) dto.ApprovalResponse {
	return dto.ApprovalResponse{
		ID:           rec.ID,
		Kind:         string(rec.Kind),
		ReceiptID:    rec.ReceiptID,
		ApprovedBy:   rec.ApproverID,
		ApproverName: approverName,
		NewStatus:    string(rec.Decision),
		Reason:       rec.Reason,
		ApprovedAt:   rec.DecidedAt,
	}
}

func toDetailResponse(d *approval.ReceiptDetail) dto.ReceiptDetailResponse {
	out := dto.ReceiptDetailResponse{
		ReceiptSummaryResponse: toSummaryResponse(d.Summary),
		Lines:                  make([]dto.ReceiptLineResponse, 0, len(d.Lines)),
	}
	for _, l := range d.Lines {
		out.Lines = append(out.Lines, dto.ReceiptLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Unit:        l.Unit,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		})
	}
	if d.Approval != nil {
		a := toApprovalResponse(d.Approval, d.Summary.ApproverName)
		out.Approval = &a
	}
	return out
}

func toDecideResponse(r *approval.DecisionResult) dto.DecideResponse {
	out := dto.DecideResponse{
		Message:     r.Message,
		Approval:    toApprovalResponse(r.Approval, ""),
		Adjustments: make([]dto.StockAdjustmentResponse, 0, len(r.Adjustments)),
	}
	for _, a := range r.Adjustments {
		out.Adjustments = append(out.Adjustments, dto.StockAdjustmentResponse{
			ProductID:   a.ProductID,
			ProductName: a.ProductName,
			Before:      a.Before,
			After:       a.After,
			Minimum:     a.Minimum,
			Warning:     a.Warning,
		})
	}
	return out
}
