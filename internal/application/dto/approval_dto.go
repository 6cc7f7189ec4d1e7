package dto

import "time"

// DecideRequest body para POST /api/approvals/:kind/:id.
type DecideRequest struct {
	NewStatus string `json:"new_status" validate:"required,oneof=approved rejected"`
	Reason    string `json:"reason"`
}

// ApprovalResponse registro de aprobación persistido.
type ApprovalResponse struct {
	ID           string    `json:"approval_id"`
	Kind         string    `json:"kind"`
	ReceiptID    string    `json:"receipt_id"`
	ApprovedBy   string    `json:"approved_by"`
	ApproverName string    `json:"approved_by_name,omitempty"`
	NewStatus    string    `json:"new_status"`
	Reason       string    `json:"reason"`
	ApprovedAt   time.Time `json:"approved_at"`
}

// StockAdjustmentResponse ajuste de stock aplicado por la aprobación.
type StockAdjustmentResponse struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Before      int64  `json:"quantity_before"`
	After       int64  `json:"quantity_after"`
	Minimum     int64  `json:"minimum"`
	Warning     bool   `json:"warning"`
}

// DecideResponse respuesta de la decisión.
type DecideResponse struct {
	Message     string                    `json:"message"`
	Approval    ApprovalResponse          `json:"approval"`
	Adjustments []StockAdjustmentResponse `json:"adjustments"`
}
