package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateReceiptRequest body para POST /api/imports y /api/exports.
// CounterpartyID es supplier_id (entrada) o customer_id (salida); el total se calcula en el servidor.
type CreateReceiptRequest struct {
	SupplierID string                     `json:"supplier_id,omitempty" validate:"omitempty,uuid"`
	CustomerID string                     `json:"customer_id,omitempty" validate:"omitempty,uuid"`
	Details    []CreateReceiptLineRequest `json:"details" validate:"required,min=1,dive"`
}

// CreateReceiptLineRequest línea del comprobante.
type CreateReceiptLineRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Quantity  int64            `json:"quantity" validate:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// ReceiptSummaryResponse fila de listado de comprobantes (con datos de aprobación si ya se decidió).
type ReceiptSummaryResponse struct {
	ID               string          `json:"id"`
	Kind             string          `json:"kind"`
	CounterpartyID   string          `json:"counterparty_id"`
	CounterpartyName string          `json:"counterparty_name"`
	CreatedBy        string          `json:"created_by"`
	CreatorName      string          `json:"requested_by_name"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	Status           string          `json:"receipt_status"`
	CreatedAt        time.Time       `json:"created_at"`
	ApprovalID       string          `json:"approval_id,omitempty"`
	ApproverName     string          `json:"approved_by_name,omitempty"`
	Reason           string          `json:"reason,omitempty"`
	DecidedAt        *time.Time      `json:"approved_at,omitempty"`
}

// ReceiptLineResponse línea unida con nombre y unidad del producto.
type ReceiptLineResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Unit        string          `json:"unit"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"total_amount"`
}

// ReceiptDetailResponse detalle de un comprobante.
type ReceiptDetailResponse struct {
	ReceiptSummaryResponse
	Approval *ApprovalResponse     `json:"approval,omitempty"`
	Lines    []ReceiptLineResponse `json:"details"`
}

// CreateReceiptResponse respuesta de creación.
type CreateReceiptResponse struct {
	Message string                `json:"message"`
	Receipt ReceiptDetailResponse `json:"receipt"`
}
