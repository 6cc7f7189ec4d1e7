package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRestockRequest body para POST /api/restocks.
type CreateRestockRequest struct {
	ProductID  string `json:"product_id" validate:"required,uuid"`
	NotifiedTo string `json:"notified_to" validate:"required,uuid"`
	Quantity   int64  `json:"requested_quantity" validate:"required,gt=0"`
	Note       string `json:"note" validate:"omitempty,max=500"`
}

// UpdateRestockStatusRequest body para PUT /api/restocks/:request_id.
type UpdateRestockStatusRequest struct {
	Status string `json:"request_status" validate:"required,oneof=pending in_progress completed cancelled"`
}

// CreateRestockLinkRequest body para POST /api/restocks/links.
type CreateRestockLinkRequest struct {
	RequestID       string `json:"restock_request_id" validate:"required"`
	ImportReceiptID string `json:"import_receipt_id" validate:"required"`
	Note            string `json:"note" validate:"omitempty,max=500"`
}

// UpdateRestockLinkRequest body para PUT /api/restocks/links/:link_id.
type UpdateRestockLinkRequest struct {
	Status string `json:"link_status" validate:"required,oneof=pending received cancelled"`
}

// RestockResponse solicitud de reposición.
type RestockResponse struct {
	ID            string                `json:"request_id"`
	ProductID     string                `json:"product_id"`
	ProductName   string                `json:"product_name,omitempty"`
	RequestedBy   string                `json:"requested_by"`
	RequesterName string                `json:"requested_by_name,omitempty"`
	NotifiedTo    string                `json:"notified_to"`
	NotifiedName  string                `json:"notified_to_name,omitempty"`
	Quantity      int64                 `json:"requested_quantity"`
	Note          string                `json:"note"`
	Status        string                `json:"request_status"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	Links         []RestockLinkResponse `json:"links,omitempty"`
}

// RestockLinkResponse vínculo solicitud ↔ comprobante de entrada.
type RestockLinkResponse struct {
	ID              string    `json:"link_id"`
	RequestID       string    `json:"restock_request_id"`
	ImportReceiptID string    `json:"import_receipt_id"`
	Note            string    `json:"note"`
	Status          string    `json:"link_status"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// RestockSuggestionResponse producto en alerta con la cantidad sugerida.
type RestockSuggestionResponse struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Unit         string          `json:"unit"`
	CurrentStock int64           `json:"current_stock"`
	Minimum      int64           `json:"minimum"`
	IdealStock   int64           `json:"ideal_stock"`
	SuggestedQty int64           `json:"suggested_quantity"`
	DeficitPct   decimal.Decimal `json:"deficit_pct"`
	OpenRequest  bool            `json:"open_request"`
	Priority     int             `json:"priority"`
}
