package dto

import "time"

// StockResponse fila de stock, opcionalmente unida con datos del producto.
type StockResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name,omitempty"`
	Unit          string    `json:"unit,omitempty"`
	Minimum       int64     `json:"minimum"`
	ProductStatus string    `json:"product_status,omitempty"`
	Quantity      int64     `json:"quantity"`
	Warning       bool      `json:"warning"`
	UpdatedAt     time.Time `json:"last_updated_at"`
}

// CorrectStockRequest corrección manual de existencia (solo storekeeper).
type CorrectStockRequest struct {
	Quantity *int64 `json:"quantity" validate:"required,min=0"`
}
