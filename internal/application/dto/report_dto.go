package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementReportRow total mensual aprobado por producto.
type MovementReportRow struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Unit        string          `json:"unit"`
	Quantity    int64           `json:"total_quantity"`
	Value       decimal.Decimal `json:"total_value"`
}

// MovementReport reporte mensual de entradas o salidas.
type MovementReport struct {
	Kind       string              `json:"kind"`
	Month      int                 `json:"month"`
	Year       int                 `json:"year"`
	Rows       []MovementReportRow `json:"rows"`
	TotalQty   int64               `json:"total_quantity"`
	TotalValue decimal.Decimal     `json:"total_value"`
}

// InventorySnapshotRow existencia actual de un producto.
type InventorySnapshotRow struct {
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name"`
	Unit          string    `json:"unit"`
	CurrentStock  int64     `json:"current_stock"`
	MinimumLevel  int64     `json:"minimum_level"`
	Warning       bool      `json:"warning"`
	ProductStatus string    `json:"stock_status"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
}

// DashboardSummary resumen del mes: entradas, salidas e inventario con alertas.
type DashboardSummary struct {
	Month        int                    `json:"month"`
	Year         int                    `json:"year"`
	Imports      MovementReport         `json:"imports"`
	Exports      MovementReport         `json:"exports"`
	LowStock     []InventorySnapshotRow `json:"low_stock"`
	WarningCount int                    `json:"warning_count"`
}
