package entity

import "time"

// StockEntry es la existencia actual de un producto (una fila por producto).
// Invariantes: Quantity >= 0 y Warning == (Quantity < Product.Minimum) después de cada cambio.
type StockEntry struct {
	ID        string
	ProductID string
	Quantity  int64
	Warning   bool
	UpdatedAt time.Time
}

// StockUpdate valores a persistir en una fila de stock.
type StockUpdate struct {
	Quantity  int64
	Warning   bool
	UpdatedAt time.Time
}

// StockView fila de stock unida con los datos del producto (listados y reportes).
type StockView struct {
	StockEntry
	ProductName   string
	Unit          string
	Minimum       int64
	ProductStatus string
}
