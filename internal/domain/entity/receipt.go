package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptKind distingue comprobantes de entrada (proveedor) y de salida (cliente).
type ReceiptKind string

const (
	ReceiptImport ReceiptKind = "import"
	ReceiptExport ReceiptKind = "export"
)

// ParseReceiptKind acepta "import"/"imports" y "export"/"exports".
func ParseReceiptKind(s string) (ReceiptKind, bool) {
	switch s {
	case "import", "imports":
		return ReceiptImport, true
	case "export", "exports":
		return ReceiptExport, true
	}
	return "", false
}

// Valid indica si k es un tipo conocido.
func (k ReceiptKind) Valid() bool {
	return k == ReceiptImport || k == ReceiptExport
}

// ReceiptStatus estado del comprobante: pending → approved | rejected (ambos terminales).
type ReceiptStatus string

const (
	StatusPending  ReceiptStatus = "pending"
	StatusApproved ReceiptStatus = "approved"
	StatusRejected ReceiptStatus = "rejected"
)

// StatusAll es el filtro centinela de listados (sin filtro).
const StatusAll = "all"

// CanTransition indica si el cambio from → to es legal.
func CanTransition(from, to ReceiptStatus) bool {
	return from == StatusPending && (to == StatusApproved || to == StatusRejected)
}

// Receipt cabecera de un comprobante de entrada o salida.
// CounterpartyID es el proveedor (import) o el cliente (export).
type Receipt struct {
	ID             string
	Kind           ReceiptKind
	CounterpartyID string
	CreatedBy      string
	TotalAmount    decimal.Decimal
	Status         ReceiptStatus
	CreatedAt      time.Time
	Lines          []ReceiptLine
}

// ReceiptLine línea inmutable de un comprobante.
type ReceiptLine struct {
	ID        string
	ReceiptID string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}
