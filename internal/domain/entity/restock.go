package entity

import "time"

// RestockStatus estado de una solicitud de reposición.
// pending → in_progress → completed; pending e in_progress pueden pasar a cancelled.
type RestockStatus string

const (
	RestockPending    RestockStatus = "pending"
	RestockInProgress RestockStatus = "in_progress"
	RestockCompleted  RestockStatus = "completed"
	RestockCancelled  RestockStatus = "cancelled"
)

// Valid indica si s es un estado conocido.
func (s RestockStatus) Valid() bool {
	switch s {
	case RestockPending, RestockInProgress, RestockCompleted, RestockCancelled:
		return true
	}
	return false
}

// Open la solicitud sigue esperando mercancía.
func (s RestockStatus) Open() bool {
	return s == RestockPending || s == RestockInProgress
}

// CanTransitionRestock indica si el cambio from → to es legal. completed y cancelled son terminales.
func CanTransitionRestock(from, to RestockStatus) bool {
	switch from {
	case RestockPending:
		return to == RestockInProgress || to == RestockCompleted || to == RestockCancelled
	case RestockInProgress:
		return to == RestockCompleted || to == RestockCancelled
	}
	return false
}

// LinkStatus estado del vínculo entre una solicitud y un comprobante de entrada.
type LinkStatus string

const (
	LinkPending   LinkStatus = "pending"
	LinkReceived  LinkStatus = "received"
	LinkCancelled LinkStatus = "cancelled"
)

// Valid indica si s es un estado conocido.
func (s LinkStatus) Valid() bool {
	return s == LinkPending || s == LinkReceived || s == LinkCancelled
}

// CanTransitionLink solo un vínculo pendiente cambia de estado.
func CanTransitionLink(from, to LinkStatus) bool {
	return from == LinkPending && (to == LinkReceived || to == LinkCancelled)
}

// RestockRequest solicitud del almacenista para reponer un producto.
// NotifiedTo es el usuario de compras (import_staff) que debe gestionarla.
type RestockRequest struct {
	ID          string
	ProductID   string
	RequestedBy string
	NotifiedTo  string
	Quantity    int64
	Note        string
	Status      RestockStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RestockView solicitud con nombres para listados.
type RestockView struct {
	RestockRequest
	ProductName   string
	RequesterName string
	NotifiedName  string
}

// RestockLink asocia una solicitud con el comprobante de entrada que la atiende.
type RestockLink struct {
	ID              string
	RequestID       string
	ImportReceiptID string
	Note            string
	Status          LinkStatus
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
