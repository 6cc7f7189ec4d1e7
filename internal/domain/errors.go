package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrUsernameExists     = errors.New("el nombre de usuario ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInternal           = errors.New("error interno")
	ErrReceiptNotFound    = fmt.Errorf("comprobante no encontrado: %w", ErrNotFound)
	ErrStockNotFound      = fmt.Errorf("sin registro de stock: %w", ErrNotFound)
	ErrProductNotFound    = fmt.Errorf("producto no encontrado: %w", ErrNotFound)
	ErrRestockNotFound    = fmt.Errorf("solicitud de reposición no encontrada: %w", ErrNotFound)
	ErrLinkNotFound       = fmt.Errorf("vínculo de reposición no encontrado: %w", ErrNotFound)
	ErrReasonRequired     = fmt.Errorf("el motivo es obligatorio al rechazar: %w", ErrInvalidInput)
	ErrProductUnavailable = fmt.Errorf("producto no disponible: %w", ErrInvalidInput)
)

// InsufficientStockError indica que una salida dejaría el stock de un producto en negativo.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int64
	Requested   int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q (id %s): disponible %d, solicitado %d",
		e.ProductName, e.ProductID, e.Available, e.Requested)
}

// Unwrap permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// StockNotFoundError indica que un producto no tiene fila en stocks.
type StockNotFoundError struct {
	ProductID string
}

func (e *StockNotFoundError) Error() string {
	return fmt.Sprintf("no existe registro de stock para el producto %s", e.ProductID)
}

// Unwrap permite errors.Is(err, ErrStockNotFound) y errors.Is(err, ErrNotFound).
func (e *StockNotFoundError) Unwrap() error { return ErrStockNotFound }
