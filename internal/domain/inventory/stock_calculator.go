package inventory

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// Warning regla de alerta de stock bajo: true si la existencia está por debajo del mínimo del producto.
func Warning(quantity, minimum int64) bool {
	return quantity < minimum
}

// NextQuantity calcula la existencia resultante de aplicar una línea aprobada.
// Entrada (import) suma; salida (export) resta. ok=false si el resultado sería negativo.
func NextQuantity(kind entity.ReceiptKind, current, lineQty int64) (next int64, ok bool) {
	switch kind {
	case entity.ReceiptImport:
		next = current + lineQty
	case entity.ReceiptExport:
		next = current - lineQty
	default:
		return current, false
	}
	return next, next >= 0
}

// Correct valida una corrección manual de existencia (nunca negativa) y devuelve el warning resultante.
func Correct(quantity, minimum int64) (warning bool, ok bool) {
	if quantity < 0 {
		return false, false
	}
	return Warning(quantity, minimum), true
}
