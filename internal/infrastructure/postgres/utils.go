package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation verifica si un error es una violación de llave foránea (23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

// isInvalidTextRepresentation verifica si un valor no se pudo convertir al tipo de la columna (22P02),
// p. ej. un id que no es UUID.
func isInvalidTextRepresentation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "22P02"
	}
	return false
}

// isNoRows la consulta por id no encontró fila. Un id mal formado tampoco identifica ninguna.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || isInvalidTextRepresentation(err)
}

// isCheckViolation verifica si un error es una violación de CHECK (23514), p. ej. quantity >= 0.
func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23514"
	}
	return false
}

// likePattern arma el patrón ILIKE para búsquedas por nombre; vacío = todos.
func likePattern(q string) string {
	q = strings.TrimSpace(q)
	if q == "" {
		return "%"
	}
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}
