package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `id, product_id, quantity, warning, last_updated_at`

func scanStock(row pgx.Row) (*entity.StockEntry, error) {
	var s entity.StockEntry
	if err := row.Scan(&s.ID, &s.ProductID, &s.Quantity, &s.Warning, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta la fila de stock de un producto (UNIQUE product_id).
func (r *StockRepo) Create(ctx context.Context, stock *entity.StockEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stocks (`+stockColumns+`)
		VALUES ($1, $2, $3, $4, $5)`,
		stock.ID, stock.ProductID, stock.Quantity, stock.Warning, stock.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock: %w", err)
	}
	return nil
}

// GetByProduct obtiene el stock actual de un producto.
func (r *StockRepo) GetByProduct(ctx context.Context, productID string) (*entity.StockEntry, error) {
	s, err := scanStock(r.q.QueryRow(ctx, `SELECT `+stockColumns+` FROM stocks WHERE product_id = $1`, productID))
	if err != nil {
		if isNoRows(err) {
			return nil, &domain.StockNotFoundError{ProductID: productID}
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return s, nil
}

// GetByProductForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetByProductForUpdate(ctx context.Context, productID string) (*entity.StockEntry, error) {
	s, err := scanStock(r.q.QueryRow(ctx,
		`SELECT `+stockColumns+` FROM stocks WHERE product_id = $1 FOR UPDATE`, productID))
	if err != nil {
		if isNoRows(err) {
			return nil, &domain.StockNotFoundError{ProductID: productID}
		}
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return s, nil
}

// GetByIDForUpdate bloquea la fila por su id.
func (r *StockRepo) GetByIDForUpdate(ctx context.Context, stockID string) (*entity.StockEntry, error) {
	s, err := scanStock(r.q.QueryRow(ctx,
		`SELECT `+stockColumns+` FROM stocks WHERE id = $1 FOR UPDATE`, stockID))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrStockNotFound
		}
		return nil, fmt.Errorf("get stock by id for update: %w", err)
	}
	return s, nil
}

// SetQuantity escribe cantidad, warning y fecha. El CHECK quantity >= 0 de la tabla es la última barrera.
func (r *StockRepo) SetQuantity(ctx context.Context, stockID string, upd entity.StockUpdate) (*entity.StockEntry, error) {
	s, err := scanStock(r.q.QueryRow(ctx, `
		UPDATE stocks SET quantity = $2, warning = $3, last_updated_at = $4
		WHERE id = $1
		RETURNING `+stockColumns,
		stockID, upd.Quantity, upd.Warning, upd.UpdatedAt,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrStockNotFound
		}
		if isCheckViolation(err) {
			return nil, domain.ErrInsufficientStock
		}
		return nil, fmt.Errorf("update stock: %w", err)
	}
	return s, nil
}

// ListViews lista el stock de productos disponibles con nombre, unidad y mínimo.
func (r *StockRepo) ListViews(ctx context.Context, onlyWarning bool) ([]entity.StockView, error) {
	rows, err := r.q.Query(ctx, `
		SELECT s.id, s.product_id, s.quantity, s.warning, s.last_updated_at,
		       p.product_name, p.unit, p.minimum, p.status
		FROM stocks s
		JOIN products p ON p.id = s.product_id
		WHERE p.status = 'available' AND (NOT $1 OR s.warning)
		ORDER BY p.product_name ASC`, onlyWarning)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	defer rows.Close()

	var list []entity.StockView
	for rows.Next() {
		var v entity.StockView
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Quantity, &v.Warning, &v.UpdatedAt,
			&v.ProductName, &v.Unit, &v.Minimum, &v.ProductStatus); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}
