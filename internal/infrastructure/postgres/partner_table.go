package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// partnerRow fila de customers o suppliers.
type partnerRow entity.Partner

// partnerTable CRUD compartido por las tablas customers y suppliers (mismo esquema).
type partnerTable struct {
	q     Querier
	table string
}

const partnerColumns = `id, name, phone, email, address, created_at, updated_at`

func (t partnerTable) create(ctx context.Context, p partnerRow) error {
	_, err := t.q.Exec(ctx,
		`INSERT INTO `+t.table+` (`+partnerColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Name, p.Phone, p.Email, p.Address, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert %s: %w", t.table, err)
	}
	return nil
}

func (t partnerTable) get(ctx context.Context, id string) (*partnerRow, error) {
	var p partnerRow
	err := t.q.QueryRow(ctx, `SELECT `+partnerColumns+` FROM `+t.table+` WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Phone, &p.Email, &p.Address, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", t.table, err)
	}
	return &p, nil
}

func (t partnerTable) list(ctx context.Context, query string, limit, offset int) ([]partnerRow, int, error) {
	pattern := likePattern(query)

	var total int
	if err := t.q.QueryRow(ctx, `SELECT COUNT(*) FROM `+t.table+` WHERE name ILIKE $1`, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", t.table, err)
	}

	rows, err := t.q.Query(ctx,
		`SELECT `+partnerColumns+` FROM `+t.table+` WHERE name ILIKE $1 ORDER BY name ASC LIMIT $2 OFFSET $3`,
		pattern, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", t.table, err)
	}
	defer rows.Close()

	var list []partnerRow
	for rows.Next() {
		var p partnerRow
		if err := rows.Scan(&p.ID, &p.Name, &p.Phone, &p.Email, &p.Address, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan %s: %w", t.table, err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

func (t partnerTable) update(ctx context.Context, p partnerRow) error {
	cmd, err := t.q.Exec(ctx,
		`UPDATE `+t.table+` SET name = $2, phone = $3, email = $4, address = $5, updated_at = $6 WHERE id = $1`,
		p.ID, p.Name, p.Phone, p.Email, p.Address, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", t.table, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// delete falla con ErrConflict si la contraparte ya tiene comprobantes.
func (t partnerTable) delete(ctx context.Context, id string) error {
	cmd, err := t.q.Exec(ctx, `DELETE FROM `+t.table+` WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%s %s tiene comprobantes: %w", t.table, id, domain.ErrConflict)
		}
		return fmt.Errorf("delete %s: %w", t.table, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
