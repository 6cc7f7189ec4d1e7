package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.RestockRepository = (*RestockRepo)(nil)

// RestockRepo solicitudes de reposición (restock_requests) y vínculos (restock_import_links).
type RestockRepo struct {
	q Querier
}

// NewRestockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRestockRepository(q Querier) *RestockRepo {
	return &RestockRepo{q: q}
}

const restockColumns = `id, product_id, requested_by, notified_to, requested_quantity, note, request_status, created_at, updated_at`

const restockViewQuery = `
	SELECT r.id, r.product_id, r.requested_by, r.notified_to, r.requested_quantity, r.note,
	       r.request_status, r.created_at, r.updated_at,
	       p.product_name, ru.full_name, nu.full_name
	FROM restock_requests r
	JOIN products p ON p.id = r.product_id
	JOIN users ru ON ru.id = r.requested_by
	JOIN users nu ON nu.id = r.notified_to`

func scanRestock(row pgx.Row) (*entity.RestockRequest, error) {
	var (
		req    entity.RestockRequest
		status string
	)
	if err := row.Scan(&req.ID, &req.ProductID, &req.RequestedBy, &req.NotifiedTo, &req.Quantity,
		&req.Note, &status, &req.CreatedAt, &req.UpdatedAt); err != nil {
		return nil, err
	}
	req.Status = entity.RestockStatus(status)
	return &req, nil
}

func scanRestockView(row pgx.Row) (*entity.RestockView, error) {
	var (
		v      entity.RestockView
		status string
	)
	if err := row.Scan(&v.ID, &v.ProductID, &v.RequestedBy, &v.NotifiedTo, &v.Quantity, &v.Note,
		&status, &v.CreatedAt, &v.UpdatedAt,
		&v.ProductName, &v.RequesterName, &v.NotifiedName); err != nil {
		return nil, err
	}
	v.Status = entity.RestockStatus(status)
	return &v, nil
}

// Create inserta una solicitud.
func (r *RestockRepo) Create(ctx context.Context, req *entity.RestockRequest) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO restock_requests (`+restockColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		req.ID, req.ProductID, req.RequestedBy, req.NotifiedTo, req.Quantity, req.Note,
		string(req.Status), req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("producto %s ya tiene una solicitud abierta: %w", req.ProductID, domain.ErrDuplicate)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("producto o usuario inexistente: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert restock_requests: %w", err)
	}
	return nil
}

// GetByID solicitud con nombres de producto y usuarios.
func (r *RestockRepo) GetByID(ctx context.Context, id string) (*entity.RestockView, error) {
	v, err := scanRestockView(r.q.QueryRow(ctx, restockViewQuery+` WHERE r.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get restock_requests: %w", err)
	}
	return v, nil
}

// GetForUpdate bloquea la solicitud hasta el final de la tx.
func (r *RestockRepo) GetForUpdate(ctx context.Context, id string) (*entity.RestockRequest, error) {
	req, err := scanRestock(r.q.QueryRow(ctx,
		`SELECT `+restockColumns+` FROM restock_requests WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock restock_requests: %w", err)
	}
	return req, nil
}

// List solicitudes filtradas por estado.
func (r *RestockRepo) List(ctx context.Context, status string) ([]entity.RestockView, error) {
	rows, err := r.q.Query(ctx, restockViewQuery+`
		WHERE ($1 = '' OR $1 = 'all' OR r.request_status = $1)
		ORDER BY r.created_at DESC, r.id`, status)
	if err != nil {
		return nil, fmt.Errorf("list restock_requests: %w", err)
	}
	defer rows.Close()

	list := make([]entity.RestockView, 0)
	for rows.Next() {
		v, err := scanRestockView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan restock_requests: %w", err)
		}
		list = append(list, *v)
	}
	return list, rows.Err()
}

// OpenProductIDs productos con solicitud abierta.
func (r *RestockRepo) OpenProductIDs(ctx context.Context) (map[string]bool, error) {
	rows, err := r.q.Query(ctx, `
		SELECT product_id FROM restock_requests
		WHERE request_status IN ('pending', 'in_progress')`)
	if err != nil {
		return nil, fmt.Errorf("open restock_requests: %w", err)
	}
	defer rows.Close()

	open := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		open[id] = true
	}
	return open, rows.Err()
}

// UpdateStatus cambia el estado. domain.ErrRestockNotFound si no existe.
func (r *RestockRepo) UpdateStatus(ctx context.Context, id string, status entity.RestockStatus, updatedAt time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE restock_requests SET request_status = $2, updated_at = $3 WHERE id = $1`,
		id, string(status), updatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("el producto ya tiene otra solicitud abierta: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("update restock_requests: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRestockNotFound
	}
	return nil
}

const linkColumns = `id, restock_request_id, import_receipt_id, note, link_status, created_by, created_at, updated_at`

func scanLink(row pgx.Row) (*entity.RestockLink, error) {
	var (
		l      entity.RestockLink
		status string
	)
	if err := row.Scan(&l.ID, &l.RequestID, &l.ImportReceiptID, &l.Note, &status,
		&l.CreatedBy, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.Status = entity.LinkStatus(status)
	return &l, nil
}

// CreateLink inserta un vínculo solicitud ↔ comprobante de entrada.
func (r *RestockRepo) CreateLink(ctx context.Context, link *entity.RestockLink) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO restock_import_links (`+linkColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		link.ID, link.RequestID, link.ImportReceiptID, link.Note, string(link.Status),
		link.CreatedBy, link.CreatedAt, link.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("comprobante %s ya vinculado: %w", link.ImportReceiptID, domain.ErrDuplicate)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("solicitud o comprobante inexistente: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert restock_import_links: %w", err)
	}
	return nil
}

// GetLink vínculo por id.
func (r *RestockRepo) GetLink(ctx context.Context, id string) (*entity.RestockLink, error) {
	return r.getLink(ctx, `SELECT `+linkColumns+` FROM restock_import_links WHERE id = $1`, id)
}

// GetLinkForUpdate bloquea el vínculo hasta el final de la tx.
func (r *RestockRepo) GetLinkForUpdate(ctx context.Context, id string) (*entity.RestockLink, error) {
	return r.getLink(ctx, `SELECT `+linkColumns+` FROM restock_import_links WHERE id = $1 FOR UPDATE`, id)
}

func (r *RestockRepo) getLink(ctx context.Context, query, id string) (*entity.RestockLink, error) {
	l, err := scanLink(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get restock_import_links: %w", err)
	}
	return l, nil
}

// ListLinks vínculos, opcionalmente de una solicitud y/o en un estado.
func (r *RestockRepo) ListLinks(ctx context.Context, requestID, status string) ([]*entity.RestockLink, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+linkColumns+` FROM restock_import_links
		WHERE ($1 = '' OR restock_request_id::text = $1)
		  AND ($2 = '' OR $2 = 'all' OR link_status = $2)
		ORDER BY created_at ASC, id`, requestID, status)
	if err != nil {
		return nil, fmt.Errorf("list restock_import_links: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.RestockLink, 0)
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan restock_import_links: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// UpdateLinkStatus cambia el estado del vínculo. domain.ErrLinkNotFound si no existe.
func (r *RestockRepo) UpdateLinkStatus(ctx context.Context, id string, status entity.LinkStatus, updatedAt time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE restock_import_links SET link_status = $2, updated_at = $3 WHERE id = $1`,
		id, string(status), updatedAt)
	if err != nil {
		return fmt.Errorf("update restock_import_links: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLinkNotFound
	}
	return nil
}
