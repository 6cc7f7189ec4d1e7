package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ReceiptRepository = (*ReceiptRepo)(nil)

// receiptTables tablas y columna de contraparte según el tipo de comprobante.
type receiptTables struct {
	header       string
	details      string
	approvals    string
	counterparty string // columna en header
	partners     string // tabla de la contraparte
}

func tablesFor(kind entity.ReceiptKind) (receiptTables, error) {
	switch kind {
	case entity.ReceiptImport:
		return receiptTables{"import_receipts", "import_details", "approval_imports", "supplier_id", "suppliers"}, nil
	case entity.ReceiptExport:
		return receiptTables{"export_receipts", "export_details", "approval_exports", "customer_id", "customers"}, nil
	}
	return receiptTables{}, fmt.Errorf("tipo de comprobante %q: %w", kind, domain.ErrInvalidInput)
}

// ReceiptRepo comprobantes de entrada y salida sobre PostgreSQL (usable con pool o tx).
type ReceiptRepo struct {
	q Querier
}

// NewReceiptRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceiptRepository(q Querier) *ReceiptRepo {
	return &ReceiptRepo{q: q}
}

// Create inserta cabecera y líneas. Llamar dentro de una transacción.
func (r *ReceiptRepo) Create(ctx context.Context, rec *entity.Receipt) error {
	t, err := tablesFor(rec.Kind)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO `+t.header+` (id, `+t.counterparty+`, created_by, total_amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.CounterpartyID, rec.CreatedBy, rec.TotalAmount, string(rec.Status), rec.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("contraparte o usuario inexistente: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert %s: %w", t.header, err)
	}
	for _, l := range rec.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO `+t.details+` (id, receipt_id, product_id, quantity, unit_price, total_amount)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			l.ID, rec.ID, l.ProductID, l.Quantity, l.UnitPrice, l.LineTotal,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("producto %s inexistente: %w", l.ProductID, domain.ErrInvalidInput)
			}
			return fmt.Errorf("insert %s: %w", t.details, err)
		}
	}
	return nil
}

// GetByID obtiene cabecera y líneas.
func (r *ReceiptRepo) GetByID(ctx context.Context, kind entity.ReceiptKind, id string) (*entity.Receipt, error) {
	return r.get(ctx, kind, id, false)
}

// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE) y carga las líneas.
func (r *ReceiptRepo) GetForUpdate(ctx context.Context, kind entity.ReceiptKind, id string) (*entity.Receipt, error) {
	return r.get(ctx, kind, id, true)
}

func (r *ReceiptRepo) get(ctx context.Context, kind entity.ReceiptKind, id string, lock bool) (*entity.Receipt, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	query := `SELECT id, ` + t.counterparty + `, created_by, total_amount, status, created_at FROM ` + t.header + ` WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	rec := entity.Receipt{Kind: kind}
	var status string
	err = r.q.QueryRow(ctx, query, id).Scan(&rec.ID, &rec.CounterpartyID, &rec.CreatedBy, &rec.TotalAmount, &status, &rec.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", t.header, err)
	}
	rec.Status = entity.ReceiptStatus(status)

	rows, err := r.q.Query(ctx, `
		SELECT id, receipt_id, product_id, quantity, unit_price, total_amount
		FROM `+t.details+` WHERE receipt_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", t.details, err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.ReceiptLine
		if err := rows.Scan(&l.ID, &l.ReceiptID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.details, err)
		}
		rec.Lines = append(rec.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &rec, nil
}

// TransitionStatus compare-and-swap del estado: 0 filas afectadas = otro proceso ya decidió.
func (r *ReceiptRepo) TransitionStatus(ctx context.Context, kind entity.ReceiptKind, id string, from, to entity.ReceiptStatus) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	cmd, err := r.q.Exec(ctx,
		`UPDATE `+t.header+` SET status = $3 WHERE id = $1 AND status = $2`,
		id, string(from), string(to))
	if err != nil {
		return fmt.Errorf("update %s status: %w", t.header, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("comprobante %s ya no está en %s: %w", id, from, domain.ErrConflict)
	}
	return nil
}

// summarySelect cabecera + nombres + última decisión (LATERAL) para listados y detalle.
func summarySelect(t receiptTables) string {
	return `
		SELECT r.id, r.` + t.counterparty + `, COALESCE(cp.name, ''),
		       r.created_by, COALESCE(NULLIF(u.full_name, ''), u.username, ''),
		       r.total_amount, r.status, r.created_at,
		       COALESCE(a.id::text, ''), COALESCE(a.approved_by::text, ''),
		       COALESCE(NULLIF(au.full_name, ''), au.username, ''),
		       COALESCE(a.reason, ''), a.approved_at
		FROM ` + t.header + ` r
		LEFT JOIN ` + t.partners + ` cp ON cp.id = r.` + t.counterparty + `
		LEFT JOIN users u ON u.id = r.created_by
		LEFT JOIN LATERAL (
		    SELECT id, approved_by, reason, approved_at
		    FROM ` + t.approvals + `
		    WHERE receipt_id = r.id
		    ORDER BY approved_at DESC, id DESC
		    LIMIT 1
		) a ON true
		LEFT JOIN users au ON au.id = a.approved_by`
}

func scanSummary(row pgx.Row, kind entity.ReceiptKind) (*repository.ReceiptSummary, error) {
	s := repository.ReceiptSummary{Kind: kind}
	var status string
	if err := row.Scan(
		&s.ID, &s.CounterpartyID, &s.CounterpartyName,
		&s.CreatedBy, &s.CreatorName,
		&s.TotalAmount, &status, &s.CreatedAt,
		&s.ApprovalID, &s.ApproverID, &s.ApproverName,
		&s.Reason, &s.DecidedAt,
	); err != nil {
		return nil, err
	}
	s.Status = entity.ReceiptStatus(status)
	return &s, nil
}

// ListByStatus lista comprobantes por estado ("all" = sin filtro), más recientes primero.
func (r *ReceiptRepo) ListByStatus(ctx context.Context, kind entity.ReceiptKind, status string) ([]repository.ReceiptSummary, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	if status == "" {
		status = entity.StatusAll
	}
	rows, err := r.q.Query(ctx, summarySelect(t)+`
		WHERE ($1 = 'all' OR r.status = $1)
		ORDER BY r.created_at DESC, r.id`, status)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.header, err)
	}
	defer rows.Close()

	list := []repository.ReceiptSummary{}
	for rows.Next() {
		s, err := scanSummary(rows, kind)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.header, err)
		}
		list = append(list, *s)
	}
	return list, rows.Err()
}

// Summary fila de listado de un comprobante.
func (r *ReceiptRepo) Summary(ctx context.Context, kind entity.ReceiptKind, id string) (*repository.ReceiptSummary, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	s, err := scanSummary(r.q.QueryRow(ctx, summarySelect(t)+` WHERE r.id = $1`, id), kind)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s summary: %w", t.header, err)
	}
	return s, nil
}

// Lines líneas del comprobante con nombre y unidad del producto.
func (r *ReceiptRepo) Lines(ctx context.Context, kind entity.ReceiptKind, receiptID string) ([]repository.ReceiptLineView, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.q.Query(ctx, `
		SELECT d.id, d.receipt_id, d.product_id, d.quantity, d.unit_price, d.total_amount,
		       p.product_name, p.unit
		FROM `+t.details+` d
		JOIN products p ON p.id = d.product_id
		WHERE d.receipt_id = $1
		ORDER BY p.product_name, d.id`, receiptID)
	if isInvalidTextRepresentation(err) {
		return []repository.ReceiptLineView{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.details, err)
	}
	defer rows.Close()

	list := []repository.ReceiptLineView{}
	for rows.Next() {
		var v repository.ReceiptLineView
		if err := rows.Scan(&v.ID, &v.ReceiptID, &v.ProductID, &v.Quantity, &v.UnitPrice, &v.LineTotal,
			&v.ProductName, &v.Unit); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.details, err)
		}
		list = append(list, v)
	}
	if err := rows.Err(); err != nil {
		if isInvalidTextRepresentation(err) {
			return []repository.ReceiptLineView{}, nil
		}
		return nil, err
	}
	return list, nil
}
