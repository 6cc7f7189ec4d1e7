package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para reportes mensuales.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// MovementTotals agrega cantidad y valor por producto de los comprobantes aprobados en [start, end).
// Se cuenta la fecha de creación del comprobante, no la de aprobación.
func (r *ReportRepo) MovementTotals(ctx context.Context, kind entity.ReceiptKind, start, end time.Time) ([]repository.MovementTotal, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	query := `
	SELECT
	    p.id,
	    p.product_name,
	    p.unit,
	    COALESCE(SUM(d.quantity), 0)::BIGINT AS total_quantity,
	    COALESCE(SUM(d.total_amount), 0) AS total_value
	FROM ` + t.details + ` d
	JOIN ` + t.header + ` r ON r.id = d.receipt_id
	JOIN products p ON p.id = d.product_id
	WHERE r.status = 'approved'
	  AND r.created_at >= $1
	  AND r.created_at <  $2
	GROUP BY p.id, p.product_name, p.unit
	ORDER BY total_value DESC, p.product_name`

	rows, err := r.q.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("report.MovementTotals: %w", err)
	}
	defer rows.Close()

	results := []repository.MovementTotal{}
	for rows.Next() {
		var row repository.MovementTotal
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.Unit, &row.Quantity, &row.Value); err != nil {
			return nil, fmt.Errorf("report.MovementTotals scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
