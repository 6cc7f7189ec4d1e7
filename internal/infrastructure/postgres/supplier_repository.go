package postgres

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación de SupplierRepository sobre PostgreSQL.
type SupplierRepo struct {
	t partnerTable
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{t: partnerTable{q: q, table: "suppliers"}}
}

func (r *SupplierRepo) Create(ctx context.Context, c *entity.Supplier) error {
	return r.t.create(ctx, partnerRow(*c))
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	row, err := r.t.get(ctx, id)
	if err != nil || row == nil {
		return nil, err
	}
	c := entity.Supplier(*row)
	return &c, nil
}

func (r *SupplierRepo) List(ctx context.Context, query string, limit, offset int) ([]*entity.Supplier, int, error) {
	rows, total, err := r.t.list(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	list := make([]*entity.Supplier, 0, len(rows))
	for _, row := range rows {
		c := entity.Supplier(row)
		list = append(list, &c)
	}
	return list, total, nil
}

func (r *SupplierRepo) Update(ctx context.Context, c *entity.Supplier) error {
	return r.t.update(ctx, partnerRow(*c))
}

func (r *SupplierRepo) Delete(ctx context.Context, id string) error {
	return r.t.delete(ctx, id)
}
