package postgres

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository sobre PostgreSQL.
type CustomerRepo struct {
	t partnerTable
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{t: partnerTable{q: q, table: "customers"}}
}

func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	return r.t.create(ctx, partnerRow(*c))
}

func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	row, err := r.t.get(ctx, id)
	if err != nil || row == nil {
		return nil, err
	}
	c := entity.Customer(*row)
	return &c, nil
}

func (r *CustomerRepo) List(ctx context.Context, query string, limit, offset int) ([]*entity.Customer, int, error) {
	rows, total, err := r.t.list(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	list := make([]*entity.Customer, 0, len(rows))
	for _, row := range rows {
		c := entity.Customer(row)
		list = append(list, &c)
	}
	return list, total, nil
}

func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	return r.t.update(ctx, partnerRow(*c))
}

func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	return r.t.delete(ctx, id)
}
