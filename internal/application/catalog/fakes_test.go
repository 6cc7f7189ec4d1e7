package catalog_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// memCatalog productos y stock en memoria. RunCatalog revierte si fn devuelve error.
type memCatalog struct {
	mu       sync.Mutex
	products map[string]*entity.Product
	stocks   map[string]*entity.StockEntry // por product_id
	failOn   string                        // "product.create" | "stock.create"
}

func newMemCatalog() *memCatalog {
	return &memCatalog{products: map[string]*entity.Product{}, stocks: map[string]*entity.StockEntry{}}
}

func (m *memCatalog) add(id string, quantity, minimum int64) {
	m.products[id] = &entity.Product{ID: id, Name: "prod " + id, Unit: "caja", Minimum: minimum, Status: entity.ProductAvailable}
	m.stocks[id] = &entity.StockEntry{ID: "stock-" + id, ProductID: id, Quantity: quantity, Warning: quantity < minimum}
}

func (m *memCatalog) RunCatalog(ctx context.Context, fn func(repository.ProductRepository, repository.StockRepository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	products := make(map[string]entity.Product, len(m.products))
	for k, v := range m.products {
		products[k] = *v
	}
	stocks := make(map[string]entity.StockEntry, len(m.stocks))
	for k, v := range m.stocks {
		stocks[k] = *v
	}
	if err := fn(memProducts{m}, memStocks{m}); err != nil {
		m.products = map[string]*entity.Product{}
		for k, v := range products {
			p := v
			m.products[k] = &p
		}
		m.stocks = map[string]*entity.StockEntry{}
		for k, v := range stocks {
			s := v
			m.stocks[k] = &s
		}
		return err
	}
	return nil
}

type memProducts struct{ m *memCatalog }

func (r memProducts) Create(_ context.Context, p *entity.Product) error {
	if r.m.failOn == "product.create" {
		return errors.New("insert products")
	}
	cp := *p
	r.m.products[p.ID] = &cp
	return nil
}

func (r memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.m.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r memProducts) Update(_ context.Context, p *entity.Product) error {
	cp := *p
	r.m.products[p.ID] = &cp
	return nil
}

func (r memProducts) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	var out []*entity.Product
	for _, p := range r.m.products {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Query)) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

type memStocks struct{ m *memCatalog }

func (r memStocks) Create(_ context.Context, s *entity.StockEntry) error {
	if r.m.failOn == "stock.create" {
		return errors.New("insert stocks")
	}
	cp := *s
	r.m.stocks[s.ProductID] = &cp
	return nil
}

func (r memStocks) GetByProduct(_ context.Context, productID string) (*entity.StockEntry, error) {
	s, ok := r.m.stocks[productID]
	if !ok {
		return nil, &domain.StockNotFoundError{ProductID: productID}
	}
	cp := *s
	return &cp, nil
}

func (r memStocks) GetByProductForUpdate(ctx context.Context, productID string) (*entity.StockEntry, error) {
	return r.GetByProduct(ctx, productID)
}

func (r memStocks) GetByIDForUpdate(_ context.Context, stockID string) (*entity.StockEntry, error) {
	for _, s := range r.m.stocks {
		if s.ID == stockID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrStockNotFound
}

func (r memStocks) SetQuantity(_ context.Context, stockID string, upd entity.StockUpdate) (*entity.StockEntry, error) {
	for _, s := range r.m.stocks {
		if s.ID == stockID {
			s.Quantity, s.Warning, s.UpdatedAt = upd.Quantity, upd.Warning, upd.UpdatedAt
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrStockNotFound
}

func (r memStocks) ListViews(_ context.Context, onlyWarning bool) ([]entity.StockView, error) {
	var out []entity.StockView
	for id, s := range r.m.stocks {
		p := r.m.products[id]
		if p == nil || !p.IsAvailable() || (onlyWarning && !s.Warning) {
			continue
		}
		out = append(out, entity.StockView{StockEntry: *s, ProductName: p.Name, Unit: p.Unit, Minimum: p.Minimum, ProductStatus: p.Status})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

type countingCache struct {
	bumps int
	err   error
}

func (c *countingCache) Bump(context.Context) error {
	c.bumps++
	return c.err
}

// memCustomers repositorio de clientes en memoria.
type memCustomers struct {
	items map[string]*entity.Customer
	inUse map[string]bool
}

func newMemCustomers() *memCustomers {
	return &memCustomers{items: map[string]*entity.Customer{}, inUse: map[string]bool{}}
}

func (r *memCustomers) Create(_ context.Context, c *entity.Customer) error {
	cp := *c
	r.items[c.ID] = &cp
	return nil
}

func (r *memCustomers) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memCustomers) List(_ context.Context, query string, limit, offset int) ([]*entity.Customer, int, error) {
	var out []*entity.Customer
	for _, c := range r.items {
		if query == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(query)) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (r *memCustomers) Update(_ context.Context, c *entity.Customer) error {
	cp := *c
	r.items[c.ID] = &cp
	return nil
}

func (r *memCustomers) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	if r.inUse[id] {
		return domain.ErrConflict
	}
	delete(r.items, id)
	return nil
}
