package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// CustomerUseCase CRUD de clientes.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

func (uc *CustomerUseCase) Create(ctx context.Context, in dto.PartnerRequest) (*dto.PartnerResponse, error) {
	now := time.Now()
	c := &entity.Customer{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
	applyPartner(&c.Name, &c.Phone, &c.Email, &c.Address, in)
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	resp := dto.PartnerResponse(*c)
	return &resp, nil
}

func (uc *CustomerUseCase) GetByID(ctx context.Context, id string) (*dto.PartnerResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	resp := dto.PartnerResponse(*c)
	return &resp, nil
}

func (uc *CustomerUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.PartnerListResponse, error) {
	page.Normalize()
	list, total, err := uc.repo.List(ctx, page.Query, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PartnerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, dto.PartnerResponse(*c))
	}
	return &dto.PartnerListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total}}, nil
}

func (uc *CustomerUseCase) Update(ctx context.Context, id string, in dto.PartnerRequest) (*dto.PartnerResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	applyPartner(&c.Name, &c.Phone, &c.Email, &c.Address, in)
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	resp := dto.PartnerResponse(*c)
	return &resp, nil
}

// Delete falla con ErrConflict si el cliente ya tiene comprobantes de salida.
func (uc *CustomerUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// SupplierUseCase CRUD de proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

func (uc *SupplierUseCase) Create(ctx context.Context, in dto.PartnerRequest) (*dto.PartnerResponse, error) {
	now := time.Now()
	s := &entity.Supplier{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
	applyPartner(&s.Name, &s.Phone, &s.Email, &s.Address, in)
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	resp := dto.PartnerResponse(*s)
	return &resp, nil
}

func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.PartnerResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	resp := dto.PartnerResponse(*s)
	return &resp, nil
}

func (uc *SupplierUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.PartnerListResponse, error) {
	page.Normalize()
	list, total, err := uc.repo.List(ctx, page.Query, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PartnerResponse, 0, len(list))
	for _, s := range list {
		items = append(items, dto.PartnerResponse(*s))
	}
	return &dto.PartnerListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total}}, nil
}

func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.PartnerRequest) (*dto.PartnerResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	applyPartner(&s.Name, &s.Phone, &s.Email, &s.Address, in)
	s.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	resp := dto.PartnerResponse(*s)
	return &resp, nil
}

// Delete falla con ErrConflict si el proveedor ya tiene comprobantes de entrada.
func (uc *SupplierUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func applyPartner(name, phone, email, address *string, in dto.PartnerRequest) {
	*name = strings.TrimSpace(in.Name)
	*phone = strings.TrimSpace(in.Phone)
	*email = strings.TrimSpace(in.Email)
	*address = strings.TrimSpace(in.Address)
}
