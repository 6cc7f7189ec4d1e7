package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
)

// partnerService lo implementan *catalog.CustomerUseCase y *catalog.SupplierUseCase.
type partnerService interface {
	Create(ctx context.Context, in dto.PartnerRequest) (*dto.PartnerResponse, error)
	GetByID(ctx context.Context, id string) (*dto.PartnerResponse, error)
	List(ctx context.Context, page dto.PageRequest) (*dto.PartnerListResponse, error)
	Update(ctx context.Context, id string, in dto.PartnerRequest) (*dto.PartnerResponse, error)
	Delete(ctx context.Context, id string) error
}

// PartnerHandler CRUD de clientes (/api/customers) y proveedores (/api/suppliers).
type PartnerHandler struct {
	uc partnerService
}

// NewPartnerHandler construye el handler.
func NewPartnerHandler(uc partnerService) *PartnerHandler {
	return &PartnerHandler{uc: uc}
}

// Create POST /api/customers | /api/suppliers
func (h *PartnerHandler) Create(c *fiber.Ctx) error {
	var in dto.PartnerRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID GET /api/customers/:id | /api/suppliers/:id
func (h *PartnerHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List GET /api/customers?limit=20&offset=0&q=
func (h *PartnerHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), parsePage(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update PUT /api/customers/:id | /api/suppliers/:id
func (h *PartnerHandler) Update(c *fiber.Ctx) error {
	var in dto.PartnerRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/customers/:id | /api/suppliers/:id; 409 si tiene comprobantes.
func (h *PartnerHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
