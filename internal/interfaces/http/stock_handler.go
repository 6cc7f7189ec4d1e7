package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/catalog"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
)

// StockHandler consulta y corrección de existencias.
type StockHandler struct {
	uc *catalog.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *catalog.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// List godoc
// @Summary      Listar existencias de productos disponibles
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warning  query  bool  false  "Solo productos bajo el mínimo"
// @Success      200  {array}  dto.StockResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.QueryBool("warning", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByProduct godoc
// @Summary      Existencia de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/product/{productId} [get]
func (h *StockHandler) GetByProduct(c *fiber.Ctx) error {
	out, err := h.uc.GetByProduct(c.UserContext(), c.Params("productId"))
	if err != nil {
		return writeStockError(c, err)
	}
	return c.JSON(out)
}

// Correct godoc
// @Summary      Corregir existencia manualmente (storekeeper)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la fila de stock"
// @Param        body  body  dto.CorrectStockRequest  true  "Nueva cantidad (>= 0)"
// @Success      200  {object}  dto.StockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [put]
func (h *StockHandler) Correct(c *fiber.Ctx) error {
	var in dto.CorrectStockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Correct(c.UserContext(), c.Params("id"), *in.Quantity, GetUserID(c))
	if err != nil {
		return writeStockError(c, err)
	}
	return c.JSON(out)
}

// writeStockError en las rutas de stock una fila inexistente es 404 (en aprobaciones es 409).
func writeStockError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrStockNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "STOCK_NOT_FOUND", Message: err.Error()})
	}
	return writeError(c, err)
}
