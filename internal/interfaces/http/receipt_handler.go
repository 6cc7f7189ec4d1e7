package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/approval"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/receipts"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// receiptCreator lo implementa *receipts.CreateUseCase.
type receiptCreator interface {
	Create(ctx context.Context, in receipts.CreateInput) (*entity.Receipt, error)
}

// ReceiptHandler alta y consulta de comprobantes de entrada (/api/imports) y salida (/api/exports).
type ReceiptHandler struct {
	creator receiptCreator
	query   receiptQuerier
}

// NewReceiptHandler construye el handler.
func NewReceiptHandler(creator receiptCreator, query receiptQuerier) *ReceiptHandler {
	return &ReceiptHandler{creator: creator, query: query}
}

// Create godoc
// @Summary      Registrar comprobante (queda pendiente de aprobación)
// @Tags         receipts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReceiptRequest  true  "supplier_id (entrada) o customer_id (salida) y líneas"
// @Success      201  {object}  dto.CreateReceiptResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/imports [post]
// @Router       /api/exports [post]
func (h *ReceiptHandler) Create(kind entity.ReceiptKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in dto.CreateReceiptRequest
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
		counterparty := in.SupplierID
		if kind == entity.ReceiptExport {
			counterparty = in.CustomerID
		}
		if counterparty == "" {
			field := "supplier_id"
			if kind == entity.ReceiptExport {
				field = "customer_id"
			}
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: field + " es requerido"})
		}

		lines := make([]receipts.LineInput, 0, len(in.Details))
		for _, d := range in.Details {
			lines = append(lines, receipts.LineInput{ProductID: d.ProductID, Quantity: d.Quantity, UnitPrice: d.UnitPrice})
		}
		receipt, err := h.creator.Create(c.UserContext(), receipts.CreateInput{
			Kind:           kind,
			CounterpartyID: counterparty,
			CreatedBy:      GetUserID(c),
			Lines:          lines,
		})
		if err != nil {
			return writeError(c, err)
		}

		detail, err := h.query.Detail(c.UserContext(), kind, receipt.ID)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(dto.CreateReceiptResponse{
			Message: "comprobante registrado, pendiente de aprobación",
			Receipt: toDetailResponse(detail),
		})
	}
}

// List godoc
// @Summary      Listar comprobantes
// @Tags         receipts
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | approved | rejected | all"  default(all)
// @Success      200  {array}  dto.ReceiptSummaryResponse
// @Router       /api/imports [get]
// @Router       /api/exports [get]
func (h *ReceiptHandler) List(kind entity.ReceiptKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := h.query.ListByStatus(c.UserContext(), kind, c.Query("status", entity.StatusAll))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(toSummaryList(list))
	}
}

// Get godoc
// @Summary      Obtener comprobante
// @Tags         receipts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del comprobante"
// @Success      200  {object}  dto.ReceiptDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/imports/{id} [get]
// @Router       /api/exports/{id} [get]
func (h *ReceiptHandler) Get(kind entity.ReceiptKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		detail, err := h.query.Detail(c.UserContext(), kind, c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(toDetailResponse(detail))
	}
}

var _ receiptQuerier = (*approval.QueryUseCase)(nil)
