package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/approval"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// receiptDecider lo implementa *approval.DecideUseCase.
type receiptDecider interface {
	Decide(ctx context.Context, in approval.DecideInput) (*approval.DecisionResult, error)
}

// receiptQuerier lo implementa *approval.QueryUseCase.
type receiptQuerier interface {
	ListByStatus(ctx context.Context, kind entity.ReceiptKind, status string) ([]repository.ReceiptSummary, error)
	Detail(ctx context.Context, kind entity.ReceiptKind, id string) (*approval.ReceiptDetail, error)
}

// receiptPDF lo implementa *approval.PDFUseCase.
type receiptPDF interface {
	Download(ctx context.Context, kind entity.ReceiptKind, id string) ([]byte, string, error)
}

// ApprovalHandler bandeja de aprobación del almacenista.
type ApprovalHandler struct {
	decider receiptDecider
	query   receiptQuerier
	pdf     receiptPDF
}

// NewApprovalHandler construye el handler. pdf puede ser nil (ruta deshabilitada).
func NewApprovalHandler(decider receiptDecider, query receiptQuerier, pdf receiptPDF) *ApprovalHandler {
	return &ApprovalHandler{decider: decider, query: query, pdf: pdf}
}

// kindParam lee :kind ("import(s)" | "export(s)"); si no es válido ya respondió 400.
func kindParam(c *fiber.Ctx) (entity.ReceiptKind, bool, error) {
	kind, ok := entity.ParseReceiptKind(c.Params("kind"))
	if !ok {
		return "", false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_KIND", Message: "kind debe ser import o export"})
	}
	return kind, true, nil
}

// ListByStatus godoc
// @Summary      Listar comprobantes por estado
// @Tags         approvals
// @Security     Bearer
// @Produce      json
// @Param        kind    path  string  true  "import | export"
// @Param        status  path  string  true  "pending | approved | rejected | all"
// @Success      200  {array}   dto.ReceiptSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/approvals/{kind}/status/{status} [get]
func (h *ApprovalHandler) ListByStatus(c *fiber.Ctx) error {
	kind, ok, err := kindParam(c)
	if !ok {
		return err
	}
	list, err := h.query.ListByStatus(c.UserContext(), kind, c.Params("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSummaryList(list))
}

// Detail godoc
// @Summary      Detalle de un comprobante con sus líneas y la decisión
// @Tags         approvals
// @Security     Bearer
// @Produce      json
// @Param        kind  path  string  true  "import | export"
// @Param        id    path  string  true  "ID del comprobante"
// @Success      200  {object}  dto.ReceiptDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/approvals/{kind}/{id} [get]
func (h *ApprovalHandler) Detail(c *fiber.Ctx) error {
	kind, ok, err := kindParam(c)
	if !ok {
		return err
	}
	detail, err := h.query.Detail(c.UserContext(), kind, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toDetailResponse(detail))
}

// Decide godoc
// @Summary      Aprobar o rechazar un comprobante
// @Description  Registra la decisión, cambia el estado y (si se aprueba) ajusta el stock en una sola transacción.
// @Tags         approvals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        kind  path  string  true  "import | export"
// @Param        id    path  string  true  "ID del comprobante"
// @Param        body  body  dto.DecideRequest  true  "new_status: approved | rejected"
// @Success      200  {object}  dto.DecideResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/approvals/{kind}/{id} [post]
func (h *ApprovalHandler) Decide(c *fiber.Ctx) error {
	kind, ok, err := kindParam(c)
	if !ok {
		return err
	}
	var in dto.DecideRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	result, err := h.decider.Decide(c.UserContext(), approval.DecideInput{
		Kind:       kind,
		ReceiptID:  c.Params("id"),
		ApproverID: GetUserID(c),
		Verdict:    in.NewStatus,
		Reason:     in.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := toDecideResponse(result)
	out.Approval.ApproverName = GetUsername(c)
	return c.JSON(out)
}

// PDF godoc
// @Summary      Descargar el comprobante en PDF
// @Tags         approvals
// @Security     Bearer
// @Produce      application/pdf
// @Param        kind  path  string  true  "import | export"
// @Param        id    path  string  true  "ID del comprobante"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/approvals/{kind}/{id}/pdf [get]
func (h *ApprovalHandler) PDF(c *fiber.Ctx) error {
	if h.pdf == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "PDF_DISABLED", Message: "generación de PDF no disponible"})
	}
	kind, ok, err := kindParam(c)
	if !ok {
		return err
	}
	doc, filename, err := h.pdf.Download(c.UserContext(), kind, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(doc)
}
